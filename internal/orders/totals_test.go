package orders

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
)

func items(totals ...int) []models.OrderItem {
	rows := make([]models.OrderItem, 0, len(totals))
	for _, total := range totals {
		rows = append(rows, models.OrderItem{TotalCents: total})
	}
	return rows
}

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	thirteenPct := decimal.RequireFromString("0.13")

	cases := []struct {
		name     string
		items    []models.OrderItem
		taxRate  decimal.Decimal
		discount int
		want     Totals
	}{
		{
			name:     "tax and discount",
			items:    items(60, 40),
			taxRate:  thirteenPct,
			discount: 10,
			want:     Totals{SubtotalCents: 100, TaxCents: 13, DiscountCents: 10, TotalCents: 103},
		},
		{
			name:    "no items",
			items:   nil,
			taxRate: thirteenPct,
			want:    Totals{},
		},
		{
			name:     "discount exceeds total clamps at zero",
			items:    items(50),
			taxRate:  decimal.Zero,
			discount: 90,
			want:     Totals{SubtotalCents: 50, TaxCents: 0, DiscountCents: 90, TotalCents: 0},
		},
		{
			name:     "negative discount treated as zero",
			items:    items(50),
			taxRate:  decimal.Zero,
			discount: -20,
			want:     Totals{SubtotalCents: 50, TotalCents: 50},
		},
		{
			name:    "tax rounds half away from zero",
			items:   items(50), // 50 * 0.13 = 6.5 -> 7
			taxRate: thirteenPct,
			want:    Totals{SubtotalCents: 50, TaxCents: 7, TotalCents: 57},
		},
		{
			name:    "zero tax rate",
			items:   items(75),
			taxRate: decimal.Zero,
			want:    Totals{SubtotalCents: 75, TotalCents: 75},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ComputeTotals(tc.items, tc.taxRate, tc.discount)
			if got != tc.want {
				t.Fatalf("ComputeTotals() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	t.Parallel()

	rate := decimal.RequireFromString("0.08")
	rows := items(1200, 450, 330)

	first := ComputeTotals(rows, rate, 100)
	second := ComputeTotals(rows, rate, 100)
	if first != second {
		t.Fatalf("expected identical totals, got %+v then %+v", first, second)
	}
}

package orders

import (
	"github.com/shopspring/decimal"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
)

// Totals is the financial snapshot derived from an order's line items.
type Totals struct {
	SubtotalCents int
	TaxCents      int
	DiscountCents int
	TotalCents    int
}

// ComputeTotals folds line items into the order's financial snapshot.
// All arithmetic runs on integer cents; the tax rate is the only decimal
// input and its product is rounded half away from zero. The grand total
// is clamped at zero so an oversized discount can never produce a
// negative balance.
func ComputeTotals(items []models.OrderItem, taxRate decimal.Decimal, discountCents int) Totals {
	subtotal := 0
	for _, item := range items {
		subtotal += item.TotalCents
	}

	tax := 0
	if taxRate.IsPositive() && subtotal > 0 {
		tax = int(taxRate.Mul(decimal.NewFromInt(int64(subtotal))).Round(0).IntPart())
	}

	if discountCents < 0 {
		discountCents = 0
	}

	total := subtotal + tax - discountCents
	if total < 0 {
		total = 0
	}

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    total,
	}
}

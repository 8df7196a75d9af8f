package enums

import "testing"

func TestOrderStatusTerminal(t *testing.T) {
	terminal := map[OrderStatus]bool{
		OrderStatusCompleted: true,
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	}
	for _, status := range OrderStatuses() {
		if got := status.IsTerminal(); got != terminal[status] {
			t.Fatalf("status %s terminal=%v, want %v", status, got, terminal[status])
		}
	}
}

func TestOrderStatusRevenueSet(t *testing.T) {
	revenue := map[OrderStatus]bool{
		OrderStatusCompleted: true,
		OrderStatusDelivered: true,
	}
	for _, status := range OrderStatuses() {
		if got := status.CountsAsRevenue(); got != revenue[status] {
			t.Fatalf("status %s revenue=%v, want %v", status, got, revenue[status])
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("floating"); err == nil {
		t.Fatal("expected unknown status to error")
	}
	status, err := ParseOrderStatus("waiting_parts")
	if err != nil {
		t.Fatalf("parse waiting_parts: %v", err)
	}
	if status != OrderStatusWaitingParts {
		t.Fatalf("unexpected status %s", status)
	}
}

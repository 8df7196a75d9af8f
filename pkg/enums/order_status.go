package enums

import "fmt"

// OrderStatus tracks the repair workflow state of a work order.
type OrderStatus string

const (
	OrderStatusReception    OrderStatus = "reception"
	OrderStatusDiagnosis    OrderStatus = "diagnosis"
	OrderStatusWaitingParts OrderStatus = "waiting_parts"
	OrderStatusInProgress   OrderStatus = "in_progress"
	OrderStatusQualityCheck OrderStatus = "quality_check"
	OrderStatusCompleted    OrderStatus = "completed"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusReception,
	OrderStatusDiagnosis,
	OrderStatusWaitingParts,
	OrderStatusInProgress,
	OrderStatusQualityCheck,
	OrderStatusCompleted,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further transitions.
func (o OrderStatus) IsTerminal() bool {
	switch o {
	case OrderStatusCompleted, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CountsAsRevenue reports whether orders in this status contribute to revenue totals.
func (o OrderStatus) CountsAsRevenue() bool {
	switch o {
	case OrderStatusCompleted, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStatuses returns every known status value.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

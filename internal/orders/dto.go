package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// CreateOrderInput captures the fields accepted at vehicle intake.
type CreateOrderInput struct {
	ClientID              uuid.UUID
	VehicleID             uuid.UUID
	TechnicianID          *uuid.UUID
	Description           string
	Notes                 *string
	EstimatedCompletionAt *time.Time
}

// UpdateOrderInput captures the mutable descriptive fields of an order.
// Monetary fields other than the discount are derived, never set directly.
type UpdateOrderInput struct {
	Description           *string
	Diagnosis             *string
	Notes                 *string
	TechnicianID          *uuid.UUID
	DiscountCents         *int
	PaymentStatus         *enums.PaymentStatus
	EstimatedCompletionAt *time.Time
	PhotoKeys             []string
}

// AddItemInput describes a part or service charged against an order.
type AddItemInput struct {
	Name            string
	Quantity        int
	UnitPriceCents  int
	InventoryItemID *uuid.UUID
}

// OrderFilters describe the inputs supported by the orders list.
type OrderFilters struct {
	Status        *enums.OrderStatus
	ClientID      *uuid.UUID
	TechnicianID  *uuid.UUID
	PaymentStatus *enums.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
	Query         string
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderCreatedEvent is emitted when an order is registered at intake.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber int64             `json:"order_number"`
	WorkshopID  uuid.UUID         `json:"workshop_id"`
	ClientID    uuid.UUID         `json:"client_id"`
	VehicleID   uuid.UUID         `json:"vehicle_id"`
	Status      enums.OrderStatus `json:"status"`
}

// OrderStatusChangedEvent is emitted on every successful status transition.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	WorkshopID uuid.UUID         `json:"workshop_id"`
	From       enums.OrderStatus `json:"from"`
	To         enums.OrderStatus `json:"to"`
}

// OrderItemChangedEvent is emitted when a line item is added, resized, or removed.
type OrderItemChangedEvent struct {
	OrderID         uuid.UUID  `json:"order_id"`
	OrderItemID     uuid.UUID  `json:"order_item_id"`
	WorkshopID      uuid.UUID  `json:"workshop_id"`
	InventoryItemID *uuid.UUID `json:"inventory_item_id,omitempty"`
	Quantity        int        `json:"quantity"`
	SubtotalCents   int        `json:"subtotal_cents"`
	TotalCents      int        `json:"total_cents"`
}

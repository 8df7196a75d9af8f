package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// OrderItem is a part or service charged against a work order.
type OrderItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID             `gorm:"column:order_id;type:uuid;not null"`
	InventoryItemID *uuid.UUID            `gorm:"column:inventory_item_id;type:uuid"`
	Name            string                `gorm:"column:name;not null"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	UnitPriceCents  int                   `gorm:"column:unit_price_cents;not null"`
	TotalCents      int                   `gorm:"column:total_cents;not null"`
	Status          enums.OrderItemStatus `gorm:"column:status;type:order_item_status;not null;default:'pending'"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

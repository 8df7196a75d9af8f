package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks stock for a single part shared across all orders.
type InventoryItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkshopID     uuid.UUID `gorm:"column:workshop_id;type:uuid;not null;uniqueIndex:ux_inventory_workshop_sku"`
	SKU            string    `gorm:"column:sku;not null;uniqueIndex:ux_inventory_workshop_sku"`
	Name           string    `gorm:"column:name;not null"`
	Category       string    `gorm:"column:category;not null"`
	Stock          int       `gorm:"column:stock;not null;default:0"`
	MinStock       int       `gorm:"column:min_stock;not null;default:5"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

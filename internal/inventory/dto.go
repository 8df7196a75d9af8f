package inventory

import (
	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
)

// LowStockEvent is the outbox payload raised when a part drops to or
// below its reorder threshold.
type LowStockEvent struct {
	ItemID     uuid.UUID `json:"item_id"`
	WorkshopID uuid.UUID `json:"workshop_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Stock      int       `json:"stock"`
	MinStock   int       `json:"min_stock"`
}

// ItemFilters describe the inputs supported by the inventory list.
type ItemFilters struct {
	Category     string
	Query        string
	LowStockOnly bool
}

// ItemList wraps the paginated items plus the next page cursor.
type ItemList struct {
	Items      []models.InventoryItem `json:"items"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// CreateItemInput captures the fields accepted when registering a part.
type CreateItemInput struct {
	SKU            string
	Name           string
	Category       string
	Stock          int
	MinStock       *int
	UnitPriceCents int
}

// UpdateItemInput captures the mutable fields of an inventory item.
type UpdateItemInput struct {
	Name           *string
	Category       *string
	Stock          *int
	MinStock       *int
	UnitPriceCents *int
}

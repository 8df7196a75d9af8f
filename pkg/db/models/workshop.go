package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// Workshop is the tenant entity. Every order, inventory item and
// membership is scoped to exactly one workshop.
type Workshop struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Slug      string         `gorm:"column:slug;not null;uniqueIndex"`
	Currency  enums.Currency `gorm:"column:currency;type:currency;not null;default:'USD'"`
	// TaxRate overrides the service-wide rate when set, stored as a
	// decimal string such as "0.13".
	TaxRate   *string   `gorm:"column:tax_rate"`
	Address   *string   `gorm:"column:address"`
	Phone     *string   `gorm:"column:phone"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

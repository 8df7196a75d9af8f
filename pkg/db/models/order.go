package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/enums"
	"github.com/autofixhq/workshop-backend/pkg/types"
)

// Order represents a repair work order moving through the workshop.
type Order struct {
	ID                    uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber           int64               `gorm:"column:order_number;not null"`
	WorkshopID            uuid.UUID           `gorm:"column:workshop_id;type:uuid;not null"`
	ClientID              uuid.UUID           `gorm:"column:client_id;type:uuid;not null"`
	VehicleID             uuid.UUID           `gorm:"column:vehicle_id;type:uuid;not null"`
	TechnicianID          *uuid.UUID          `gorm:"column:technician_id;type:uuid"`
	Status                enums.OrderStatus   `gorm:"column:status;type:order_status;not null;default:'reception'"`
	Description           string              `gorm:"column:description;not null"`
	Diagnosis             *string             `gorm:"column:diagnosis"`
	Notes                 *string             `gorm:"column:notes"`
	PhotoKeys             types.StringList    `gorm:"column:photo_keys;type:text[]"`
	SubtotalCents         int                 `gorm:"column:subtotal_cents;not null;default:0"`
	TaxCents              int                 `gorm:"column:tax_cents;not null;default:0"`
	DiscountCents         int                 `gorm:"column:discount_cents;not null;default:0"`
	TotalCents            int                 `gorm:"column:total_cents;not null;default:0"`
	Currency              enums.Currency      `gorm:"column:currency;type:text;not null;default:'USD'"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	EstimatedCompletionAt *time.Time          `gorm:"column:estimated_completion_at"`
	CompletedAt           *time.Time          `gorm:"column:completed_at"`
	DeliveredAt           *time.Time          `gorm:"column:delivered_at"`
	CancelledAt           *time.Time          `gorm:"column:cancelled_at"`
	Items                 []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer of the workshop.
type Client struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkshopID uuid.UUID `gorm:"column:workshop_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	Phone      *string   `gorm:"column:phone"`
	Email      *string   `gorm:"column:email"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to a client and is the subject of work orders.
type Vehicle struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkshopID uuid.UUID `gorm:"column:workshop_id;type:uuid;not null"`
	ClientID   uuid.UUID `gorm:"column:client_id;type:uuid;not null"`
	Make       string    `gorm:"column:make;not null"`
	Model      string    `gorm:"column:model;not null"`
	Year       int       `gorm:"column:year;not null"`
	Plate      string    `gorm:"column:plate;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

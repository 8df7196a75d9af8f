package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// Appointment is a scheduled visit that may turn into a work order.
type Appointment struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WorkshopID  uuid.UUID               `gorm:"column:workshop_id;type:uuid;not null"`
	ClientID    uuid.UUID               `gorm:"column:client_id;type:uuid;not null"`
	VehicleID   *uuid.UUID              `gorm:"column:vehicle_id;type:uuid"`
	ScheduledAt time.Time               `gorm:"column:scheduled_at;not null"`
	Reason      string                  `gorm:"column:reason;not null"`
	Status      enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null;default:'scheduled'"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

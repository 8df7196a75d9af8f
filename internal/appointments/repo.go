package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/repo"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// AppointmentFilters narrow the appointment listing.
type AppointmentFilters struct {
	Status   *enums.AppointmentStatus
	ClientID *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// Repository defines persistence operations for appointments.
type Repository interface {
	Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error)
	FindByID(ctx context.Context, workshopID, apptID uuid.UUID) (*models.Appointment, error)
	List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, filters AppointmentFilters) (*AppointmentList, error)
	Update(ctx context.Context, apptID uuid.UUID, updates map[string]any) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, appt *models.Appointment) (*models.Appointment, error) {
	if err := r.DB(ctx).Create(appt).Error; err != nil {
		return nil, err
	}
	return appt, nil
}

func (r *repository) FindByID(ctx context.Context, workshopID, apptID uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.DB(ctx).
		Where("id = ? AND workshop_id = ?", apptID, workshopID).
		First(&appt).Error
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (r *repository) List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, filters AppointmentFilters) (*AppointmentList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.DB(ctx).
		Model(&models.Appointment{}).
		Where("workshop_id = ?", workshopID)
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.ClientID != nil {
		q = q.Where("client_id = ?", *filters.ClientID)
	}
	if filters.DateFrom != nil {
		q = q.Where("scheduled_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("scheduled_at <= ?", *filters.DateTo)
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Appointment
	err = q.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &AppointmentList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	list.Appointments = rows
	return list, nil
}

func (r *repository) Update(ctx context.Context, apptID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", apptID).
		Updates(updates).Error
}

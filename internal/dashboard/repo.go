package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/repo"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// Repository loads the raw snapshots the dashboard folds into stats.
type Repository interface {
	OrderSnapshots(ctx context.Context, workshopID uuid.UUID) ([]OrderSnapshot, error)
	LowStockItems(ctx context.Context, workshopID uuid.UUID) ([]models.InventoryItem, error)
	CountClientsSince(ctx context.Context, workshopID uuid.UUID, since time.Time) (int64, error)
	CountAppointmentsBetween(ctx context.Context, workshopID uuid.UUID, from, to time.Time) (int64, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds the GORM-backed dashboard repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) OrderSnapshots(ctx context.Context, workshopID uuid.UUID) ([]OrderSnapshot, error) {
	var rows []OrderSnapshot
	err := r.DB(ctx).
		Model(&models.Order{}).
		Select("status", "total_cents", "description", "completed_at", "delivered_at", "created_at", "updated_at").
		Where("workshop_id = ?", workshopID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) LowStockItems(ctx context.Context, workshopID uuid.UUID) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.DB(ctx).
		Where("workshop_id = ?", workshopID).
		Where("stock <= min_stock").
		Order("stock ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) CountClientsSince(ctx context.Context, workshopID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Client{}).
		Where("workshop_id = ?", workshopID).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *repository) CountAppointmentsBetween(ctx context.Context, workshopID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Appointment{}).
		Where("workshop_id = ?", workshopID).
		Where("scheduled_at >= ? AND scheduled_at < ?", from, to).
		Where("status <> ?", enums.AppointmentStatusCancelled).
		Count(&count).Error
	return count, err
}

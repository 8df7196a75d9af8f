package vehicles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/repo"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// Repository defines persistence operations for client vehicles.
type Repository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(ctx context.Context, workshopID, vehicleID uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, clientID *uuid.UUID) (*VehicleList, error)
	Update(ctx context.Context, vehicleID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, workshopID, vehicleID uuid.UUID) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.DB(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *repository) FindByID(ctx context.Context, workshopID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.DB(ctx).
		Where("id = ? AND workshop_id = ?", vehicleID, workshopID).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *repository) List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, clientID *uuid.UUID) (*VehicleList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.DB(ctx).
		Model(&models.Vehicle{}).
		Where("workshop_id = ?", workshopID)
	if clientID != nil {
		q = q.Where("client_id = ?", *clientID)
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Vehicle
	err = q.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &VehicleList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	list.Vehicles = rows
	return list, nil
}

func (r *repository) Update(ctx context.Context, vehicleID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", vehicleID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, workshopID, vehicleID uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Vehicle{}, "id = ? AND workshop_id = ?", vehicleID, workshopID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

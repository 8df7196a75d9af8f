package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/repo"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// Repository defines persistence operations for workshop clients.
type Repository interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	FindByID(ctx context.Context, workshopID, clientID uuid.UUID) (*models.Client, error)
	List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, query string) (*ClientList, error)
	Update(ctx context.Context, clientID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, workshopID, clientID uuid.UUID) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if err := r.DB(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

func (r *repository) FindByID(ctx context.Context, workshopID, clientID uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.DB(ctx).
		Where("id = ? AND workshop_id = ?", clientID, workshopID).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, query string) (*ClientList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.DB(ctx).
		Model(&models.Client{}).
		Where("workshop_id = ?", workshopID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", like, like, like)
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Client
	err = q.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &ClientList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	list.Clients = rows
	return list, nil
}

func (r *repository) Update(ctx context.Context, clientID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, workshopID, clientID uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Client{}, "id = ? AND workshop_id = ?", clientID, workshopID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

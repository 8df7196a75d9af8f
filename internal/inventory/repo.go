package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/repo"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// Repository defines persistence operations for inventory items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, workshopID, itemID uuid.UUID) (*models.InventoryItem, error)
	List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, filters ItemFilters) (*ItemList, error)
	Update(ctx context.Context, itemID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, workshopID, itemID uuid.UUID) error
	ListLowStock(ctx context.Context, workshopID uuid.UUID) ([]models.InventoryItem, error)
	ListLowStockAll(ctx context.Context) ([]models.InventoryItem, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds the GORM-backed inventory repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.DB(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, workshopID, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.DB(ctx).
		Where("id = ? AND workshop_id = ?", itemID, workshopID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, filters ItemFilters) (*ItemList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	query := r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("workshop_id = ?", workshopID)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("name LIKE ? OR sku LIKE ?", like, like)
	}
	if filters.LowStockOnly {
		query = query.Where("stock <= min_stock")
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.InventoryItem
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &ItemList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	list.Items = rows
	return list, nil
}

func (r *repository) Update(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()
	return r.DB(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, workshopID, itemID uuid.UUID) error {
	res := r.DB(ctx).
		Where("id = ? AND workshop_id = ?", itemID, workshopID).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListLowStock(ctx context.Context, workshopID uuid.UUID) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.DB(ctx).
		Where("workshop_id = ? AND stock <= min_stock", workshopID).
		Order("stock ASC").
		Find(&rows).Error
	return rows, err
}

// ListLowStockAll scans every workshop; used by the cron sweep.
func (r *repository) ListLowStockAll(ctx context.Context) ([]models.InventoryItem, error) {
	var rows []models.InventoryItem
	err := r.DB(ctx).
		Where("stock <= min_stock").
		Order("workshop_id").
		Order("stock ASC").
		Find(&rows).Error
	return rows, err
}

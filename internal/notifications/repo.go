package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/internal/repo"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// Repository defines persistence operations for in-app notifications.
type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, unreadOnly bool) (*NotificationList, error)
	MarkRead(ctx context.Context, workshopID, notificationID uuid.UUID, readAt time.Time) error
	CountUnread(ctx context.Context, workshopID uuid.UUID) (int64, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, notification *models.Notification) error {
	return r.DB(ctx).Create(notification).Error
}

func (r *repository) List(ctx context.Context, workshopID uuid.UUID, params pagination.Params, unreadOnly bool) (*NotificationList, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.DB(ctx).
		Model(&models.Notification{}).
		Where("workshop_id = ?", workshopID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	if cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Notification
	err = q.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	list := &NotificationList{}
	if len(rows) > limit {
		last := rows[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	list.Notifications = rows
	return list, nil
}

func (r *repository) MarkRead(ctx context.Context, workshopID, notificationID uuid.UUID, readAt time.Time) error {
	res := r.DB(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND workshop_id = ?", notificationID, workshopID).
		Update("read_at", gorm.Expr("COALESCE(read_at, ?)", readAt))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountUnread(ctx context.Context, workshopID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Notification{}).
		Where("workshop_id = ? AND read_at IS NULL", workshopID).
		Count(&count).Error
	return count, err
}

package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

func setupNotificationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:notifications_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  workshop_id TEXT NOT NULL,
  type TEXT NOT NULL,
  title TEXT NOT NULL,
  message TEXT NOT NULL,
  link TEXT,
  read_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, workshopID uuid.UUID, createdAt time.Time) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		ID:         uuid.New(),
		WorkshopID: workshopID,
		Type:       enums.NotificationTypeOrder,
		Title:      "Order ready for pickup",
		Message:    "Order is ready for the client.",
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(notification).Error)
	return notification
}

func TestNotificationListScopedAndOrdered(t *testing.T) {
	t.Parallel()

	db := setupNotificationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	workshopID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	older := seedNotification(t, db, workshopID, base)
	newer := seedNotification(t, db, workshopID, base.Add(10*time.Minute))
	seedNotification(t, db, uuid.New(), base.Add(20*time.Minute))

	list, err := repo.List(ctx, workshopID, pagination.Params{Limit: 10}, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, newer.ID, list.Notifications[0].ID)
	assert.Equal(t, older.ID, list.Notifications[1].ID)
	assert.Empty(t, list.NextCursor)
}

func TestNotificationListUnreadOnly(t *testing.T) {
	t.Parallel()

	db := setupNotificationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	workshopID := uuid.New()

	read := seedNotification(t, db, workshopID, time.Now().UTC().Add(-time.Minute))
	unread := seedNotification(t, db, workshopID, time.Now().UTC())
	require.NoError(t, repo.MarkRead(ctx, workshopID, read.ID, time.Now().UTC()))

	list, err := repo.List(ctx, workshopID, pagination.Params{Limit: 10}, true)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, unread.ID, list.Notifications[0].ID)

	count, err := repo.CountUnread(ctx, workshopID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationMarkReadIsIdempotent(t *testing.T) {
	t.Parallel()

	db := setupNotificationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	workshopID := uuid.New()

	notification := seedNotification(t, db, workshopID, time.Now().UTC())
	firstReadAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.MarkRead(ctx, workshopID, notification.ID, firstReadAt))
	require.NoError(t, repo.MarkRead(ctx, workshopID, notification.ID, firstReadAt.Add(time.Hour)))

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", notification.ID).Error)
	require.NotNil(t, stored.ReadAt)
	assert.WithinDuration(t, firstReadAt, *stored.ReadAt, time.Second)
}

func TestNotificationMarkReadWrongWorkshop(t *testing.T) {
	t.Parallel()

	db := setupNotificationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	notification := seedNotification(t, db, uuid.New(), time.Now().UTC())
	err := repo.MarkRead(ctx, uuid.New(), notification.ID, time.Now().UTC())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNotificationListPagination(t *testing.T) {
	t.Parallel()

	db := setupNotificationTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	workshopID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedNotification(t, db, workshopID, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.List(ctx, workshopID, pagination.Params{Limit: 2}, false)
	require.NoError(t, err)
	require.Len(t, first.Notifications, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, workshopID, pagination.Params{Limit: 2, Cursor: first.NextCursor}, false)
	require.NoError(t, err)
	require.Len(t, second.Notifications, 1)
	assert.Empty(t, second.NextCursor)
}

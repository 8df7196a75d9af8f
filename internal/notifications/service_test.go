package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

func memberActor(workshopID uuid.UUID) auth.Actor {
	return auth.Actor{
		UserID:     uuid.New(),
		WorkshopID: workshopID,
		Role:       enums.MemberRoleReceptionist,
	}
}

func newServiceWithDB(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupNotificationTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, db
}

func TestServiceListIncludesUnreadCount(t *testing.T) {
	t.Parallel()

	svc, db := newServiceWithDB(t)
	ctx := context.Background()
	workshopID := uuid.New()
	actor := memberActor(workshopID)

	seedNotification(t, db, workshopID, time.Now().UTC().Add(-time.Minute))
	seedNotification(t, db, workshopID, time.Now().UTC())

	list, err := svc.List(ctx, actor, pagination.Params{Limit: 10}, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Notifications) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list.Notifications))
	}
	if list.UnreadCount != 2 {
		t.Fatalf("expected unread count 2, got %d", list.UnreadCount)
	}
}

func TestServiceMarkReadUpdatesUnreadCount(t *testing.T) {
	t.Parallel()

	svc, db := newServiceWithDB(t)
	ctx := context.Background()
	workshopID := uuid.New()
	actor := memberActor(workshopID)

	notification := seedNotification(t, db, workshopID, time.Now().UTC())
	if err := svc.MarkRead(ctx, actor, notification.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	list, err := svc.List(ctx, actor, pagination.Params{Limit: 10}, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list.UnreadCount != 0 {
		t.Fatalf("expected unread count 0, got %d", list.UnreadCount)
	}

	var stored models.Notification
	if err := db.First(&stored, "id = ?", notification.ID).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if stored.ReadAt == nil {
		t.Fatal("expected read_at to be set")
	}
}

func TestServiceMarkReadUnknownIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newServiceWithDB(t)
	actor := memberActor(uuid.New())

	err := svc.MarkRead(context.Background(), actor, uuid.New())
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceRequiresWorkshopContext(t *testing.T) {
	t.Parallel()

	svc, _ := newServiceWithDB(t)
	actor := auth.Actor{UserID: uuid.New()}

	_, err := svc.List(context.Background(), actor, pagination.Params{}, false)
	var typed *pkgerrors.Error
	if !errors.As(err, &typed) || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

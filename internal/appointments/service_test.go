package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:appointments_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS appointments (
  id TEXT PRIMARY KEY,
  workshop_id TEXT NOT NULL,
  client_id TEXT NOT NULL,
  vehicle_id TEXT,
  scheduled_at DATETIME NOT NULL,
  reason TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'scheduled',
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB, now time.Time) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	svc.(*service).now = func() time.Time { return now }
	return svc
}

func staffActor(workshopID uuid.UUID) auth.Actor {
	return auth.Actor{
		UserID:     uuid.New(),
		WorkshopID: workshopID,
		Role:       enums.MemberRoleManager,
	}
}

func TestAppointmentBookingFlow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)
	actor := staffActor(uuid.New())
	ctx := context.Background()

	created, err := svc.Create(ctx, actor, CreateAppointmentInput{
		ClientID:    uuid.New(),
		ScheduledAt: now.Add(48 * time.Hour),
		Reason:      "annual inspection",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != enums.AppointmentStatusScheduled {
		t.Fatalf("expected scheduled status, got %s", created.Status)
	}

	confirmed, err := svc.SetStatus(ctx, actor, created.ID, enums.AppointmentStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != enums.AppointmentStatusConfirmed {
		t.Fatalf("expected confirmed status, got %s", confirmed.Status)
	}

	moved, err := svc.Reschedule(ctx, actor, created.ID, now.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !moved.ScheduledAt.Equal(now.Add(72 * time.Hour)) {
		t.Fatalf("expected rescheduled time, got %v", moved.ScheduledAt)
	}

	if _, err := svc.SetStatus(ctx, actor, created.ID, enums.AppointmentStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err = svc.SetStatus(ctx, actor, created.ID, enums.AppointmentStatusConfirmed)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on closed appointment, got %v", err)
	}
}

func TestAppointmentCreateRejectsPast(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)
	actor := staffActor(uuid.New())

	_, err := svc.Create(context.Background(), actor, CreateAppointmentInput{
		ClientID:    uuid.New(),
		ScheduledAt: now.Add(-time.Hour),
		Reason:      "too late",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAppointmentListFiltersByStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)
	actor := staffActor(uuid.New())
	ctx := context.Background()

	first, err := svc.Create(ctx, actor, CreateAppointmentInput{
		ClientID: uuid.New(), ScheduledAt: now.Add(24 * time.Hour), Reason: "brakes",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, actor, CreateAppointmentInput{
		ClientID: uuid.New(), ScheduledAt: now.Add(48 * time.Hour), Reason: "tires",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.SetStatus(ctx, actor, first.ID, enums.AppointmentStatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	status := enums.AppointmentStatusConfirmed
	list, err := svc.List(ctx, actor, pagination.Params{}, AppointmentFilters{Status: &status})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Appointments) != 1 || list.Appointments[0].ID != first.ID {
		t.Fatalf("expected only the confirmed appointment, got %+v", list.Appointments)
	}
}

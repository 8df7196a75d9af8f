package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:dashboard_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number INTEGER NOT NULL,
  workshop_id TEXT NOT NULL,
  client_id TEXT NOT NULL,
  vehicle_id TEXT NOT NULL,
  technician_id TEXT,
  status TEXT NOT NULL DEFAULT 'reception',
  description TEXT NOT NULL,
  diagnosis TEXT,
  notes TEXT,
  photo_keys TEXT,
  subtotal_cents INTEGER NOT NULL DEFAULT 0,
  tax_cents INTEGER NOT NULL DEFAULT 0,
  discount_cents INTEGER NOT NULL DEFAULT 0,
  total_cents INTEGER NOT NULL DEFAULT 0,
  currency TEXT NOT NULL DEFAULT 'USD',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  estimated_completion_at DATETIME,
  completed_at DATETIME,
  delivered_at DATETIME,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  workshop_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  stock INTEGER NOT NULL DEFAULT 0,
  min_stock INTEGER NOT NULL DEFAULT 5,
  unit_price_cents INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS clients (
  id TEXT PRIMARY KEY,
  workshop_id TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
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

func seedOrder(t *testing.T, db *gorm.DB, workshopID uuid.UUID, status enums.OrderStatus, totalCents int, description string, closedAt *time.Time) {
	t.Helper()
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: 1001,
		WorkshopID:  workshopID,
		ClientID:    uuid.New(),
		VehicleID:   uuid.New(),
		Status:      status,
		Description: description,
		TotalCents:  totalCents,
	}
	switch status {
	case enums.OrderStatusCompleted:
		order.CompletedAt = closedAt
	case enums.OrderStatusDelivered:
		order.DeliveredAt = closedAt
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func TestStatsEmptyWorkshopReturnsZeroes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db, time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC))

	stats, err := svc.Stats(context.Background(), staffActor(uuid.New()))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Revenue.TotalCents != 0 {
		t.Fatalf("expected zero revenue, got %d", stats.Revenue.TotalCents)
	}
	if len(stats.Revenue.ByDay) != 0 || len(stats.Revenue.ByMonth) != 0 {
		t.Fatalf("expected empty revenue buckets, got %+v", stats.Revenue)
	}
	if len(stats.StatusCounts) != len(enums.OrderStatuses()) {
		t.Fatalf("expected all statuses present, got %d keys", len(stats.StatusCounts))
	}
	for status, count := range stats.StatusCounts {
		if count != 0 {
			t.Fatalf("expected zero count for %s, got %d", status, count)
		}
	}
	if len(stats.LowStockItems) != 0 {
		t.Fatalf("expected no low stock items, got %d", len(stats.LowStockItems))
	}
	if stats.NewClientsThisMonth != 0 || stats.AppointmentsToday != 0 {
		t.Fatalf("expected zero clients and appointments, got %+v", stats)
	}
	if len(stats.TopDescriptions) != 0 {
		t.Fatalf("expected no top descriptions, got %+v", stats.TopDescriptions)
	}
}

func TestStatsAggregatesWorkshopActivity(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)
	workshopID := uuid.New()

	july := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	august := time.Date(2025, 8, 5, 9, 0, 0, 0, time.UTC)
	seedOrder(t, db, workshopID, enums.OrderStatusCompleted, 10000, "brake service", &july)
	seedOrder(t, db, workshopID, enums.OrderStatusDelivered, 5000, "oil change", &august)
	seedOrder(t, db, workshopID, enums.OrderStatusInProgress, 7000, "oil change", nil)
	seedOrder(t, db, workshopID, enums.OrderStatusCancelled, 3000, "oil change", nil)
	seedOrder(t, db, uuid.New(), enums.OrderStatusCompleted, 99999, "foreign", &august)

	stats, err := svc.Stats(context.Background(), staffActor(workshopID))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	// cancelled and in-progress value never counts as revenue
	if stats.Revenue.TotalCents != 15000 {
		t.Fatalf("expected revenue 15000, got %d", stats.Revenue.TotalCents)
	}
	if len(stats.Revenue.ByMonth) != 2 {
		t.Fatalf("expected 2 revenue months, got %+v", stats.Revenue.ByMonth)
	}
	if stats.Revenue.ByMonth[0].Key != "2025-07" || stats.Revenue.ByMonth[0].Cents != 10000 {
		t.Fatalf("unexpected first month bucket %+v", stats.Revenue.ByMonth[0])
	}
	if stats.Revenue.ByMonth[1].Key != "2025-08" || stats.Revenue.ByMonth[1].Cents != 5000 {
		t.Fatalf("unexpected second month bucket %+v", stats.Revenue.ByMonth[1])
	}

	if stats.StatusCounts[enums.OrderStatusCompleted] != 1 {
		t.Fatalf("expected 1 completed order, got %d", stats.StatusCounts[enums.OrderStatusCompleted])
	}
	if stats.StatusCounts[enums.OrderStatusReception] != 0 {
		t.Fatalf("expected 0 reception orders, got %d", stats.StatusCounts[enums.OrderStatusReception])
	}

	if stats.RevenueByStatus[enums.OrderStatusInProgress] != 7000 {
		t.Fatalf("expected 7000 in progress value, got %d", stats.RevenueByStatus[enums.OrderStatusInProgress])
	}

	if len(stats.TopDescriptions) != 2 {
		t.Fatalf("expected 2 descriptions, got %+v", stats.TopDescriptions)
	}
	if stats.TopDescriptions[0].Description != "oil change" || stats.TopDescriptions[0].Count != 3 {
		t.Fatalf("unexpected top description %+v", stats.TopDescriptions[0])
	}
}

func TestStatsLowStockAndClients(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	svc := newTestService(t, db, now)
	workshopID := uuid.New()

	mustCreate := func(value any) {
		if err := db.Create(value).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	mustCreate(&models.InventoryItem{
		ID: uuid.New(), WorkshopID: workshopID, SKU: "A", Name: "pads", Stock: 2, MinStock: 5,
	})
	mustCreate(&models.InventoryItem{
		ID: uuid.New(), WorkshopID: workshopID, SKU: "B", Name: "oil", Stock: 40, MinStock: 5,
	})
	mustCreate(&models.Client{
		ID: uuid.New(), WorkshopID: workshopID, Name: "new client",
		CreatedAt: time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
	})
	mustCreate(&models.Client{
		ID: uuid.New(), WorkshopID: workshopID, Name: "old client",
		CreatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	mustCreate(&models.Appointment{
		ID: uuid.New(), WorkshopID: workshopID, ClientID: uuid.New(),
		ScheduledAt: time.Date(2025, 8, 15, 14, 0, 0, 0, time.UTC),
		Reason:      "inspection", Status: enums.AppointmentStatusScheduled,
	})
	mustCreate(&models.Appointment{
		ID: uuid.New(), WorkshopID: workshopID, ClientID: uuid.New(),
		ScheduledAt: time.Date(2025, 8, 15, 16, 0, 0, 0, time.UTC),
		Reason:      "no show", Status: enums.AppointmentStatusCancelled,
	})

	stats, err := svc.Stats(context.Background(), staffActor(workshopID))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats.LowStockItems) != 1 || stats.LowStockItems[0].SKU != "A" {
		t.Fatalf("expected one low stock item, got %+v", stats.LowStockItems)
	}
	if stats.NewClientsThisMonth != 1 {
		t.Fatalf("expected 1 new client this month, got %d", stats.NewClientsThisMonth)
	}
	if stats.AppointmentsToday != 1 {
		t.Fatalf("expected 1 appointment today, got %d", stats.AppointmentsToday)
	}
}

func TestRevenueDatePrefersStampsThenUpdatedAt(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)
	completed := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	delivered := time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		snap OrderSnapshot
		want time.Time
	}{
		{
			name: "delivered order uses delivery stamp",
			snap: OrderSnapshot{
				Status: enums.OrderStatusDelivered, CompletedAt: &completed, DeliveredAt: &delivered,
				CreatedAt: created, UpdatedAt: updated,
			},
			want: delivered,
		},
		{
			name: "completed order uses completion stamp",
			snap: OrderSnapshot{
				Status: enums.OrderStatusCompleted, CompletedAt: &completed,
				CreatedAt: created, UpdatedAt: updated,
			},
			want: completed,
		},
		{
			name: "row without stamps falls back to updated_at",
			snap: OrderSnapshot{
				Status: enums.OrderStatusCompleted, CreatedAt: created, UpdatedAt: updated,
			},
			want: updated,
		},
	}
	for _, tc := range cases {
		if got := revenueDate(tc.snap); !got.Equal(tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestTopDescriptionsStableOrder(t *testing.T) {
	t.Parallel()

	snapshots := []OrderSnapshot{
		{Description: "brakes"}, {Description: "brakes"},
		{Description: "alignment"}, {Description: "alignment"},
		{Description: "oil"},
	}
	ranked := topDescriptions(snapshots, 2)
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	// equal counts fall back to alphabetical order
	if ranked[0].Description != "alignment" || ranked[1].Description != "brakes" {
		t.Fatalf("unexpected ranking %+v", ranked)
	}
}

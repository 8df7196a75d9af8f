package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	schema := `
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
  updated_at DATETIME,
  UNIQUE (workshop_id, sku)
);`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func staffActor(workshopID uuid.UUID) auth.Actor {
	return auth.Actor{
		UserID:     uuid.New(),
		WorkshopID: workshopID,
		Role:       enums.MemberRoleManager,
	}
}

func seedItem(t *testing.T, db *gorm.DB, workshopID uuid.UUID, stock, minStock int) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		ID:         uuid.New(),
		WorkshopID: workshopID,
		SKU:        "SKU-" + uuid.NewString()[:8],
		Name:       "brake pad",
		Category:   "brakes",
		Stock:      stock,
		MinStock:   minStock,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestReserveDecrementsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	workshopID := uuid.New()
	item := seedItem(t, db, workshopID, 10, 5)

	var reserved *models.InventoryItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		reserved, txErr = svc.Reserve(context.Background(), tx, item.ID, 4)
		return txErr
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reserved == nil || reserved.Stock != 6 {
		t.Fatalf("expected returned item with stock 6, got %+v", reserved)
	}

	var got models.InventoryItem
	if err := db.First(&got, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.Stock != 6 {
		t.Fatalf("expected stock 6, got %d", got.Stock)
	}
}

func TestReserveInsufficientStockLeavesStockUntouched(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	workshopID := uuid.New()
	item := seedItem(t, db, workshopID, 3, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.Reserve(context.Background(), tx, item.ID, 5)
		return txErr
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	var got models.InventoryItem
	if err := db.First(&got, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.Stock != 3 {
		t.Fatalf("expected stock unchanged at 3, got %d", got.Stock)
	}
}

func TestReserveUnknownItem(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.Reserve(context.Background(), tx, uuid.New(), 1)
		return txErr
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.Reserve(context.Background(), tx, uuid.New(), 0)
		return txErr
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReserveThenReleaseRoundTrip(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	workshopID := uuid.New()
	item := seedItem(t, db, workshopID, 10, 5)
	ctx := context.Background()

	var released *models.InventoryItem
	err := db.Transaction(func(tx *gorm.DB) error {
		reserved, txErr := svc.Reserve(ctx, tx, item.ID, 4)
		if txErr != nil {
			return txErr
		}
		if reserved.Stock != 6 {
			t.Errorf("expected reserved stock 6, got %d", reserved.Stock)
		}
		released, txErr = svc.Release(ctx, tx, item.ID, 4)
		return txErr
	})
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if released == nil || released.Stock != 10 {
		t.Fatalf("expected returned item with stock 10, got %+v", released)
	}

	var got models.InventoryItem
	if err := db.First(&got, "id = ?", item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if got.Stock != 10 {
		t.Fatalf("expected stock restored to 10, got %d", got.Stock)
	}
}

func TestCreateItemDefaultsMinStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := staffActor(uuid.New())

	item, err := svc.CreateItem(context.Background(), actor, CreateItemInput{
		SKU:            "OIL-5W30",
		Name:           "engine oil 5w30",
		Category:       "fluids",
		Stock:          12,
		UnitPriceCents: 1250,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if item.MinStock != 5 {
		t.Fatalf("expected default min stock 5, got %d", item.MinStock)
	}
	if item.WorkshopID != actor.WorkshopID {
		t.Fatalf("expected item scoped to actor workshop")
	}
}

func TestCreateItemRejectsClientRole(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := auth.Actor{
		UserID:     uuid.New(),
		WorkshopID: uuid.New(),
		Role:       enums.MemberRoleClient,
	}

	_, err := svc.CreateItem(context.Background(), actor, CreateItemInput{SKU: "X", Name: "x"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCreateItemValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := staffActor(uuid.New())

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"missing sku", CreateItemInput{Name: "x"}},
		{"missing name", CreateItemInput{SKU: "X"}},
		{"negative stock", CreateItemInput{SKU: "X", Name: "x", Stock: -1}},
		{"negative price", CreateItemInput{SKU: "X", Name: "x", UnitPriceCents: -1}},
	}
	for _, tc := range cases {
		if _, err := svc.CreateItem(context.Background(), actor, tc.input); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestListLowStockIncludesBoundary(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	workshopID := uuid.New()
	actor := staffActor(workshopID)

	atThreshold := seedItem(t, db, workshopID, 5, 5)
	below := seedItem(t, db, workshopID, 1, 5)
	seedItem(t, db, workshopID, 20, 5)
	seedItem(t, db, uuid.New(), 0, 5) // other workshop

	rows, err := svc.ListLowStock(context.Background(), actor)
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 low stock items, got %d", len(rows))
	}
	found := map[uuid.UUID]bool{}
	for _, row := range rows {
		found[row.ID] = true
	}
	if !found[atThreshold.ID] || !found[below.ID] {
		t.Fatalf("expected boundary and below-threshold items, got %+v", rows)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := staffActor(uuid.New())

	name := "renamed"
	_, err := svc.UpdateItem(context.Background(), actor, uuid.New(), UpdateItemInput{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

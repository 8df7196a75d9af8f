package vehicles

import (
	"context"
	"testing"

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
	dsn := "file:vehicles_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	schema := `
CREATE TABLE IF NOT EXISTS vehicles (
  id TEXT PRIMARY KEY,
  workshop_id TEXT NOT NULL,
  client_id TEXT NOT NULL,
  make TEXT NOT NULL,
  model TEXT NOT NULL,
  year INTEGER NOT NULL,
  plate TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := db.Exec(schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func staffActor(workshopID uuid.UUID) auth.Actor {
	return auth.Actor{
		UserID:     uuid.New(),
		WorkshopID: workshopID,
		Role:       enums.MemberRoleTechnician,
	}
}

func TestVehicleCRUD(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := staffActor(uuid.New())
	ctx := context.Background()

	created, err := svc.Create(ctx, actor, CreateVehicleInput{
		ClientID: uuid.New(),
		Make:     "Toyota",
		Model:    "Corolla",
		Year:     2019,
		Plate:    "ABC-1234",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	plate := "XYZ-9876"
	updated, err := svc.Update(ctx, actor, created.ID, UpdateVehicleInput{Plate: &plate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Plate != plate {
		t.Fatalf("expected plate %q, got %q", plate, updated.Plate)
	}

	if err := svc.Delete(ctx, actor, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = svc.Get(ctx, actor, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestVehicleCreateValidation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := staffActor(uuid.New())

	cases := []struct {
		name  string
		input CreateVehicleInput
	}{
		{"missing client", CreateVehicleInput{Make: "a", Model: "b", Year: 2020, Plate: "p"}},
		{"missing make", CreateVehicleInput{ClientID: uuid.New(), Model: "b", Year: 2020, Plate: "p"}},
		{"implausible year", CreateVehicleInput{ClientID: uuid.New(), Make: "a", Model: "b", Year: 1850, Plate: "p"}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), actor, tc.input); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestVehicleListFiltersByClient(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := newTestService(t, db)
	actor := staffActor(uuid.New())
	ctx := context.Background()

	clientID := uuid.New()
	for i, plate := range []string{"AAA-1", "AAA-2"} {
		owner := clientID
		if i == 1 {
			owner = uuid.New()
		}
		if _, err := svc.Create(ctx, actor, CreateVehicleInput{
			ClientID: owner, Make: "Honda", Model: "Civic", Year: 2021, Plate: plate,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	list, err := svc.List(ctx, actor, pagination.Params{}, &clientID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Vehicles) != 1 || list.Vehicles[0].Plate != "AAA-1" {
		t.Fatalf("expected only the client's vehicle, got %+v", list.Vehicles)
	}
}

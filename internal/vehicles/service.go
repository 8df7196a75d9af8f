package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// CreateVehicleInput registers a vehicle under an existing client.
type CreateVehicleInput struct {
	ClientID uuid.UUID `json:"client_id"`
	Make     string    `json:"make"`
	Model    string    `json:"model"`
	Year     int       `json:"year"`
	Plate    string    `json:"plate"`
}

// UpdateVehicleInput updates only the fields that are set.
type UpdateVehicleInput struct {
	Make  *string `json:"make,omitempty"`
	Model *string `json:"model,omitempty"`
	Year  *int    `json:"year,omitempty"`
	Plate *string `json:"plate,omitempty"`
}

// VehicleList wraps a page of vehicles plus the next cursor.
type VehicleList struct {
	Vehicles   []models.Vehicle `json:"vehicles"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateVehicleInput) (*models.Vehicle, error)
	Get(ctx context.Context, actor auth.Actor, vehicleID uuid.UUID) (*models.Vehicle, error)
	List(ctx context.Context, actor auth.Actor, params pagination.Params, clientID *uuid.UUID) (*VehicleList, error)
	Update(ctx context.Context, actor auth.Actor, vehicleID uuid.UUID, input UpdateVehicleInput) (*models.Vehicle, error)
	Delete(ctx context.Context, actor auth.Actor, vehicleID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateVehicleInput) (*models.Vehicle, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	makeName := strings.TrimSpace(input.Make)
	model := strings.TrimSpace(input.Model)
	plate := strings.TrimSpace(input.Plate)
	if makeName == "" || model == "" || plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "make, model and plate required")
	}
	if input.Year < 1900 || input.Year > time.Now().Year()+1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "implausible vehicle year")
	}
	vehicle := &models.Vehicle{
		ID:         uuid.New(),
		WorkshopID: actor.WorkshopID,
		ClientID:   input.ClientID,
		Make:       makeName,
		Model:      model,
		Year:       input.Year,
		Plate:      plate,
	}
	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vehicle")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, vehicleID uuid.UUID) (*models.Vehicle, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	vehicle, err := s.repo.FindByID(ctx, actor.WorkshopID, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return vehicle, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, params pagination.Params, clientID *uuid.UUID) (*VehicleList, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor.WorkshopID, params, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, vehicleID uuid.UUID, input UpdateVehicleInput) (*models.Vehicle, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, actor, vehicleID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Make != nil {
		updates["make"] = strings.TrimSpace(*input.Make)
	}
	if input.Model != nil {
		updates["model"] = strings.TrimSpace(*input.Model)
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if input.Plate != nil {
		updates["plate"] = strings.TrimSpace(*input.Plate)
	}
	if err := s.repo.Update(ctx, vehicleID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return s.Get(ctx, actor, vehicleID)
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, vehicleID uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.WorkshopID, vehicleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	return nil
}

func requireStaff(actor auth.Actor) error {
	if err := requireMember(actor); err != nil {
		return err
	}
	if !actor.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	return nil
}

func requireMember(actor auth.Actor) error {
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if actor.WorkshopID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeForbidden, "workshop context missing")
	}
	return nil
}

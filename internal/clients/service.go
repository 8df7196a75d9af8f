package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/db/models"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// CreateClientInput carries the fields accepted at client intake.
type CreateClientInput struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UpdateClientInput updates only the fields that are set.
type UpdateClientInput struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty"`
}

// ClientList wraps a page of clients plus the next cursor.
type ClientList struct {
	Clients    []models.Client `json:"clients"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateClientInput) (*models.Client, error)
	Get(ctx context.Context, actor auth.Actor, clientID uuid.UUID) (*models.Client, error)
	List(ctx context.Context, actor auth.Actor, params pagination.Params, query string) (*ClientList, error)
	Update(ctx context.Context, actor auth.Actor, clientID uuid.UUID, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, actor auth.Actor, clientID uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateClientInput) (*models.Client, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name required")
	}
	client := &models.Client{
		ID:         uuid.New(),
		WorkshopID: actor.WorkshopID,
		Name:       name,
		Phone:      input.Phone,
		Email:      input.Email,
	}
	created, err := s.repo.Create(ctx, client)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create client")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, clientID uuid.UUID) (*models.Client, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	client, err := s.repo.FindByID(ctx, actor.WorkshopID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load client")
	}
	return client, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, params pagination.Params, query string) (*ClientList, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor.WorkshopID, params, strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list clients")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, clientID uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, actor, clientID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "client name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if err := s.repo.Update(ctx, clientID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update client")
	}
	return s.Get(ctx, actor, clientID)
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, clientID uuid.UUID) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.WorkshopID, clientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "client not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete client")
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

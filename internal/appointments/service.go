package appointments

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
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/pagination"
)

// CreateAppointmentInput books a new visit.
type CreateAppointmentInput struct {
	ClientID    uuid.UUID  `json:"client_id"`
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Reason      string     `json:"reason"`
}

// AppointmentList wraps a page of appointments plus the next cursor.
type AppointmentList struct {
	Appointments []models.Appointment `json:"appointments"`
	NextCursor   string               `json:"next_cursor,omitempty"`
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateAppointmentInput) (*models.Appointment, error)
	Get(ctx context.Context, actor auth.Actor, apptID uuid.UUID) (*models.Appointment, error)
	List(ctx context.Context, actor auth.Actor, params pagination.Params, filters AppointmentFilters) (*AppointmentList, error)
	SetStatus(ctx context.Context, actor auth.Actor, apptID uuid.UUID, next enums.AppointmentStatus) (*models.Appointment, error)
	Reschedule(ctx context.Context, actor auth.Actor, apptID uuid.UUID, scheduledAt time.Time) (*models.Appointment, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("appointments repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateAppointmentInput) (*models.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if input.ClientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id required")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason required")
	}
	if input.ScheduledAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot schedule in the past")
	}
	appt := &models.Appointment{
		ID:          uuid.New(),
		WorkshopID:  actor.WorkshopID,
		ClientID:    input.ClientID,
		VehicleID:   input.VehicleID,
		ScheduledAt: input.ScheduledAt,
		Reason:      reason,
		Status:      enums.AppointmentStatusScheduled,
	}
	created, err := s.repo.Create(ctx, appt)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, apptID uuid.UUID) (*models.Appointment, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	appt, err := s.repo.FindByID(ctx, actor.WorkshopID, apptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	return appt, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, params pagination.Params, filters AppointmentFilters) (*AppointmentList, error) {
	if err := requireMember(actor); err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, actor.WorkshopID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}
	return list, nil
}

func (s *service) SetStatus(ctx context.Context, actor auth.Actor, apptID uuid.UUID, next enums.AppointmentStatus) (*models.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized appointment status")
	}
	appt, err := s.Get(ctx, actor, apptID)
	if err != nil {
		return nil, err
	}
	switch appt.Status {
	case enums.AppointmentStatusCompleted, enums.AppointmentStatusCancelled:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "appointment already closed")
	}
	if err := s.repo.Update(ctx, apptID, map[string]any{"status": next}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update appointment")
	}
	return s.Get(ctx, actor, apptID)
}

func (s *service) Reschedule(ctx context.Context, actor auth.Actor, apptID uuid.UUID, scheduledAt time.Time) (*models.Appointment, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if scheduledAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot schedule in the past")
	}
	appt, err := s.Get(ctx, actor, apptID)
	if err != nil {
		return nil, err
	}
	switch appt.Status {
	case enums.AppointmentStatusCompleted, enums.AppointmentStatusCancelled:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "appointment already closed")
	}
	if err := s.repo.Update(ctx, apptID, map[string]any{"scheduled_at": scheduledAt}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reschedule appointment")
	}
	return s.Get(ctx, actor, apptID)
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

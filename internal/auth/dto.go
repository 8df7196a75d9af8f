package auth

import (
	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/internal/users"
	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// LoginRequest carries the credentials posted to /auth/login.
type LoginRequest struct {
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required"`
	WorkshopID *uuid.UUID `json:"workshop_id,omitempty"`
}

// WorkshopSummary lists a workshop the user can act in.
type WorkshopSummary struct {
	ID   uuid.UUID        `json:"id"`
	Name string           `json:"name"`
	Role enums.MemberRole `json:"role"`
}

// LoginResponse returns the token pair plus workshop context.
type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Workshops    []WorkshopSummary `json:"workshops"`
	User         *users.UserDTO    `json:"user"`
}

// RefreshRequest rotates an expired access token.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries the replacement token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RegisterWorkshopRequest bootstraps a workshop with its first admin.
type RegisterWorkshopRequest struct {
	WorkshopName string  `json:"workshop_name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	Phone        *string `json:"phone,omitempty"`
}

// RegisterWorkshopResponse confirms the bootstrap.
type RegisterWorkshopResponse struct {
	WorkshopID uuid.UUID      `json:"workshop_id"`
	Slug       string         `json:"slug"`
	User       *users.UserDTO `json:"user"`
}

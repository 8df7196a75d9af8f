package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/autofixhq/workshop-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	WorkshopID *uuid.UUID
	Role       enums.MemberRole
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID        `json:"user_id"`
	WorkshopID *uuid.UUID       `json:"workshop_id,omitempty"`
	Role       enums.MemberRole `json:"role"`
	jwt.RegisteredClaims
}

// Actor identifies who is performing an operation and with what role.
// It travels with every service call that enforces authorization.
type Actor struct {
	UserID     uuid.UUID
	WorkshopID uuid.UUID
	Role       enums.MemberRole
}

// IsStaff reports whether the actor holds a workshop staff role.
func (a Actor) IsStaff() bool {
	return a.Role.IsStaff()
}

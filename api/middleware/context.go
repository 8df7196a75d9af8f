package middleware

import (
	"context"

	"github.com/google/uuid"

	pkgauth "github.com/autofixhq/workshop-backend/pkg/auth"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
)

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxRole       contextKey = "actor_role"
	ctxWorkshopID contextKey = "workshop_id"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

func WorkshopIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxWorkshopID).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithWorkshopID injects the workshop identifier into the context for downstream handlers.
func WithWorkshopID(ctx context.Context, workshopID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxWorkshopID, workshopID)
}

// ActorFromContext rebuilds the authenticated actor the Auth middleware seeded.
// Handlers pass the result straight into the service layer.
func ActorFromContext(ctx context.Context) (pkgauth.Actor, error) {
	rawUser := UserIDFromContext(ctx)
	if rawUser == "" {
		return pkgauth.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return pkgauth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}

	rawWorkshop := WorkshopIDFromContext(ctx)
	if rawWorkshop == "" {
		return pkgauth.Actor{}, pkgerrors.New(pkgerrors.CodeForbidden, "workshop context required")
	}
	workshopID, err := uuid.Parse(rawWorkshop)
	if err != nil {
		return pkgauth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid workshop id")
	}

	role, err := enums.ParseMemberRole(RoleFromContext(ctx))
	if err != nil {
		return pkgauth.Actor{}, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid actor role")
	}

	return pkgauth.Actor{UserID: userID, WorkshopID: workshopID, Role: role}, nil
}

package middleware

import (
	"net/http"

	"github.com/autofixhq/workshop-backend/api/responses"
	pkgerrors "github.com/autofixhq/workshop-backend/pkg/errors"
	"github.com/autofixhq/workshop-backend/pkg/logger"
)

// WorkshopContext rejects requests whose token carries no active workshop.
// Login without a workshop selection yields such tokens; they may only hit
// the auth surface.
func WorkshopContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if WorkshopIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "workshop context missing"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

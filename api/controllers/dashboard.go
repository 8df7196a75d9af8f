package controllers

import (
	"net/http"

	"github.com/autofixhq/workshop-backend/api/middleware"
	"github.com/autofixhq/workshop-backend/api/responses"
	"github.com/autofixhq/workshop-backend/internal/dashboard"
	"github.com/autofixhq/workshop-backend/pkg/logger"
)

// DashboardStats returns the aggregated workshop overview.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := middleware.ActorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autofixhq/workshop-backend/pkg/config"
	"github.com/autofixhq/workshop-backend/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "workshop-backend",
		ExpirationMinutes: 15,
	}
	logg := logger.New(logger.Options{ServiceName: "router-test"})
	return NewRouter(Deps{Config: cfg, Logger: logg})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Workshop-Env"); got != "test" {
		t.Fatalf("env header = %q, want test", got)
	}
}

func TestPublicPing(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	paths := []string{
		"/api/v1/orders",
		"/api/v1/inventory",
		"/api/v1/clients",
		"/api/v1/vehicles",
		"/api/v1/appointments",
		"/api/v1/notifications",
		"/api/v1/dashboard/stats",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, rec.Code)
		}
	}
}

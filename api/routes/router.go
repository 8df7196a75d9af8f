package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/autofixhq/workshop-backend/api/controllers"
	ordercontrollers "github.com/autofixhq/workshop-backend/api/controllers/orders"
	"github.com/autofixhq/workshop-backend/api/middleware"
	"github.com/autofixhq/workshop-backend/internal/appointments"
	"github.com/autofixhq/workshop-backend/internal/auth"
	"github.com/autofixhq/workshop-backend/internal/clients"
	"github.com/autofixhq/workshop-backend/internal/dashboard"
	"github.com/autofixhq/workshop-backend/internal/inventory"
	"github.com/autofixhq/workshop-backend/internal/notifications"
	"github.com/autofixhq/workshop-backend/internal/orders"
	"github.com/autofixhq/workshop-backend/internal/vehicles"
	"github.com/autofixhq/workshop-backend/pkg/auth/session"
	"github.com/autofixhq/workshop-backend/pkg/config"
	"github.com/autofixhq/workshop-backend/pkg/enums"
	"github.com/autofixhq/workshop-backend/pkg/logger"
)

// Pinger is the readiness surface a backing store exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RateLimiter is the counter surface the auth throttles need.
type RateLimiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       Pinger
	RedisPinger    Pinger
	RateLimiter    RateLimiter
	Idempotency    middleware.IdempotencyStore
	SessionChecker session.AccessSessionChecker
	Memberships    middleware.MembershipChecker

	Auth          auth.Service
	Orders        orders.Service
	Inventory     inventory.Service
	Clients       clients.Service
	Vehicles      vehicles.Service
	Appointments  appointments.Service
	Notifications notifications.Service
	Dashboard     dashboard.Service
}

// NewRouter assembles the chi handler tree for the API binary.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DBPinger, d.RedisPinger))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.RateLimiter, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, d.RateLimiter, logg)).Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))
		r.Use(middleware.WorkshopContext(logg))
		r.Use(middleware.Idempotency(d.Idempotency, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(d.Orders, logg))
			r.Post("/", ordercontrollers.Create(d.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(d.Orders, logg))
			r.Patch("/{orderId}", ordercontrollers.Update(d.Orders, logg))
			r.Post("/{orderId}/status", ordercontrollers.SetStatus(d.Orders, logg))
			r.Post("/{orderId}/items", ordercontrollers.AddItem(d.Orders, logg))
			r.Patch("/{orderId}/items/{itemId}", ordercontrollers.UpdateItemQuantity(d.Orders, logg))
			r.Delete("/{orderId}/items/{itemId}", ordercontrollers.RemoveItem(d.Orders, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(d.Inventory, logg))
			r.Post("/", controllers.InventoryCreate(d.Inventory, logg))
			r.Get("/low-stock", controllers.InventoryLowStock(d.Inventory, logg))
			r.Get("/{itemId}", controllers.InventoryDetail(d.Inventory, logg))
			r.Patch("/{itemId}", controllers.InventoryUpdate(d.Inventory, logg))
			r.With(adminOnly(d, logg)).Delete("/{itemId}", controllers.InventoryDelete(d.Inventory, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(d.Clients, logg))
			r.Post("/", controllers.ClientCreate(d.Clients, logg))
			r.Get("/{clientId}", controllers.ClientDetail(d.Clients, logg))
			r.Patch("/{clientId}", controllers.ClientUpdate(d.Clients, logg))
			r.With(adminOnly(d, logg)).Delete("/{clientId}", controllers.ClientDelete(d.Clients, logg))
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", controllers.VehicleList(d.Vehicles, logg))
			r.Post("/", controllers.VehicleCreate(d.Vehicles, logg))
			r.Get("/{vehicleId}", controllers.VehicleDetail(d.Vehicles, logg))
			r.Patch("/{vehicleId}", controllers.VehicleUpdate(d.Vehicles, logg))
			r.With(adminOnly(d, logg)).Delete("/{vehicleId}", controllers.VehicleDelete(d.Vehicles, logg))
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Get("/", controllers.AppointmentList(d.Appointments, logg))
			r.Post("/", controllers.AppointmentCreate(d.Appointments, logg))
			r.Get("/{appointmentId}", controllers.AppointmentDetail(d.Appointments, logg))
			r.Post("/{appointmentId}/status", controllers.AppointmentSetStatus(d.Appointments, logg))
			r.Post("/{appointmentId}/reschedule", controllers.AppointmentReschedule(d.Appointments, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(d.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(d.Notifications, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(d.Dashboard, logg))
	})

	return r
}

func adminOnly(d Deps, logg *logger.Logger) func(http.Handler) http.Handler {
	return middleware.RequireWorkshopRoles(d.Memberships, logg, enums.MemberRoleAdmin, enums.MemberRoleManager)
}

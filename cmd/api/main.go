package main

import (
	"context"
	"net/http"
	"os"

	"github.com/autofixhq/workshop-backend/api/routes"
	"github.com/autofixhq/workshop-backend/internal/appointments"
	"github.com/autofixhq/workshop-backend/internal/auth"
	"github.com/autofixhq/workshop-backend/internal/clients"
	"github.com/autofixhq/workshop-backend/internal/dashboard"
	"github.com/autofixhq/workshop-backend/internal/inventory"
	"github.com/autofixhq/workshop-backend/internal/memberships"
	"github.com/autofixhq/workshop-backend/internal/notifications"
	"github.com/autofixhq/workshop-backend/internal/orders"
	"github.com/autofixhq/workshop-backend/internal/users"
	"github.com/autofixhq/workshop-backend/internal/vehicles"
	"github.com/autofixhq/workshop-backend/pkg/auth/session"
	"github.com/autofixhq/workshop-backend/pkg/config"
	"github.com/autofixhq/workshop-backend/pkg/db"
	"github.com/autofixhq/workshop-backend/pkg/logger"
	"github.com/autofixhq/workshop-backend/pkg/migrate"
	"github.com/autofixhq/workshop-backend/pkg/outbox"
	"github.com/autofixhq/workshop-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	membershipsRepo := memberships.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:        users.NewRepository(dbClient.DB()),
		MembershipsRepo: membershipsRepo,
		SessionManager:  sessionManager,
		TxRunner:        dbClient,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	taxRate, err := cfg.Workshop.ParseTaxRate()
	if err != nil {
		logg.Error(context.Background(), "invalid tax rate", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, outboxService, inventoryService, taxRate)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	clientsService, err := clients.NewService(clients.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create clients service", err)
		os.Exit(1)
	}

	vehiclesService, err := vehicles.NewService(vehicles.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create vehicles service", err)
		os.Exit(1)
	}

	appointmentsService, err := appointments.NewService(appointments.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create appointments service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DBPinger:       dbClient,
			RedisPinger:    redisClient,
			RateLimiter:    redisClient,
			Idempotency:    redisClient,
			SessionChecker: sessionManager,
			Memberships:    membershipsRepo,

			Auth:          authService,
			Orders:        ordersService,
			Inventory:     inventoryService,
			Clients:       clientsService,
			Vehicles:      vehiclesService,
			Appointments:  appointmentsService,
			Notifications: notificationsService,
			Dashboard:     dashboardService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

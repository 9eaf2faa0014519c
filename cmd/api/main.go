package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nurlan2209/undeme/api/routes"
	"github.com/nurlan2209/undeme/internal/ai"
	"github.com/nurlan2209/undeme/internal/auth"
	"github.com/nurlan2209/undeme/internal/notify"
	"github.com/nurlan2209/undeme/internal/sos"
	"github.com/nurlan2209/undeme/internal/users"
	"github.com/nurlan2209/undeme/pkg/config"
	"github.com/nurlan2209/undeme/pkg/db"
	"github.com/nurlan2209/undeme/pkg/logger"
	"github.com/nurlan2209/undeme/pkg/metrics"
	"github.com/nurlan2209/undeme/pkg/migrate"
	"github.com/nurlan2209/undeme/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	userRepo := users.NewRepository(dbClient.DB())

	userService, err := users.NewService(userRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	dispatchMetrics := metrics.NewDispatchMetrics(prometheus.DefaultRegisterer)
	senders := []notify.Sender{
		notify.NewWebhookSender(cfg.Sos),
		notify.NewWhatsAppSender(cfg.WhatsApp, cfg.Sos.SendTimeout),
	}
	coordinator := sos.NewCoordinator(senders, dispatchMetrics, logg)

	sosService, err := sos.NewService(sos.NewRepository(dbClient.DB()), userRepo, coordinator, cfg.Sos, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sos service", err)
		os.Exit(1)
	}

	var modelClient ai.ModelClient
	if cfg.AI.APIKey != "" {
		modelClient = ai.NewOpenAIClient(cfg.AI)
	}
	aiService, err := ai.NewService(ai.NewRepository(dbClient.DB()), userRepo, modelClient, cfg.AI, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create assistant service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, authService, userService, sosService, aiService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftsurge/shift-system/internal/api"
	"github.com/shiftsurge/shift-system/internal/core/ports"
	"github.com/shiftsurge/shift-system/internal/core/service"
	"github.com/shiftsurge/shift-system/internal/infrastructure/config"
	mongodb "github.com/shiftsurge/shift-system/internal/infrastructure/db/mongo"
	redisdb "github.com/shiftsurge/shift-system/internal/infrastructure/db/redis"
	"github.com/shiftsurge/shift-system/internal/infrastructure/notify"
	"github.com/shiftsurge/shift-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	shiftRepo := mongodb.NewShiftRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	attendanceRepo := mongodb.NewAttendanceRepository(db)

	if err := shiftRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure shift indexes")
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}

	// --- Notifier: the only wiring that depends on runtime mode. ---
	var notifier ports.Notifier
	if cfg.RuntimeMode == config.ModeLive && cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, log)
	} else {
		notifier = notify.NewLogNotifier(log)
		log.Warn().Str("runtime_mode", cfg.RuntimeMode).Msg("using log-only notifier")
	}

	// --- Services ---
	shiftService := service.NewShiftService(shiftRepo, userRepo, attendanceRepo, log)
	claimService := service.NewClaimService(shiftRepo, log)
	escalationService := service.NewEscalationService(
		shiftRepo,
		userRepo,
		notifier,
		redisdb.NewNotifyDedup(rdb),
		cfg.SurgeMultiplier,
		log,
	)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Optional background no-show sweep ---
	if cfg.Sweeper.Enabled {
		sweeper := service.NewGhostSweeper(shiftService, cfg.Sweeper.Grace, cfg.Sweeper.Interval, log)
		sweeper.Start(ctx)
	}

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Auth:       authService,
		Shifts:     shiftService,
		Claims:     claimService,
		Escalation: escalationService,
		Mongo:      db,
		Redis:      rdb,
		JWTSecret:  cfg.JWTSecret,
		Logger:     log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("shift system listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("shift system stopped")
}

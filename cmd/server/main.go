package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/config"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/database"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/handler"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/logger"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/middleware"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/router"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/validator"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting School SaaS API")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	schoolRepo := repository.NewSchoolRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	bus := service.NewRedisNotificationBus(rdb)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost, log)
	schoolService := service.NewSchoolService(schoolRepo)
	studentService := service.NewStudentService(studentRepo)
	dashboardService := service.NewDashboardService(dashboardRepo)
	notificationService := service.NewNotificationService(notificationRepo, bus, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		School:       handler.NewSchoolHandler(schoolService, log),
		Student:      handler.NewStudentHandler(studentService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		WS:           handler.NewWSHandler(bus, log, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"database": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
	}

	var authLimiter middleware.Limiter
	if cfg.AuthRateLimit > 0 {
		authLimiter = middleware.NewRedisLimiter(rdb, cfg.AuthRateLimit, time.Minute)
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	purgeWorker := worker.NewNotificationPurgeWorker(notificationService, cfg.NotificationPurgeSchedule, cfg.NotificationRetention, log)
	if err := purgeWorker.Start(workerCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start notification purge worker")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(tokenService, handlers, authLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the scheduler and wait for a running purge, bounded by the same deadline.
	select {
	case <-purgeWorker.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("Notification purge still running at shutdown")
	}
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

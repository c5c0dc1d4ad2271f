package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/academic-records/internal/cache"
	"github.com/stemsi/academic-records/internal/config"
	"github.com/stemsi/academic-records/internal/database"
	"github.com/stemsi/academic-records/internal/handler"
	"github.com/stemsi/academic-records/internal/logger"
	"github.com/stemsi/academic-records/internal/middleware"
	"github.com/stemsi/academic-records/internal/repository"
	"github.com/stemsi/academic-records/internal/repository/memory"
	"github.com/stemsi/academic-records/internal/repository/postgres"
	"github.com/stemsi/academic-records/internal/router"
	"github.com/stemsi/academic-records/internal/service"
	"github.com/stemsi/academic-records/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageDriver).
		Str("log_level", cfg.LogLevel).
		Msg("Starting academic records service")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	var store repository.Store
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		store = memory.NewStore()
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		store = postgres.NewStore(pool)
	default:
		log.Fatal().Str("driver", cfg.StorageDriver).Msg("Unknown STORAGE_DRIVER")
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	var tokenCache service.TokenCache
	if rdb != nil {
		defer rdb.Close()
		tokenCache = cache.NewTokenCache(rdb, cfg.TokenCacheTTL)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	resolver := service.NewRoleResolver(store)
	authService := service.NewAuthService(cfg, store, resolver, tokenCache, log)
	studentService := service.NewStudentService(store, log)
	teacherService := service.NewTeacherService(store, log)
	courseService := service.NewCourseService(store, log)
	enrollmentService := service.NewEnrollmentService(store, log)
	dashboardService := service.NewDashboardService(store)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Student:    handler.NewStudentHandler(authService, studentService, enrollmentService, dashboardService),
		Teacher:    handler.NewTeacherHandler(authService, teacherService, courseService, enrollmentService, dashboardService),
		Course:     handler.NewCourseHandler(courseService, enrollmentService),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService),
		Search:     handler.NewSearchHandler(studentService),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(rdb, "auth", cfg.AuthRateLimit, cfg.AuthRateInterval, log)
	r := router.SetupRouter(cfg, authService, authLimiter, handlers, logger.Component(log, "http"))

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

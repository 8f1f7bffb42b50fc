package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/researchhub/researchhub-api/internal/config"
	"github.com/researchhub/researchhub-api/internal/domain/appeal"
	"github.com/researchhub/researchhub-api/internal/domain/audit"
	"github.com/researchhub/researchhub-api/internal/domain/content"
	"github.com/researchhub/researchhub-api/internal/domain/moderation"
	"github.com/researchhub/researchhub-api/internal/domain/notification"
	"github.com/researchhub/researchhub-api/internal/middleware"
	"github.com/researchhub/researchhub-api/internal/pkg/database"
	"github.com/researchhub/researchhub-api/internal/pkg/jwt"
	"github.com/researchhub/researchhub-api/internal/pkg/lock"
	"github.com/researchhub/researchhub-api/internal/pkg/logger"
	"github.com/researchhub/researchhub-api/internal/pkg/metrics"
	pkgresponse "github.com/researchhub/researchhub-api/internal/pkg/response"
)

// handlers groups the HTTP handlers mounted by newRouter
type handlers struct {
	moderation   *moderation.Handler
	appeal       *appeal.Handler
	content      *content.Handler
	notification *notification.Handler
	audit        *audit.Handler
	metrics      http.Handler
}

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().Str("env", cfg.Env).Msg("Starting ResearchHub moderation API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)
	log.Info().Msg("Connected to PostgreSQL")

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing with in-process locks")
		redis = nil
	}
	if redis != nil {
		defer database.CloseRedis(redis)
		log.Info().Msg("Connected to Redis")
	}

	// Tokens are issued by the auth service; the TTL only matters for tooling.
	jwtService := jwt.NewService(cfg.JWTSecret, 15*time.Minute)

	var moderationMetrics *metrics.ModerationMetrics
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		moderationMetrics, err = metrics.NewModerationMetrics(registry)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to register moderation metrics")
		}
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	// Repositories
	auditRepo := audit.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	contentRepo := content.NewRepository(db)
	moderationRepo := moderation.NewRepository(db)
	appealRepo := appeal.NewRepository(db)

	// Realtime notifications
	notificationHub := notification.NewHub(redis)
	go notificationHub.Run()
	defer notificationHub.Shutdown()

	// Services
	auditService := audit.NewService(auditRepo)
	notificationService := notification.NewService(notificationRepo, notificationHub)
	contentService := content.NewService(contentRepo, notificationService, auditService, moderationMetrics)
	moderationService := moderation.NewService(
		moderationRepo,
		moderation.NewClassifier(cfg.SeverityCriticalThreshold, cfg.SeverityMediumThreshold),
		contentRepo,
		notificationService,
		auditService,
		moderationMetrics,
	)
	appealService := appeal.NewService(
		appealRepo,
		contentRepo,
		notificationService,
		auditService,
		lock.New(redis),
		cfg.DecisionLockTTL,
		moderationMetrics,
	)

	// Background jobs
	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	cleanupJob := notification.NewCleanupJob(notificationRepo, cfg.NotificationRetentionDays)
	go cleanupJob.Start(jobCtx, cfg.NotificationCleanupInterval)

	r := newRouter(cfg, jwtService, handlers{
		moderation:   moderation.NewHandler(moderationService),
		appeal:       appeal.NewHandler(appealService),
		content:      content.NewHandler(contentService),
		notification: notification.NewHandler(notificationService, notificationHub, cfg.AllowedOrigins),
		audit:        audit.NewHandler(auditService),
		metrics:      metricsHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newRouter(cfg *config.Config, jwtService *jwt.Service, h handlers) chi.Router {
	authMiddleware := middleware.Auth(jwtService)
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/reports", h.moderation.Routes(authMiddleware))
		r.Mount("/appeals", h.appeal.Routes(authMiddleware))
		r.Mount("/notifications", h.notification.Routes(authMiddleware, middleware.WebSocketAuth(jwtService)))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireModerator())

		r.Mount("/reports", h.moderation.AdminRoutes())
		r.Mount("/content", h.content.AdminRoutes())
		r.Mount("/appeals", h.appeal.AdminRoutes(middleware.RequireAdmin()))
		r.Mount("/audit-logs", h.audit.Routes())
	})

	return r
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/soc-metrics-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/soc-metrics-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/soc-metrics-backend/internal/adapters/secondary/jira"
	"github.com/lorrc/soc-metrics-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/soc-metrics-backend/internal/adapters/secondary/rediscache"
	"github.com/lorrc/soc-metrics-backend/internal/auth"
	"github.com/lorrc/soc-metrics-backend/internal/config"
	"github.com/lorrc/soc-metrics-backend/internal/core/metrics"
	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
	"github.com/lorrc/soc-metrics-backend/internal/core/services"
	"github.com/lorrc/soc-metrics-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Optional Redis response cache
	var responseCache ports.ResponseCache
	if cfg.Redis.Addr != "" {
		redisClient, err := rediscache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("redis connection failed", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		responseCache = rediscache.NewCache(redisClient)
		logger.Info("redis cache enabled", "addr", cfg.Redis.Addr)
	} else {
		logger.Info("redis cache disabled")
	}

	// 5. Security
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)

	// 6. Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalCfg := mw.DefaultRateLimiterConfig()
		generalCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		generalCfg.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(generalCfg)

		authCfg := mw.AuthRateLimiterConfig()
		authCfg.RequestsPerSecond = cfg.RateLimit.AuthRPS
		authCfg.BurstSize = cfg.RateLimit.AuthBurst
		authRateLimiter = mw.NewRateLimiter(authCfg)
	}

	// 7. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Working-time calendar from config
	workingHours, err := cfg.WorkingHours()
	if err != nil {
		logger.Error("invalid analysis calendar", "error", err)
		os.Exit(1)
	}
	engineOpts := metrics.Options{
		WorkingHours: workingHours,
		Thresholds:   cfg.SLAThresholds(),
		ZThreshold:   cfg.Analysis.OutlierZ,
		WeekStartDay: cfg.WeekStart(),
	}

	// Secondary Adapters
	reportRepo := postgres.NewReportRepository(pool)
	ticketSource := jira.NewClient(jira.Config{
		BaseURL:           cfg.Jira.BaseURL,
		Username:          cfg.Jira.Username,
		APIToken:          cfg.Jira.APIToken,
		ProjectKey:        cfg.Jira.ProjectKey,
		FirstActionStatus: cfg.Jira.FirstActionStatus,
		PageSize:          cfg.Jira.PageSize,
		RequestsPerSecond: cfg.Jira.RequestsPerSecond,
		Timeout:           cfg.Jira.Timeout,
	}, responseCache, cfg.Redis.TTL, logger)

	// Services (Core)
	authService := services.NewAuthService(cfg.Auth.Username, cfg.Auth.PasswordHash, tokenManager)
	analysisService := services.NewAnalysisService(ticketSource, reportRepo, engineOpts, cfg.Analysis.DefaultMaxIssues, logger)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, errorHandler, logger)
	reportHandler := httpAdapter.NewReportHandler(analysisService, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, cfg.App.Version)

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))

	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", mw.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Route("/reports", reportHandler.RegisterRoutes)
		})
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

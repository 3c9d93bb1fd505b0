package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bskmt/club-api/internal/config"
	"github.com/bskmt/club-api/internal/database"
	"github.com/bskmt/club-api/internal/handler"
	"github.com/bskmt/club-api/internal/jobs"
	"github.com/bskmt/club-api/internal/middleware"
	"github.com/bskmt/club-api/internal/model"
	"github.com/bskmt/club-api/internal/repository"
	"github.com/bskmt/club-api/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env if present (development convenience)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize token validator
	validator := middleware.NewTokenValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Initialize services
	renewalService := service.NewRenewalService(service.RenewalServiceConfig{
		Memberships: membershipRepo,
		Users:       userRepo,
		Sender:      service.NewLogSender(),
	})

	gamificationService := service.NewGamificationService(service.GamificationServiceConfig{
		Activity: activityRepo,
		Ledger:   ledgerRepo,
		Users:    userRepo,
		Config:   model.DefaultGamificationConfig(),
	})

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   100, // 100 requests per minute
		Window: time.Minute,
		Burst:  20, // Allow bursts up to 20
	})
	defer rateLimiter.Stop()

	// Initialize background jobs
	if cfg.Jobs.RenewalPassEnabled {
		renewalPassJob := jobs.NewRenewalPassJob(renewalService)
		renewalPassJob.Start()
		defer renewalPassJob.Stop()
	}

	rankingRefresher := jobs.NewRankingRefresher(gamificationService, cfg.Jobs.RankingInterval)
	rankingRefresher.Start()
	defer rankingRefresher.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	membershipHandler := handler.NewMembershipHandler(renewalService, membershipRepo)
	gamificationHandler := handler.NewGamificationHandler(gamificationService)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	authMiddleware := middleware.Auth(validator)
	adminMiddleware := middleware.AdminAuth(validator)

	// Membership endpoints
	mux.Handle("GET /v1/memberships", authMiddleware(http.HandlerFunc(membershipHandler.ListMemberships)))
	mux.Handle("GET /v1/memberships/{membershipId}", authMiddleware(http.HandlerFunc(membershipHandler.GetMembership)))
	mux.Handle("GET /v1/memberships/{membershipId}/eligibility", authMiddleware(http.HandlerFunc(membershipHandler.GetEligibility)))
	mux.Handle("POST /v1/memberships/{membershipId}/renew", authMiddleware(http.HandlerFunc(membershipHandler.Renew)))

	// Gamification endpoints
	mux.HandleFunc("GET /v1/gamification/config", gamificationHandler.GetConfig)
	mux.Handle("GET /v1/gamification/me", authMiddleware(http.HandlerFunc(gamificationHandler.GetMyStats)))
	mux.Handle("GET /v1/gamification/ranking", authMiddleware(http.HandlerFunc(gamificationHandler.GetRanking)))
	mux.Handle("GET /v1/gamification/ledger", authMiddleware(http.HandlerFunc(gamificationHandler.GetLedger)))

	// Admin endpoints - requires admin role
	mux.Handle("POST /v1/admin/renewals/run", adminMiddleware(http.HandlerFunc(membershipHandler.RunRenewalPass)))
	mux.Handle("GET /v1/admin/renewals/due", adminMiddleware(http.HandlerFunc(membershipHandler.ListDueRenewals)))
	mux.Handle("POST /v1/admin/gamification/points", adminMiddleware(http.HandlerFunc(gamificationHandler.AwardPoints)))
	mux.Handle("POST /v1/admin/gamification/points/revoke", adminMiddleware(http.HandlerFunc(gamificationHandler.RevokePoints)))
	mux.Handle("POST /v1/admin/gamification/refresh-ranks", adminMiddleware(http.HandlerFunc(gamificationHandler.RefreshRanks)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

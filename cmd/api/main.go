package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	_ "github.com/cvmfinance/orcr-api/docs" // Swagger docs
	"github.com/cvmfinance/orcr-api/internal/auth"
	"github.com/cvmfinance/orcr-api/internal/config"
	"github.com/cvmfinance/orcr-api/internal/database"
	"github.com/cvmfinance/orcr-api/internal/handlers"
	"github.com/cvmfinance/orcr-api/internal/jobs"
	"github.com/cvmfinance/orcr-api/internal/repository"
	"github.com/cvmfinance/orcr-api/internal/services"
	"github.com/cvmfinance/orcr-api/pkg/logger"
)

// @title ORCR Loan Back Office API
// @version 1.0
// @description Loan applications, approval workflow and official/collection receipts

// @contact.name API Support
// @contact.email it@cvmfinance.ph

// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth-token
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	repos := repository.NewRepositories(db)

	provider, err := newProvider(context.Background(), cfg, repos.User)
	if err != nil {
		logger.Error("Failed to initialize identity provider", "error", err)
		os.Exit(1)
	}
	logger.Info("Identity provider ready", "mode", cfg.AuthMode)

	svcs := services.NewServices(repos, repository.NewTransactor(db), provider, cfg, nil)

	// Recurring jobs
	scheduler := jobs.NewScheduler(context.Background())
	scheduler.ScheduleEveryImmediate("application-gauge", time.Minute, svcs.Dashboard.PublishStatusCounts)
	if cfg.SettingsTTL > 0 {
		scheduler.ScheduleEvery("settings-refresh", cfg.SettingsTTL, func(ctx context.Context) error {
			svcs.Settings.Get(ctx)
			return nil
		})
	}

	router := handlers.NewRouter(handlers.NewHandlers(svcs, cfg), provider, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	scheduler.Shutdown()
	logger.Info("Scheduler stopped")

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func newProvider(ctx context.Context, cfg *config.Config, users auth.UserStore) (auth.Provider, error) {
	if cfg.AuthMode == config.AuthModeFixed {
		logger.Warn("Fixed identity mode enabled, every request acts as one user", "email", cfg.AuthFixedEmail)
		return auth.NewFixedIdentityProvider(ctx, users, cfg.AuthFixedEmail)
	}
	return auth.NewJWTProvider(users, auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL, nil)), nil
}

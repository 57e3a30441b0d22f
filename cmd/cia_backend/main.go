package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/FinObraDev/credit_instruments_app/internal/core/ports/services"
	"github.com/FinObraDev/credit_instruments_app/internal/core/services"
	"github.com/FinObraDev/credit_instruments_app/internal/handlers"
	"github.com/FinObraDev/credit_instruments_app/internal/middleware"
	"github.com/FinObraDev/credit_instruments_app/internal/notifier"
	"github.com/FinObraDev/credit_instruments_app/internal/platform/config"
	"github.com/FinObraDev/credit_instruments_app/internal/repositories/cache"
	"github.com/FinObraDev/credit_instruments_app/internal/repositories/database/pgsql"
	"github.com/FinObraDev/credit_instruments_app/internal/scheduler"
	"github.com/FinObraDev/credit_instruments_app/pkg/database"
)

// @title Credit Instruments API
// @version 1.0
// @description Credit instrument management, amortization, and cash-flow projection backend.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	// Projection cache is optional; the engine recomputes on every miss.
	if cfg.RedisAddr != "" {
		projectionCache, err := cache.NewRedisProjectionCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, projection caching disabled", slog.String("error", err.Error()))
		} else {
			defer projectionCache.Close()
			repos.ProjectionCache = projectionCache
			logger.Info("Projection cache connected", slog.String("addr", cfg.RedisAddr))
		}
	}

	serviceContainer := services.NewServiceContainer(cfg, repos)

	sched := startScheduler(cfg, serviceContainer, logger)
	if sched != nil {
		defer sched.Stop()
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies every pending SQL migration over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// startScheduler wires the daily maturity scan. SMTP being unconfigured only
// downgrades delivery to a log line; the scan itself still runs.
func startScheduler(cfg *config.Config, serviceContainer *portssvc.ServiceContainer, logger *slog.Logger) *scheduler.Scheduler {
	scanner, ok := serviceContainer.Instrument.(portssvc.MaturityScannerSvc)
	if !ok {
		logger.Warn("Instrument service does not support maturity scans, scheduler disabled")
		return nil
	}

	var maturityNotifier notifier.MaturityNotifier
	if cfg.SMTPHost != "" {
		maturityNotifier = notifier.NewEmailSender(cfg, logger)
	} else {
		maturityNotifier = notifier.NewNoopNotifier(logger)
	}

	sched := scheduler.New(scanner, maturityNotifier, logger, cfg.MaturityWindowDays)
	if err := sched.Start(cfg.MaturityScanSchedule); err != nil {
		logger.Error("Failed to start scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return sched
}

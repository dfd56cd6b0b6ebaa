package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"

	"github.com/jeffgoval/arena-sub003/internal/adapters/gateway"
	"github.com/jeffgoval/arena-sub003/internal/adapters/notifier"
	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	"github.com/jeffgoval/arena-sub003/internal/core/services"
	"github.com/jeffgoval/arena-sub003/internal/handlers"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/config"
	"github.com/jeffgoval/arena-sub003/internal/platform/database"
	"github.com/jeffgoval/arena-sub003/internal/platform/ratelimit"
	"github.com/jeffgoval/arena-sub003/internal/repositories/database/pgsql"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Arena Settlement API
// @version 1.0
// @description Financial settlement backend for court reservations: credit ledger, cost splitting, deposit holds and audit trail.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
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
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	var paymentGateway ports.PaymentGateway
	if cfg.GatewayBaseURL != "" {
		paymentGateway = gateway.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	} else {
		paymentGateway = gateway.NewSimulatedGateway()
	}

	var notify ports.Notifier
	if cfg.SendgridAPIKey != "" {
		notify = notifier.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.NotifierFromEmail, cfg.NotifierFromName)
	} else {
		notify = notifier.NewLogNotifier()
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, paymentGateway, notify)
	limiter := ratelimit.New(ratelimit.DefaultPolicies())

	scheduler := startSweeps(logger, cfg, serviceContainer)
	defer scheduler.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, limiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies pending migrations over a temporary database/sql
// connection; the pgx stdlib driver keeps it compatible with the main pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// startSweeps schedules the background maintenance jobs: credit expiry,
// stale hold expiry and audit retention.
func startSweeps(logger *slog.Logger, cfg *config.Config, container *portssvc.ServiceContainer) *cron.Cron {
	scheduler := cron.New()
	sweepLogger := logger.With(slog.String("component", "sweeps"))

	mustSchedule := func(name, spec string, job func()) {
		if _, err := scheduler.AddFunc(spec, job); err != nil {
			sweepLogger.Error("Failed to schedule sweep", slog.String("sweep", name), slog.String("spec", spec), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	mustSchedule("credit-expiry", cfg.CreditSweepSpec, func() {
		ctx := middleware.WithLogger(context.Background(), sweepLogger)
		if _, err := container.Credit.SweepExpired(ctx, time.Now().UTC()); err != nil {
			sweepLogger.Error("Credit expiry sweep failed", slog.String("error", err.Error()))
		}
	})
	mustSchedule("preauth-expiry", cfg.PreAuthSweepSpec, func() {
		ctx := middleware.WithLogger(context.Background(), sweepLogger)
		if _, err := container.PreAuth.ExpireStale(ctx, time.Now().UTC(), cfg.PreAuthTTL); err != nil {
			sweepLogger.Error("Stale hold sweep failed", slog.String("error", err.Error()))
		}
	})
	mustSchedule("audit-retention", cfg.AuditRetentionSpec, func() {
		ctx := middleware.WithLogger(context.Background(), sweepLogger)
		if _, err := container.Audit.PruneOlderThan(ctx, cfg.AuditRetention, time.Now().UTC()); err != nil {
			sweepLogger.Error("Audit retention sweep failed", slog.String("error", err.Error()))
		}
	})

	scheduler.Start()
	logger.Info("Background sweeps scheduled",
		slog.String("credit", cfg.CreditSweepSpec),
		slog.String("preauth", cfg.PreAuthSweepSpec),
		slog.String("audit", cfg.AuditRetentionSpec),
	)
	return scheduler
}

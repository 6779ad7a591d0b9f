package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telecrm_backend/internal/adapters/storage"
	"telecrm_backend/internal/auth"
	"telecrm_backend/internal/calls"
	"telecrm_backend/internal/directory"
	"telecrm_backend/internal/email"
	"telecrm_backend/internal/events"
	"telecrm_backend/internal/followups"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/internal/http/router"
	"telecrm_backend/internal/leads"
	"telecrm_backend/internal/leads/importing"
	"telecrm_backend/internal/notification"
	"telecrm_backend/internal/performance"
	"telecrm_backend/internal/scheduler"
	"telecrm_backend/migrations"
	"telecrm_backend/platform/config"
	"telecrm_backend/platform/db"
	"telecrm_backend/platform/logger"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
		log.Info("smtp email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("email sending disabled")
	}

	var store importing.ObjectStore = storage.NoopStore{}
	if cfg.IsMinIOEnabled() {
		minioSvc, err := storage.NewMinIOService(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		store = minioSvc
		log.Info("storage service initialized", "bucket", cfg.GetMinioBucketLeadImports())
	} else {
		log.Warn("object storage disabled; import files will not be archived")
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	directoryModule := directory.NewModule(pool, eventBus, val)
	authModule := auth.NewModule(pool, cfg, val, log)
	leadsModule := leads.NewModule(pool, directoryModule.Repository(), store, eventBus, val, log)
	callsModule := calls.NewModule(pool, directoryModule.Repository(), eventBus, val, log)
	followUpsModule := followups.NewModule(pool, eventBus, val)
	performanceModule := performance.NewModule(pool, eventBus, val, log)

	// Notification module subscribes to domain events (not HTTP-facing).
	notification.NewModule(eventBus, directoryModule.Repository(), sender, reminderScheduler, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			directoryModule,
			leadsModule,
			callsModule,
			followUpsModule,
			performanceModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

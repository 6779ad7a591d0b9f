package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/email"
	"telecrm_backend/internal/events"
	"telecrm_backend/internal/notification"
	"telecrm_backend/internal/scheduler"
	"telecrm_backend/platform/config"
	"telecrm_backend/platform/db"
	"telecrm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = db.NewPool(ctx, cfg)
		if err == nil {
			break
		}
		log.Warn("database connection failed", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt*attempt) * 2 * time.Second):
		}
	}
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("email sending disabled")
	}

	// The worker never enqueues new reminders, so no scheduler client here.
	notification.NewModule(eventBus, directoryrepo.New(pool), sender, nil, log)

	sweeper := scheduler.NewDueSweeper(pool, eventBus, log)
	go sweeper.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, pool, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}

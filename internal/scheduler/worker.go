package scheduler

import (
	"context"
	"errors"
	"fmt"

	"telecrm_backend/internal/events"
	"telecrm_backend/internal/followups/repository"
	"telecrm_backend/platform/config"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)

	return w, nil
}

// handleFollowUpReminder re-reads the follow-up when the task fires. The row
// may have been completed or cancelled while the task sat in the queue, in
// which case the reminder is dropped.
func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	followUpID, err := uuid.Parse(payload.FollowUpID)
	if err != nil {
		return err
	}

	f, err := w.repo.GetByID(ctx, followUpID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.log.Debug("follow-up gone before reminder fired", "followUpId", payload.FollowUpID)
			return nil
		}
		return err
	}
	if f.Status != "PENDING" {
		return nil
	}

	return w.bus.PublishSync(ctx, events.FollowUpDue{
		BaseEvent:    events.NewBaseEvent(),
		FollowUpID:   f.ID,
		LeadID:       f.LeadID,
		LeadName:     f.LeadName,
		LeadPhone:    f.LeadPhone,
		AssignedToID: f.AssignedToID,
		ScheduledFor: f.ScheduledFor,
	})
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

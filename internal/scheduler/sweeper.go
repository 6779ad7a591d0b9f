package scheduler

import (
	"context"
	"time"

	"telecrm_backend/internal/events"
	"telecrm_backend/internal/followups/repository"
	"telecrm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	sweepInterval = 5 * time.Minute
	// sweepGrace keeps the sweeper from racing the queued reminder for a
	// follow-up that just came due.
	sweepGrace = 10 * time.Minute
	sweepBatch = 100
)

// DueSweeper is a safety net behind the queued reminders: a reminder whose
// enqueue was lost (Redis down at call time, crash before enqueue) would
// otherwise never fire. The sweeper periodically emits FollowUpDue for
// pending follow-ups that are well past their scheduled time.
type DueSweeper struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func NewDueSweeper(pool *pgxpool.Pool, bus events.Bus, log *logger.Logger) *DueSweeper {
	return &DueSweeper{repo: repository.New(pool), bus: bus, log: log}
}

func (s *DueSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *DueSweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-sweepGrace)
	due, err := s.repo.ListDuePending(ctx, cutoff, sweepBatch)
	if err != nil {
		s.log.Error("due sweep failed", "error", err.Error())
		return
	}

	for _, f := range due {
		err := s.bus.PublishSync(ctx, events.FollowUpDue{
			BaseEvent:    events.NewBaseEvent(),
			FollowUpID:   f.ID,
			LeadID:       f.LeadID,
			LeadName:     f.LeadName,
			LeadPhone:    f.LeadPhone,
			AssignedToID: f.AssignedToID,
			ScheduledFor: f.ScheduledFor,
		})
		if err != nil {
			s.log.Warn("due sweep publish failed", "followUpId", f.ID.String(), "error", err.Error())
		}
	}
	if len(due) > 0 {
		s.log.Info("due sweep emitted reminders", "count", len(due))
	}
}

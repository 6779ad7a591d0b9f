// Package service implements follow-up reminder queries and the PENDING to
// COMPLETED or CANCELLED transition.
package service

import (
	"context"
	"errors"
	"time"

	"telecrm_backend/internal/events"
	"telecrm_backend/internal/followups/repository"
	"telecrm_backend/internal/followups/transport"
	"telecrm_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Repository is the persistence surface needed by follow-up operations.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.FollowUp, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.FollowUp, int, error)
	Create(ctx context.Context, params repository.CreateParams) (repository.FollowUp, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (repository.FollowUp, error)
}

type Service struct {
	repo Repository
	bus  events.Bus
	now  func() time.Time
}

func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus, now: time.Now}
}

// List returns the actor's follow-up queue: reminders assigned to them plus
// reminders spawned by their own calls, soonest due first.
func (s *Service) List(ctx context.Context, actorID uuid.UUID, req transport.ListFollowUpsRequest) (transport.FollowUpListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	now := s.now()
	params := repository.ListParams{
		ActorID: actorID,
		Status:  req.Status,
		Offset:  (page - 1) * pageSize,
		Limit:   pageSize,
	}
	if req.DueOnly {
		params.Until = &now
		if params.Status == "" {
			params.Status = string(transport.StatusPending)
		}
	}

	items, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.FollowUpListResponse{}, err
	}

	out := make([]transport.FollowUpResponse, 0, len(items))
	for _, f := range items {
		out = append(out, transport.ToFollowUpResponse(f, now))
	}
	return transport.FollowUpListResponse{
		FollowUps: out,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// Schedule creates a standalone follow-up, defaulting the assignee to the
// actor.
func (s *Service) Schedule(ctx context.Context, actorID uuid.UUID, req transport.ScheduleFollowUpRequest) (transport.FollowUpResponse, error) {
	if !req.ScheduledFor.After(s.now()) {
		return transport.FollowUpResponse{}, apperr.Validation("scheduledFor must be in the future")
	}

	assignee := actorID
	if req.AssignedToID != nil {
		assignee = *req.AssignedToID
	}
	var notes string
	if req.Notes != nil {
		notes = *req.Notes
	}

	f, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:       req.LeadID,
		ScheduledFor: req.ScheduledFor,
		AssignedToID: assignee,
		Notes:        notes,
	})
	if err != nil {
		return transport.FollowUpResponse{}, err
	}

	s.bus.Publish(ctx, events.FollowUpScheduled{
		BaseEvent:    events.NewBaseEvent(),
		FollowUpID:   f.ID,
		LeadID:       f.LeadID,
		AssignedToID: f.AssignedToID,
		ScheduledFor: f.ScheduledFor,
	})

	return transport.ToFollowUpResponse(f, s.now()), nil
}

// Resolve moves a follow-up out of PENDING. Resolving to the status the row
// already has is idempotent; resolving a row that has settled in the other
// terminal status is a conflict. Only the assignee or the telecaller whose
// call created the reminder may touch it.
func (s *Service) Resolve(ctx context.Context, actorID, followUpID uuid.UUID, req transport.UpdateFollowUpRequest) (transport.FollowUpResponse, error) {
	current, err := s.repo.GetByID(ctx, followUpID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.FollowUpResponse{}, apperr.NotFound("follow-up not found")
		}
		return transport.FollowUpResponse{}, err
	}
	if !canTouch(current, actorID) {
		return transport.FollowUpResponse{}, apperr.NotFound("follow-up not found")
	}

	if current.Status == string(req.Status) {
		return transport.ToFollowUpResponse(current, s.now()), nil
	}
	if current.Status != string(transport.StatusPending) {
		return transport.FollowUpResponse{}, apperr.Conflict("follow-up has already been resolved")
	}

	updated, err := s.repo.UpdateStatus(ctx, followUpID, string(req.Status), req.Notes)
	if err != nil {
		// Lost a race with another resolver between the read and the
		// conditional update.
		if errors.Is(err, repository.ErrNotFound) {
			return transport.FollowUpResponse{}, apperr.Conflict("follow-up has already been resolved")
		}
		return transport.FollowUpResponse{}, err
	}
	return transport.ToFollowUpResponse(updated, s.now()), nil
}

func canTouch(f repository.FollowUp, actorID uuid.UUID) bool {
	if f.AssignedToID == actorID {
		return true
	}
	return f.CallerID != nil && *f.CallerID == actorID
}

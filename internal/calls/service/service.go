// Package service implements call logging, the write path at the heart of
// the telecalling workflow.
package service

import (
	"context"
	"errors"
	"time"

	"telecrm_backend/internal/calls/repository"
	"telecrm_backend/internal/calls/transport"
	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/events"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
)

const callHistoryLimit = 100

// Repository is the persistence surface needed by call logging.
type Repository interface {
	LogCall(ctx context.Context, params repository.LogCallParams) (repository.LoggedCall, error)
	ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]repository.Call, error)
}

// StaffDirectory resolves staff members when a follow-up is routed to a
// counsellor.
type StaffDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (directoryrepo.StaffMember, error)
}

type Service struct {
	repo  Repository
	staff StaffDirectory
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

func New(repo Repository, staff StaffDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, staff: staff, bus: bus, log: log, now: time.Now}
}

// LogCall validates and records one call interaction for the acting
// telecaller. The shape rules are enforced before any write happens:
//
//   - a connected call must carry the resulting lead status, and only a
//     connected call may carry one
//   - a scheduled callback must carry the callback time
//   - any follow-up time must be in the future
//
// The write itself is a single transaction in the repository; if it fails the
// caller sees an internal error and no partial state.
func (s *Service) LogCall(ctx context.Context, telecallerID uuid.UUID, req transport.LogCallRequest) (transport.LogCallResponse, error) {
	if req.Status == transport.StatusConnected && req.LeadStatus == nil {
		return transport.LogCallResponse{}, apperr.Validation("leadStatus is required for a connected call")
	}
	if req.Status != transport.StatusConnected && req.LeadStatus != nil {
		return transport.LogCallResponse{}, apperr.Validation("leadStatus can only be set on a connected call")
	}
	if req.Status == transport.StatusScheduledCallback && req.FollowUpAt == nil {
		return transport.LogCallResponse{}, apperr.Validation("followUpAt is required for a scheduled callback")
	}
	if req.FollowUpAt != nil && !req.FollowUpAt.After(s.now()) {
		return transport.LogCallResponse{}, apperr.Validation("followUpAt must be in the future")
	}
	if req.CounsellorID != nil && req.FollowUpAt == nil {
		return transport.LogCallResponse{}, apperr.Validation("counsellorId requires followUpAt")
	}

	var followUp *repository.FollowUpParams
	if req.FollowUpAt != nil {
		assignee := telecallerID
		if req.CounsellorID != nil {
			counsellor, err := s.staff.GetByID(ctx, *req.CounsellorID)
			if err != nil {
				if errors.Is(err, directoryrepo.ErrNotFound) {
					return transport.LogCallResponse{}, apperr.Validation("counsellor not found")
				}
				return transport.LogCallResponse{}, err
			}
			if counsellor.Role != "COUNSELOR" || counsellor.Status != "ACTIVE" {
				return transport.LogCallResponse{}, apperr.Validation("counsellorId must reference an active counsellor")
			}
			assignee = counsellor.ID
		}
		notes := req.Notes
		if req.FollowUpNotes != nil {
			notes = *req.FollowUpNotes
		}
		followUp = &repository.FollowUpParams{
			ScheduledFor: *req.FollowUpAt,
			AssignedToID: assignee,
			Notes:        notes,
		}
	}

	// Optional request fields collapse to the column defaults here; the
	// calls columns are NOT NULL.
	var duration int
	if req.Duration != nil {
		duration = *req.Duration
	}
	var outcome string
	if req.Outcome != nil {
		outcome = *req.Outcome
	}

	logged, err := s.repo.LogCall(ctx, repository.LogCallParams{
		LeadID:            req.LeadID,
		TelecallerID:      telecallerID,
		Status:            string(req.Status),
		Duration:          duration,
		Outcome:           outcome,
		Notes:             req.Notes,
		LeadStatus:        req.LeadStatus,
		InterestedCountry: req.InterestedCountry,
		FollowUp:          followUp,
	})
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotOwned) {
			return transport.LogCallResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LogCallResponse{}, apperr.Wrap(apperr.KindInternal, "failed to record call", err).WithOp("calls.LogCall")
	}

	s.bus.Publish(ctx, events.CallLogged{
		BaseEvent:    events.NewBaseEvent(),
		CallID:       logged.Call.ID,
		LeadID:       req.LeadID,
		TelecallerID: telecallerID,
		CallStatus:   string(req.Status),
		LeadStatus:   logged.LeadStatus,
		HasFollowUp:  logged.FollowUpID != nil,
	})
	if logged.FollowUpID != nil {
		s.bus.Publish(ctx, events.FollowUpScheduled{
			BaseEvent:    events.NewBaseEvent(),
			FollowUpID:   *logged.FollowUpID,
			LeadID:       req.LeadID,
			AssignedToID: followUp.AssignedToID,
			ScheduledFor: followUp.ScheduledFor,
		})
	}

	s.log.CallLogged(req.LeadID.String(), telecallerID.String(), string(req.Status), logged.FollowUpID != nil)

	return transport.LogCallResponse{
		Call:       transport.ToCallResponse(logged.Call),
		LeadStatus: logged.LeadStatus,
		FollowUpID: logged.FollowUpID,
	}, nil
}

// History returns the call log for one lead, newest first.
func (s *Service) History(ctx context.Context, leadID uuid.UUID) ([]transport.CallResponse, error) {
	calls, err := s.repo.ListByLead(ctx, leadID, callHistoryLimit)
	if err != nil {
		return nil, err
	}
	return transport.ToCallResponses(calls), nil
}

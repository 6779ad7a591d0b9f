// Package assignment implements batch handoff of leads from a manager to a
// telecaller on their team.
package assignment

import (
	"context"
	"errors"

	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/events"
	"telecrm_backend/internal/leads/transport"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository is the lead persistence surface needed by assignment.
type Repository interface {
	AssignToTelecaller(ctx context.Context, leadIDs []uuid.UUID, telecallerID, managerID uuid.UUID) ([]uuid.UUID, error)
}

// StaffDirectory verifies the manager/telecaller relationship before any
// lead rows are touched.
type StaffDirectory interface {
	GetTelecallerOfManager(ctx context.Context, telecallerID, managerID uuid.UUID) (directoryrepo.StaffMember, error)
}

type Service struct {
	repo  Repository
	staff StaffDirectory
	bus   events.Bus
	log   *logger.Logger
}

func New(repo Repository, staff StaffDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, staff: staff, bus: bus, log: log}
}

// AssignLeads hands the requested leads to a telecaller. The team membership
// check runs first and a failure means zero writes. Lead IDs outside the
// manager's book are skipped rather than failing the batch; the response
// reports which IDs actually moved.
func (s *Service) AssignLeads(ctx context.Context, managerID uuid.UUID, req transport.AssignLeadsRequest) (transport.AssignLeadsResponse, error) {
	if _, err := s.staff.GetTelecallerOfManager(ctx, req.TelecallerID, managerID); err != nil {
		if errors.Is(err, directoryrepo.ErrNotFound) {
			return transport.AssignLeadsResponse{}, apperr.Forbidden("invalid telecaller")
		}
		return transport.AssignLeadsResponse{}, err
	}

	assigned, err := s.repo.AssignToTelecaller(ctx, req.LeadIDs, req.TelecallerID, managerID)
	if err != nil {
		return transport.AssignLeadsResponse{}, err
	}

	if len(assigned) > 0 {
		s.bus.Publish(ctx, events.LeadsAssigned{
			BaseEvent:    events.NewBaseEvent(),
			LeadIDs:      assigned,
			TelecallerID: req.TelecallerID,
			ManagerID:    managerID,
		})
	}

	s.log.Info("leads assigned",
		"managerId", managerID.String(),
		"telecallerId", req.TelecallerID.String(),
		"requested", len(req.LeadIDs),
		"assigned", len(assigned),
	)

	return transport.AssignLeadsResponse{
		AssignedCount: len(assigned),
		AssignedIDs:   assigned,
	}, nil
}

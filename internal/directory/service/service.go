// Package service implements staff directory operations: listings, status
// toggles, and the manager/telecaller hierarchy assignments.
package service

import (
	"context"
	"errors"

	"telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/directory/transport"
	"telecrm_backend/internal/events"
	"telecrm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the directory service.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.StaffMember, error)
	ClaimTelecaller(ctx context.Context, telecallerID, managerID uuid.UUID) (repository.StaffMember, error)
	ReleaseTelecaller(ctx context.Context, telecallerID, managerID uuid.UUID) (repository.StaffMember, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.StaffMember, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.StaffWithPerformance, int, error)
}

type Service struct {
	repo Repository
	bus  events.Bus
}

func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// AssignTelecaller links an unassigned telecaller to a manager. The claim is
// a single conditional update, so concurrent managers racing for the same
// telecaller resolve to exactly one winner; the loser gets a Conflict.
func (s *Service) AssignTelecaller(ctx context.Context, telecallerID, managerID uuid.UUID) (transport.StaffResponse, error) {
	member, err := s.repo.ClaimTelecaller(ctx, telecallerID, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotClaimable) {
			return transport.StaffResponse{}, apperr.Conflict("telecaller not found or already assigned")
		}
		return transport.StaffResponse{}, err
	}

	s.bus.Publish(ctx, events.TelecallerAssigned{
		BaseEvent:    events.NewBaseEvent(),
		TelecallerID: telecallerID,
		ManagerID:    managerID,
	})

	return toStaffResponse(member), nil
}

// RemoveTelecaller clears the hierarchy link. It only succeeds when the
// telecaller currently reports to the given manager, so a manager cannot
// release another manager's staff.
func (s *Service) RemoveTelecaller(ctx context.Context, telecallerID, managerID uuid.UUID) (transport.StaffResponse, error) {
	member, err := s.repo.ReleaseTelecaller(ctx, telecallerID, managerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotClaimable) {
			return transport.StaffResponse{}, apperr.Conflict("telecaller not found or not assigned to this manager")
		}
		return transport.StaffResponse{}, err
	}

	return toStaffResponse(member), nil
}

// GetByID returns one staff member.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.StaffResponse, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.StaffResponse{}, apperr.NotFound("staff member not found")
		}
		return transport.StaffResponse{}, err
	}
	return toStaffResponse(member), nil
}

// UpdateStatus toggles a staff member between ACTIVE and INACTIVE.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status transport.StaffStatus) (transport.StaffResponse, error) {
	member, err := s.repo.UpdateStatus(ctx, id, string(status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.StaffResponse{}, apperr.NotFound("staff member not found")
		}
		return transport.StaffResponse{}, err
	}
	return toStaffResponse(member), nil
}

// ListManagers returns all managers with performance snapshots (HEAD view).
func (s *Service) ListManagers(ctx context.Context, req transport.ListStaffRequest) (transport.StaffListResponse, error) {
	return s.list(ctx, repository.ListParams{Role: string(transport.RoleManager), Search: req.Search}, req)
}

// ListTelecallers returns the telecallers reporting to a manager.
func (s *Service) ListTelecallers(ctx context.Context, managerID uuid.UUID, req transport.ListStaffRequest) (transport.StaffListResponse, error) {
	return s.list(ctx, repository.ListParams{
		Role:      string(transport.RoleTelecaller),
		ManagerID: &managerID,
		Search:    req.Search,
	}, req)
}

// ListAvailableTelecallers returns telecallers not yet claimed by any manager.
func (s *Service) ListAvailableTelecallers(ctx context.Context, req transport.ListStaffRequest) (transport.StaffListResponse, error) {
	return s.list(ctx, repository.ListParams{
		Role:       string(transport.RoleTelecaller),
		Unassigned: true,
		Search:     req.Search,
	}, req)
}

// ListCounselors returns all counsellors.
func (s *Service) ListCounselors(ctx context.Context, req transport.ListStaffRequest) (transport.StaffListResponse, error) {
	return s.list(ctx, repository.ListParams{Role: string(transport.RoleCounselor), Search: req.Search}, req)
}

func (s *Service) list(ctx context.Context, params repository.ListParams, req transport.ListStaffRequest) (transport.StaffListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params.Offset = (page - 1) * pageSize
	params.Limit = pageSize

	members, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.StaffListResponse{}, err
	}

	items := make([]transport.StaffWithPerformanceResponse, len(members))
	for i, member := range members {
		items[i] = transport.StaffWithPerformanceResponse{
			StaffResponse: toStaffResponse(member.StaffMember),
			Performance: transport.PerformanceResponse{
				Leads:          member.Performance.Leads,
				Conversions:    member.Performance.Conversions,
				ConversionRate: member.Performance.ConversionRate,
				CallsMade:      member.Performance.CallsMade,
				MonthlyTarget:  member.Performance.MonthlyTarget,
			},
		}
	}

	totalPages := (total + pageSize - 1) / pageSize

	return transport.StaffListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func toStaffResponse(member repository.StaffMember) transport.StaffResponse {
	return transport.StaffResponse{
		ID:         member.ID,
		Name:       member.Name,
		Email:      member.Email,
		EmployeeID: member.EmployeeID,
		Role:       transport.StaffRole(member.Role),
		Status:     transport.StaffStatus(member.Status),
		ManagerID:  member.ManagerID,
		CreatedAt:  member.CreatedAt,
	}
}

// Package management implements lead CRUD and listing with role based
// scoping: managers see the leads they manage, telecallers the leads
// assigned to them.
package management

import (
	"context"
	"errors"

	"telecrm_backend/internal/leads/repository"
	"telecrm_backend/internal/leads/transport"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	activityPageSize = 50

	// defaultSource marks leads entered by hand rather than imported.
	defaultSource = "MANUAL"
)

// Repository defines the data access interface needed by lead management.
type Repository interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error)
	ListActivitiesByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]repository.Activity, error)
	ListRecentActivities(ctx context.Context, userIDs []uuid.UUID, limit int) ([]repository.Activity, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new lead under the acting manager. Phone numbers are
// normalized to E.164 before the uniqueness check so that "+91 98..." and
// "098..." dedupe against each other.
func (s *Service) Create(ctx context.Context, managerID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	source := defaultSource
	if req.Source != nil && *req.Source != "" {
		source = *req.Source
	}
	var notes string
	if req.Notes != nil {
		notes = *req.Notes
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              phone.NormalizeE164(req.Phone),
		Source:             source,
		ManagedByID:        &managerID,
		PreferredCountries: req.PreferredCountries,
		Notes:              notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return transport.LeadResponse{}, apperr.Conflict("a lead with this phone number already exists")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(lead), nil
}

// Get returns one lead if the actor may see it. Managers can open leads they
// manage, telecallers leads assigned to them, and the head anything.
func (s *Service) Get(ctx context.Context, actorID uuid.UUID, actorRole string, leadID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if !canAccess(lead, actorID, actorRole) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}
	return transport.ToLeadResponse(lead), nil
}

// Update applies partial edits; the same visibility rule as Get applies.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, actorRole string, leadID uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	if !canAccess(lead, actorID, actorRole) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}

	updated, err := s.repo.Update(ctx, leadID, repository.UpdateLeadParams{
		Name:               req.Name,
		Email:              req.Email,
		Status:             req.Status,
		PreferredCountries: req.PreferredCountries,
		InterestedCountry:  req.InterestedCountry,
		Notes:              req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return transport.ToLeadResponse(updated), nil
}

// ListManaged returns the leads managed by a manager, filtered and paginated.
func (s *Service) ListManaged(ctx context.Context, managerID uuid.UUID, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	return s.list(ctx, repository.ListParams{
		Status:      req.Status,
		ManagedByID: &managerID,
		Unassigned:  req.Unassigned,
		Search:      req.Search,
	}, req)
}

// ListAssigned returns the working queue of a telecaller.
func (s *Service) ListAssigned(ctx context.Context, telecallerID uuid.UUID, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	return s.list(ctx, repository.ListParams{
		Status:       req.Status,
		AssignedToID: &telecallerID,
		Search:       req.Search,
	}, req)
}

// ListAll is the head's unscoped view.
func (s *Service) ListAll(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	return s.list(ctx, repository.ListParams{
		Status:     req.Status,
		Unassigned: req.Unassigned,
		Search:     req.Search,
	}, req)
}

func (s *Service) list(ctx context.Context, params repository.ListParams, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
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
	params.Offset = (page - 1) * pageSize
	params.Limit = pageSize

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	return transport.LeadListResponse{
		Leads:    transport.ToLeadResponses(leads),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Timeline returns the recent activity rows for one lead.
func (s *Service) Timeline(ctx context.Context, actorID uuid.UUID, actorRole string, leadID uuid.UUID) ([]transport.ActivityResponse, error) {
	lead, err := s.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, err
	}
	if !canAccess(lead, actorID, actorRole) {
		return nil, apperr.NotFound("lead not found")
	}

	activities, err := s.repo.ListActivitiesByLead(ctx, leadID, activityPageSize)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, transport.ToActivityResponse(a))
	}
	return out, nil
}

// RecentActivity returns the actor's own latest activity rows, newest first.
func (s *Service) RecentActivity(ctx context.Context, actorID uuid.UUID) ([]transport.ActivityResponse, error) {
	activities, err := s.repo.ListRecentActivities(ctx, []uuid.UUID{actorID}, activityPageSize)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, transport.ToActivityResponse(a))
	}
	return out, nil
}

func canAccess(lead repository.Lead, actorID uuid.UUID, actorRole string) bool {
	switch actorRole {
	case "HEAD":
		return true
	case "MANAGER":
		return lead.ManagedByID != nil && *lead.ManagedByID == actorID
	case "TELECALLER":
		return lead.AssignedToID != nil && *lead.AssignedToID == actorID
	default:
		return false
	}
}

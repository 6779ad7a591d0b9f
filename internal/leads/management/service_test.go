package management

import (
	"context"
	"testing"

	"telecrm_backend/internal/leads/repository"
	"telecrm_backend/internal/leads/transport"
	"telecrm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	lead      repository.Lead
	createErr error
	created   []repository.CreateLeadParams
	listed    []repository.ListParams
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.created = append(f.created, params)
	if f.createErr != nil {
		return repository.Lead{}, f.createErr
	}
	return repository.Lead{ID: uuid.New(), Name: params.Name, Phone: params.Phone}, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if f.lead.ID != id {
		return repository.Lead{}, repository.ErrNotFound
	}
	return f.lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	if f.lead.ID != id {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Status != nil {
		f.lead.Status = *params.Status
	}
	return f.lead, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	f.listed = append(f.listed, params)
	return nil, 0, nil
}

func (f *fakeRepo) ListActivitiesByLead(context.Context, uuid.UUID, int) ([]repository.Activity, error) {
	return nil, nil
}

func (f *fakeRepo) ListRecentActivities(context.Context, []uuid.UUID, int) ([]repository.Activity, error) {
	return nil, nil
}

func TestCreate_NormalizesPhone(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateLeadRequest{
		Name:  "Asha Verma",
		Phone: "098765 43210",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.created[0].Phone; got != "+919876543210" {
		t.Fatalf("expected normalized phone, got %q", got)
	}
}

func TestCreate_DefaultsSourceAndNotes(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateLeadRequest{
		Name:  "Asha Verma",
		Phone: "+919876543210",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := repo.created[0]
	if params.Source != "MANUAL" {
		t.Fatalf("expected source MANUAL when omitted, got %q", params.Source)
	}
	if params.Notes != "" {
		t.Fatalf("expected empty notes when omitted, got %q", params.Notes)
	}
}

func TestCreate_DuplicatePhoneConflicts(t *testing.T) {
	repo := &fakeRepo{createErr: repository.ErrDuplicate}
	svc := New(repo)

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateLeadRequest{
		Name:  "Asha Verma",
		Phone: "+919876543210",
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestGet_TelecallerOnlySeesAssignedLeads(t *testing.T) {
	telecaller := uuid.New()
	other := uuid.New()
	lead := repository.Lead{ID: uuid.New(), AssignedToID: &other}
	repo := &fakeRepo{lead: lead}
	svc := New(repo)

	_, err := svc.Get(context.Background(), telecaller, "TELECALLER", lead.ID)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for foreign lead, got %v", err)
	}

	lead.AssignedToID = &telecaller
	repo.lead = lead
	if _, err := svc.Get(context.Background(), telecaller, "TELECALLER", lead.ID); err != nil {
		t.Fatalf("unexpected error for own lead: %v", err)
	}
}

func TestGet_ManagerOnlySeesManagedLeads(t *testing.T) {
	manager := uuid.New()
	other := uuid.New()
	lead := repository.Lead{ID: uuid.New(), ManagedByID: &other}
	repo := &fakeRepo{lead: lead}
	svc := New(repo)

	_, err := svc.Get(context.Background(), manager, "MANAGER", lead.ID)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for foreign lead, got %v", err)
	}
}

func TestGet_HeadSeesEverything(t *testing.T) {
	lead := repository.Lead{ID: uuid.New()}
	repo := &fakeRepo{lead: lead}
	svc := New(repo)

	if _, err := svc.Get(context.Background(), uuid.New(), "HEAD", lead.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestList_PaginationDefaultsAndCap(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)
	manager := uuid.New()

	if _, err := svc.ListManaged(context.Background(), manager, transport.ListLeadsRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listed[0].Limit != 20 || repo.listed[0].Offset != 0 {
		t.Fatalf("expected default page of 20 at offset 0, got %+v", repo.listed[0])
	}

	if _, err := svc.ListManaged(context.Background(), manager, transport.ListLeadsRequest{Page: 3, PageSize: 500}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.listed[1].Limit != 100 || repo.listed[1].Offset != 200 {
		t.Fatalf("expected capped page of 100 at offset 200, got %+v", repo.listed[1])
	}
}

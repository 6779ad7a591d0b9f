package service

import (
	"context"
	"testing"

	"telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/directory/transport"
	"telecrm_backend/internal/events"
	"telecrm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	member   repository.StaffMember
	claimErr error
	listed   []repository.ListParams
}

func (f *fakeRepo) GetByID(context.Context, uuid.UUID) (repository.StaffMember, error) {
	return f.member, nil
}

func (f *fakeRepo) ClaimTelecaller(_ context.Context, telecallerID, managerID uuid.UUID) (repository.StaffMember, error) {
	if f.claimErr != nil {
		return repository.StaffMember{}, f.claimErr
	}
	m := f.member
	m.ID = telecallerID
	m.ManagerID = &managerID
	return m, nil
}

func (f *fakeRepo) ReleaseTelecaller(_ context.Context, telecallerID, managerID uuid.UUID) (repository.StaffMember, error) {
	if f.claimErr != nil {
		return repository.StaffMember{}, f.claimErr
	}
	m := f.member
	m.ID = telecallerID
	return m, nil
}

func (f *fakeRepo) UpdateStatus(context.Context, uuid.UUID, string) (repository.StaffMember, error) {
	return f.member, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.StaffWithPerformance, int, error) {
	f.listed = append(f.listed, params)
	return nil, 0, nil
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(_ context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(_ context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(string, events.Handler) {}

func TestAssignTelecaller_LoserOfClaimRaceGetsConflict(t *testing.T) {
	repo := &fakeRepo{claimErr: repository.ErrNotClaimable}
	bus := &fakeBus{}
	svc := New(repo, bus)

	_, err := svc.AssignTelecaller(context.Background(), uuid.New(), uuid.New())
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no event on failed claim, got %d", len(bus.published))
	}
}

func TestAssignTelecaller_PublishesAssignmentEvent(t *testing.T) {
	repo := &fakeRepo{member: repository.StaffMember{Role: "TELECALLER", Status: "ACTIVE"}}
	bus := &fakeBus{}
	svc := New(repo, bus)

	telecallerID := uuid.New()
	managerID := uuid.New()
	out, err := svc.AssignTelecaller(context.Background(), telecallerID, managerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ManagerID == nil || *out.ManagerID != managerID {
		t.Fatalf("expected manager link on response")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	e, ok := bus.published[0].(events.TelecallerAssigned)
	if !ok {
		t.Fatalf("expected TelecallerAssigned, got %T", bus.published[0])
	}
	if e.TelecallerID != telecallerID || e.ManagerID != managerID {
		t.Fatalf("event carries wrong ids")
	}
}

func TestListTelecallers_ScopesToManager(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, &fakeBus{})

	managerID := uuid.New()
	_, err := svc.ListTelecallers(context.Background(), managerID, transport.ListStaffRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := repo.listed[0]
	if params.Role != "TELECALLER" {
		t.Fatalf("expected telecaller role filter, got %q", params.Role)
	}
	if params.ManagerID == nil || *params.ManagerID != managerID {
		t.Fatalf("expected manager scope, got %v", params.ManagerID)
	}
}

func TestListAvailableTelecallers_FiltersUnassigned(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo, &fakeBus{})

	_, err := svc.ListAvailableTelecallers(context.Background(), transport.ListStaffRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.listed[0].Unassigned {
		t.Fatalf("expected unassigned filter set")
	}
}

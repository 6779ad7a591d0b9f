package assignment

import (
	"context"
	"testing"

	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/events"
	"telecrm_backend/internal/leads/transport"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	calls    int
	assigned []uuid.UUID
}

func (f *fakeRepo) AssignToTelecaller(_ context.Context, leadIDs []uuid.UUID, telecallerID, managerID uuid.UUID) ([]uuid.UUID, error) {
	f.calls++
	return f.assigned, nil
}

type fakeStaff struct {
	err error
}

func (f *fakeStaff) GetTelecallerOfManager(context.Context, uuid.UUID, uuid.UUID) (directoryrepo.StaffMember, error) {
	if f.err != nil {
		return directoryrepo.StaffMember{}, f.err
	}
	return directoryrepo.StaffMember{Role: "TELECALLER"}, nil
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

func TestAssignLeads_ForeignTelecallerForbiddenWithZeroWrites(t *testing.T) {
	repo := &fakeRepo{}
	staff := &fakeStaff{err: directoryrepo.ErrNotFound}
	svc := New(repo, staff, &fakeBus{}, logger.New("development"))

	_, err := svc.AssignLeads(context.Background(), uuid.New(), transport.AssignLeadsRequest{
		LeadIDs:      []uuid.UUID{uuid.New(), uuid.New()},
		TelecallerID: uuid.New(),
	})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no lead writes after failed team check, got %d", repo.calls)
	}
}

func TestAssignLeads_ReportsOnlyActuallyAssigned(t *testing.T) {
	mine := uuid.New()
	foreign := uuid.New()
	repo := &fakeRepo{assigned: []uuid.UUID{mine}}
	bus := &fakeBus{}
	svc := New(repo, &fakeStaff{}, bus, logger.New("development"))

	out, err := svc.AssignLeads(context.Background(), uuid.New(), transport.AssignLeadsRequest{
		LeadIDs:      []uuid.UUID{mine, foreign},
		TelecallerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AssignedCount != 1 {
		t.Fatalf("expected 1 assigned, got %d", out.AssignedCount)
	}
	if len(out.AssignedIDs) != 1 || out.AssignedIDs[0] != mine {
		t.Fatalf("expected only the owned lead in the result")
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one LeadsAssigned event, got %d", len(bus.published))
	}
	e, ok := bus.published[0].(events.LeadsAssigned)
	if !ok {
		t.Fatalf("expected LeadsAssigned, got %T", bus.published[0])
	}
	if len(e.LeadIDs) != 1 || e.LeadIDs[0] != mine {
		t.Fatalf("expected event to carry only assigned ids")
	}
}

func TestAssignLeads_NoEventWhenNothingMoved(t *testing.T) {
	repo := &fakeRepo{assigned: []uuid.UUID{}}
	bus := &fakeBus{}
	svc := New(repo, &fakeStaff{}, bus, logger.New("development"))

	out, err := svc.AssignLeads(context.Background(), uuid.New(), transport.AssignLeadsRequest{
		LeadIDs:      []uuid.UUID{uuid.New()},
		TelecallerID: uuid.New(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AssignedCount != 0 {
		t.Fatalf("expected 0 assigned, got %d", out.AssignedCount)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no event for empty batch, got %d", len(bus.published))
	}
}

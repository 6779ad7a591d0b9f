package service

import (
	"context"
	"testing"
	"time"

	"telecrm_backend/internal/events"
	"telecrm_backend/internal/followups/repository"
	"telecrm_backend/internal/followups/transport"
	"telecrm_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	byID    map[uuid.UUID]repository.FollowUp
	listed  []repository.ListParams
	items   []repository.FollowUp
	total   int
	updated      []string
	updatedNotes []*string
	created      []repository.CreateParams
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.FollowUp, error) {
	fu, ok := f.byID[id]
	if !ok {
		return repository.FollowUp{}, repository.ErrNotFound
	}
	return fu, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.FollowUp, int, error) {
	f.listed = append(f.listed, params)
	return f.items, f.total, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.FollowUp, error) {
	f.created = append(f.created, params)
	return repository.FollowUp{
		ID:           uuid.New(),
		LeadID:       params.LeadID,
		ScheduledFor: params.ScheduledFor,
		Status:       "PENDING",
		AssignedToID: params.AssignedToID,
	}, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, notes *string) (repository.FollowUp, error) {
	fu, ok := f.byID[id]
	if !ok || fu.Status != "PENDING" {
		return repository.FollowUp{}, repository.ErrNotFound
	}
	fu.Status = status
	if notes != nil {
		fu.Notes = *notes
	}
	f.byID[id] = fu
	f.updated = append(f.updated, status)
	f.updatedNotes = append(f.updatedNotes, notes)
	return fu, nil
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

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := New(repo, &fakeBus{})
	svc.now = func() time.Time { return testNow }
	return svc
}

func pendingFollowUp(assignee uuid.UUID) repository.FollowUp {
	return repository.FollowUp{
		ID:           uuid.New(),
		LeadID:       uuid.New(),
		ScheduledFor: testNow.Add(time.Hour),
		Status:       "PENDING",
		AssignedToID: assignee,
	}
}

func TestResolve_PendingToCompleted(t *testing.T) {
	actor := uuid.New()
	fu := pendingFollowUp(actor)
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	out, err := svc.Resolve(context.Background(), actor, fu.ID, transport.UpdateFollowUpRequest{Status: transport.StatusCompleted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != "COMPLETED" {
		t.Fatalf("expected COMPLETED, got %s", out.Status)
	}
}

func TestResolve_SameStatusIsIdempotent(t *testing.T) {
	actor := uuid.New()
	fu := pendingFollowUp(actor)
	fu.Status = "COMPLETED"
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	out, err := svc.Resolve(context.Background(), actor, fu.ID, transport.UpdateFollowUpRequest{Status: transport.StatusCompleted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != "COMPLETED" {
		t.Fatalf("expected COMPLETED, got %s", out.Status)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("expected no update for idempotent resolve, got %d", len(repo.updated))
	}
}

func TestResolve_UpdatesNotesAlongsideStatus(t *testing.T) {
	actor := uuid.New()
	fu := pendingFollowUp(actor)
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	notes := "spoke to the student, done"
	out, err := svc.Resolve(context.Background(), actor, fu.ID, transport.UpdateFollowUpRequest{
		Status: transport.StatusCompleted,
		Notes:  &notes,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Notes != notes {
		t.Fatalf("expected notes %q, got %q", notes, out.Notes)
	}
	if len(repo.updatedNotes) != 1 || repo.updatedNotes[0] == nil || *repo.updatedNotes[0] != notes {
		t.Fatalf("expected notes passed through to the update")
	}
}

func TestResolve_OmittedNotesAreKept(t *testing.T) {
	actor := uuid.New()
	fu := pendingFollowUp(actor)
	fu.Notes = "call after 5pm"
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	out, err := svc.Resolve(context.Background(), actor, fu.ID, transport.UpdateFollowUpRequest{Status: transport.StatusCompleted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Notes != "call after 5pm" {
		t.Fatalf("expected existing notes kept, got %q", out.Notes)
	}
	if repo.updatedNotes[0] != nil {
		t.Fatalf("expected nil notes bind when the request omits them")
	}
}

func TestResolve_TerminalToOtherTerminalConflicts(t *testing.T) {
	actor := uuid.New()
	fu := pendingFollowUp(actor)
	fu.Status = "CANCELLED"
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	_, err := svc.Resolve(context.Background(), actor, fu.ID, transport.UpdateFollowUpRequest{Status: transport.StatusCompleted})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestResolve_StrangerSeesNotFound(t *testing.T) {
	fu := pendingFollowUp(uuid.New())
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	_, err := svc.Resolve(context.Background(), uuid.New(), fu.ID, transport.UpdateFollowUpRequest{Status: transport.StatusCompleted})
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for non-owner, got %v", err)
	}
}

func TestResolve_OriginatingCallerMayResolve(t *testing.T) {
	caller := uuid.New()
	fu := pendingFollowUp(uuid.New())
	fu.CallerID = &caller
	repo := &fakeRepo{byID: map[uuid.UUID]repository.FollowUp{fu.ID: fu}}
	svc := newTestService(repo)

	out, err := svc.Resolve(context.Background(), caller, fu.ID, transport.UpdateFollowUpRequest{Status: transport.StatusCancelled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != "CANCELLED" {
		t.Fatalf("expected CANCELLED, got %s", out.Status)
	}
}

func TestList_DueOnlyDefaultsToPending(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), uuid.New(), transport.ListFollowUpsRequest{DueOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params := repo.listed[0]
	if params.Status != "PENDING" {
		t.Fatalf("expected PENDING filter, got %q", params.Status)
	}
	if params.Until == nil || !params.Until.Equal(testNow) {
		t.Fatalf("expected until=now, got %v", params.Until)
	}
}

func TestList_MarksOverdueAtReadTime(t *testing.T) {
	actor := uuid.New()
	overdue := pendingFollowUp(actor)
	overdue.ScheduledFor = testNow.Add(-time.Hour)
	upcoming := pendingFollowUp(actor)
	repo := &fakeRepo{items: []repository.FollowUp{overdue, upcoming}, total: 2}
	svc := newTestService(repo)

	out, err := svc.List(context.Background(), actor, transport.ListFollowUpsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.FollowUps[0].Overdue {
		t.Fatalf("expected past pending follow-up to read as overdue")
	}
	if out.FollowUps[1].Overdue {
		t.Fatalf("expected future follow-up not overdue")
	}
}

func TestSchedule_RejectsPastTime(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.Schedule(context.Background(), uuid.New(), transport.ScheduleFollowUpRequest{
		LeadID:       uuid.New(),
		ScheduledFor: testNow.Add(-time.Minute),
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSchedule_DefaultsAssigneeToActor(t *testing.T) {
	actor := uuid.New()
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.Schedule(context.Background(), actor, transport.ScheduleFollowUpRequest{
		LeadID:       uuid.New(),
		ScheduledFor: testNow.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created[0].AssignedToID != actor {
		t.Fatalf("expected assignee defaulted to actor")
	}
}

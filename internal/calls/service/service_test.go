package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"telecrm_backend/internal/calls/repository"
	"telecrm_backend/internal/calls/transport"
	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/events"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	logged []repository.LogCallParams
	result repository.LoggedCall
	err    error
}

func (f *fakeRepo) LogCall(_ context.Context, params repository.LogCallParams) (repository.LoggedCall, error) {
	f.logged = append(f.logged, params)
	if f.err != nil {
		return repository.LoggedCall{}, f.err
	}
	return f.result, nil
}

func (f *fakeRepo) ListByLead(context.Context, uuid.UUID, int) ([]repository.Call, error) {
	return nil, nil
}

type fakeStaff struct {
	member directoryrepo.StaffMember
	err    error
}

func (f *fakeStaff) GetByID(context.Context, uuid.UUID) (directoryrepo.StaffMember, error) {
	return f.member, f.err
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

func newTestService(repo *fakeRepo, staff *fakeStaff, bus *fakeBus) *Service {
	svc := New(repo, staff, bus, logger.New("development"))
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func connectedReq(leadID uuid.UUID) transport.LogCallRequest {
	status := "INTERESTED"
	return transport.LogCallRequest{
		LeadID:     leadID,
		Status:     transport.StatusConnected,
		Notes:      "spoke about programs",
		LeadStatus: &status,
	}
}

func TestLogCall_OmittedOptionalFieldsBindZeroValues(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeStaff{}, &fakeBus{})

	_, err := svc.LogCall(context.Background(), uuid.New(), transport.LogCallRequest{
		LeadID: uuid.New(),
		Status: transport.StatusNoAnswer,
		Notes:  "rang out",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.logged) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.logged))
	}
	params := repo.logged[0]
	if params.Duration != 0 {
		t.Fatalf("expected duration 0 when omitted, got %d", params.Duration)
	}
	if params.Outcome != "" {
		t.Fatalf("expected empty outcome when omitted, got %q", params.Outcome)
	}
}

func TestLogCall_ConnectedRequiresLeadStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeStaff{}, &fakeBus{})

	_, err := svc.LogCall(context.Background(), uuid.New(), transport.LogCallRequest{
		LeadID: uuid.New(),
		Status: transport.StatusConnected,
		Notes:  "answered",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.logged) != 0 {
		t.Fatalf("expected no writes, got %d", len(repo.logged))
	}
}

func TestLogCall_LeadStatusOnlyWhenConnected(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeStaff{}, &fakeBus{})

	status := "INTERESTED"
	_, err := svc.LogCall(context.Background(), uuid.New(), transport.LogCallRequest{
		LeadID:     uuid.New(),
		Status:     transport.StatusNoAnswer,
		Notes:      "rang out",
		LeadStatus: &status,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogCall_ScheduledCallbackRequiresFollowUpAt(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeStaff{}, &fakeBus{})

	_, err := svc.LogCall(context.Background(), uuid.New(), transport.LogCallRequest{
		LeadID: uuid.New(),
		Status: transport.StatusScheduledCallback,
		Notes:  "call back tomorrow",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.logged) != 0 {
		t.Fatalf("expected no writes, got %d", len(repo.logged))
	}
}

func TestLogCall_FollowUpMustBeFuture(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeStaff{}, &fakeBus{})

	past := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	req := connectedReq(uuid.New())
	req.FollowUpAt = &past
	_, err := svc.LogCall(context.Background(), uuid.New(), req)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogCall_CounsellorMustBeActiveCounsellor(t *testing.T) {
	staff := &fakeStaff{member: directoryrepo.StaffMember{
		ID:     uuid.New(),
		Role:   "TELECALLER",
		Status: "ACTIVE",
	}}
	svc := newTestService(&fakeRepo{}, staff, &fakeBus{})

	future := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	counsellorID := uuid.New()
	req := connectedReq(uuid.New())
	req.FollowUpAt = &future
	req.CounsellorID = &counsellorID
	_, err := svc.LogCall(context.Background(), uuid.New(), req)
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLogCall_FollowUpRoutedToCounsellor(t *testing.T) {
	counsellorID := uuid.New()
	staff := &fakeStaff{member: directoryrepo.StaffMember{
		ID:     counsellorID,
		Role:   "COUNSELOR",
		Status: "ACTIVE",
	}}
	followUpID := uuid.New()
	repo := &fakeRepo{result: repository.LoggedCall{
		Call:       repository.Call{ID: uuid.New()},
		LeadStatus: "INTERESTED",
		FollowUpID: &followUpID,
	}}
	bus := &fakeBus{}
	svc := newTestService(repo, staff, bus)

	future := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	req := connectedReq(uuid.New())
	req.FollowUpAt = &future
	req.CounsellorID = &counsellorID
	out, err := svc.LogCall(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.FollowUpID == nil || *out.FollowUpID != followUpID {
		t.Fatalf("expected follow-up id %s, got %v", followUpID, out.FollowUpID)
	}

	if len(repo.logged) != 1 {
		t.Fatalf("expected 1 write, got %d", len(repo.logged))
	}
	params := repo.logged[0]
	if params.FollowUp == nil || params.FollowUp.AssignedToID != counsellorID {
		t.Fatalf("expected follow-up assigned to counsellor")
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected CallLogged and FollowUpScheduled events, got %d", len(bus.published))
	}
	logged, ok := bus.published[0].(events.CallLogged)
	if !ok {
		t.Fatalf("expected first event CallLogged, got %T", bus.published[0])
	}
	if !logged.HasFollowUp {
		t.Fatalf("expected HasFollowUp true")
	}
}

func TestLogCall_DefaultsFollowUpToActor(t *testing.T) {
	telecallerID := uuid.New()
	followUpID := uuid.New()
	repo := &fakeRepo{result: repository.LoggedCall{
		Call:       repository.Call{ID: uuid.New()},
		LeadStatus: "NEW",
		FollowUpID: &followUpID,
	}}
	svc := newTestService(repo, &fakeStaff{}, &fakeBus{})

	future := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	_, err := svc.LogCall(context.Background(), telecallerID, transport.LogCallRequest{
		LeadID:     uuid.New(),
		Status:     transport.StatusScheduledCallback,
		Notes:      "asked to call after lunch",
		FollowUpAt: &future,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.logged[0].FollowUp.AssignedToID != telecallerID {
		t.Fatalf("expected follow-up assigned to the acting telecaller")
	}
}

func TestLogCall_NotOwnedLeadReadsAsNotFound(t *testing.T) {
	repo := &fakeRepo{err: repository.ErrLeadNotOwned}
	bus := &fakeBus{}
	svc := newTestService(repo, &fakeStaff{}, bus)

	_, err := svc.LogCall(context.Background(), uuid.New(), connectedReq(uuid.New()))
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events on failure, got %d", len(bus.published))
	}
}

func TestLogCall_TransactionFailureIsInternal(t *testing.T) {
	repo := &fakeRepo{err: errors.New("deadlock detected")}
	svc := newTestService(repo, &fakeStaff{}, &fakeBus{})

	_, err := svc.LogCall(context.Background(), uuid.New(), connectedReq(uuid.New()))
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

package importing

import (
	"context"
	"errors"
	"testing"

	"telecrm_backend/internal/events"
	"telecrm_backend/internal/leads/repository"
	"telecrm_backend/internal/leads/transport"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	batches [][]repository.ImportRow
	keys    []string
	result  repository.ImportResult
}

func (f *fakeRepo) BulkImport(_ context.Context, _ uuid.UUID, _, objectKey string, rows []repository.ImportRow) (repository.ImportResult, error) {
	f.batches = append(f.batches, rows)
	f.keys = append(f.keys, objectKey)
	return f.result, nil
}

func (f *fakeRepo) ListImports(context.Context, uuid.UUID, int) ([]repository.ImportRecord, error) {
	return nil, nil
}

type fakeStore struct {
	stored []string
	err    error
}

func (f *fakeStore) StoreImportFile(_ context.Context, fileName string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.stored = append(f.stored, fileName)
	return fileName, nil
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

func TestImport_NormalizesPhonesAndDefaultsSource(t *testing.T) {
	repo := &fakeRepo{result: repository.ImportResult{ImportID: uuid.New(), Created: 1}}
	svc := New(repo, &fakeStore{}, &fakeBus{}, logger.New("development"))

	_, err := svc.Import(context.Background(), uuid.New(), transport.ImportLeadsRequest{
		FileName: "leads.json",
		Rows: []transport.ImportRowRequest{
			{Name: "Asha Verma", Phone: "098765 43210"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := repo.batches[0][0]
	if row.Phone != "+919876543210" {
		t.Fatalf("expected normalized phone, got %q", row.Phone)
	}
	if row.Source != "IMPORT" {
		t.Fatalf("expected source IMPORT when omitted, got %q", row.Source)
	}
}

func TestImport_ArchiveFailureDoesNotBlock(t *testing.T) {
	repo := &fakeRepo{result: repository.ImportResult{ImportID: uuid.New(), Created: 1}}
	store := &fakeStore{err: errors.New("bucket unreachable")}
	svc := New(repo, store, &fakeBus{}, logger.New("development"))

	out, err := svc.Import(context.Background(), uuid.New(), transport.ImportLeadsRequest{
		FileName: "leads.json",
		Rows: []transport.ImportRowRequest{
			{Name: "Asha Verma", Phone: "+919876543210"},
		},
	})
	if err != nil {
		t.Fatalf("expected import to succeed despite archive failure, got %v", err)
	}
	if out.Created != 1 {
		t.Fatalf("expected created count 1, got %d", out.Created)
	}
	if repo.keys[0] != "" {
		t.Fatalf("expected empty object key on archive failure, got %q", repo.keys[0])
	}
}

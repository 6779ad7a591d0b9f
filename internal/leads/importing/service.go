// Package importing implements bulk lead ingestion: the parsed rows are
// inserted with phone dedup, the raw upload is archived to object storage,
// and the batch is recorded in the import history.
package importing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"telecrm_backend/internal/events"
	"telecrm_backend/internal/leads/repository"
	"telecrm_backend/internal/leads/transport"
	"telecrm_backend/platform/logger"
	"telecrm_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	importHistoryLimit = 50

	// defaultImportSource marks rows whose upload carried no source column.
	defaultImportSource = "IMPORT"
)

// Repository is the persistence surface needed by imports.
type Repository interface {
	BulkImport(ctx context.Context, managerID uuid.UUID, fileName, objectKey string, rows []repository.ImportRow) (repository.ImportResult, error)
	ListImports(ctx context.Context, managerID uuid.UUID, limit int) ([]repository.ImportRecord, error)
}

// ObjectStore archives the raw upload payload and returns its object key.
type ObjectStore interface {
	StoreImportFile(ctx context.Context, fileName string, payload []byte) (string, error)
}

type Service struct {
	repo  Repository
	store ObjectStore
	bus   events.Bus
	log   *logger.Logger
}

func New(repo Repository, store ObjectStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, store: store, bus: bus, log: log}
}

// Import ingests a batch of leads for a manager. Rows whose normalized phone
// already exists are skipped, never failed; a single bad row cannot sink the
// batch. Archival failure is logged but does not block the import.
func (s *Service) Import(ctx context.Context, managerID uuid.UUID, req transport.ImportLeadsRequest) (transport.ImportLeadsResponse, error) {
	rows := make([]repository.ImportRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		source := defaultImportSource
		if r.Source != nil && *r.Source != "" {
			source = *r.Source
		}
		rows = append(rows, repository.ImportRow{
			Name:               r.Name,
			Email:              r.Email,
			Phone:              phone.NormalizeE164(r.Phone),
			Source:             source,
			PreferredCountries: r.PreferredCountries,
		})
	}

	objectKey := s.archive(ctx, managerID, req)

	result, err := s.repo.BulkImport(ctx, managerID, req.FileName, objectKey, rows)
	if err != nil {
		return transport.ImportLeadsResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadsImported{
		BaseEvent:    events.NewBaseEvent(),
		ImportID:     result.ImportID,
		ManagerID:    managerID,
		CreatedCount: result.Created,
		SkippedCount: result.Skipped,
	})

	s.log.Info("leads imported",
		"managerId", managerID.String(),
		"fileName", req.FileName,
		"created", result.Created,
		"skipped", result.Skipped,
	)

	return transport.ImportLeadsResponse{
		ImportID: result.ImportID,
		Total:    len(req.Rows),
		Created:  result.Created,
		Skipped:  result.Skipped,
	}, nil
}

// History returns the manager's recent import batches.
func (s *Service) History(ctx context.Context, managerID uuid.UUID) ([]transport.ImportRecordResponse, error) {
	records, err := s.repo.ListImports(ctx, managerID, importHistoryLimit)
	if err != nil {
		return nil, err
	}
	out := make([]transport.ImportRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, transport.ImportRecordResponse{
			ID:           rec.ID,
			FileName:     rec.FileName,
			TotalRows:    rec.TotalRows,
			CreatedCount: rec.CreatedCount,
			SkippedCount: rec.SkippedCount,
			CreatedAt:    rec.CreatedAt,
		})
	}
	return out, nil
}

func (s *Service) archive(ctx context.Context, managerID uuid.UUID, req transport.ImportLeadsRequest) string {
	payload, err := json.Marshal(req)
	if err != nil {
		s.log.Warn("marshal import payload failed", "error", err.Error())
		return ""
	}
	key := fmt.Sprintf("%s/%s/%s", managerID, time.Now().UTC().Format("2006-01-02"), req.FileName)
	objectKey, err := s.store.StoreImportFile(ctx, key, payload)
	if err != nil {
		s.log.Warn("archive import file failed", "fileName", req.FileName, "error", err.Error())
		return ""
	}
	return objectKey
}

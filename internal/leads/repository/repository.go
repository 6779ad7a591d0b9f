package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("lead not found")
	ErrDuplicate = errors.New("lead with this phone already exists")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                 uuid.UUID
	Name               string
	Email              *string
	Phone              string
	Source             string
	Status             string
	ManagedByID        *uuid.UUID
	AssignedToID       *uuid.UUID
	PreferredCountries []string
	InterestedCountry  *string
	Notes              string
	TotalCallAttempts  int
	ConvertedAt        *time.Time
	LastContactedAt    *time.Time
	NextFollowUpDate   *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const leadColumns = `id, name, email, phone, source, status, managed_by_id, assigned_to_id,
	preferred_countries, interested_country, notes, total_call_attempts,
	converted_at, last_contacted_at, next_follow_up_date, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone, &l.Source, &l.Status,
		&l.ManagedByID, &l.AssignedToID, &l.PreferredCountries, &l.InterestedCountry,
		&l.Notes, &l.TotalCallAttempts, &l.ConvertedAt, &l.LastContactedAt, &l.NextFollowUpDate,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

type CreateLeadParams struct {
	Name               string
	Email              *string
	Phone              string
	Source             string
	ManagedByID        *uuid.UUID
	AssignedToID       *uuid.UUID
	PreferredCountries []string
	Notes              string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, source, managed_by_id, assigned_to_id, preferred_countries, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+leadColumns,
		params.Name, params.Email, params.Phone, params.Source,
		params.ManagedByID, params.AssignedToID, params.PreferredCountries, params.Notes,
	)
	lead, err := scanLead(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Lead{}, ErrDuplicate
		}
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) GetByPhone(ctx context.Context, phone string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE phone = $1`, phone)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, fmt.Errorf("get lead by phone: %w", err)
	}
	return lead, nil
}

type UpdateLeadParams struct {
	Name               *string
	Email              *string
	Status             *string
	PreferredCountries []string
	InterestedCountry  *string
	Notes              *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	add := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if params.Name != nil {
		add("name", *params.Name)
	}
	if params.Email != nil {
		add("email", *params.Email)
	}
	if params.Status != nil {
		add("status", *params.Status)
		if *params.Status == "CONVERTED" {
			sets = append(sets, "converted_at = COALESCE(converted_at, NOW())")
		}
	}
	if params.PreferredCountries != nil {
		add("preferred_countries", params.PreferredCountries)
	}
	if params.InterestedCountry != nil {
		add("interested_country", *params.InterestedCountry)
	}
	if params.Notes != nil {
		add("notes", *params.Notes)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING %s`, strings.Join(sets, ", "), len(args), leadColumns),
		args...,
	)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, fmt.Errorf("update lead: %w", err)
	}
	return lead, nil
}

type ListParams struct {
	Status       string
	ManagedByID  *uuid.UUID
	AssignedToID *uuid.UUID
	Unassigned   bool
	Search       string
	Offset       int
	Limit        int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.ManagedByID != nil {
		args = append(args, *params.ManagedByID)
		where = append(where, fmt.Sprintf("managed_by_id = $%d", len(args)))
	}
	if params.AssignedToID != nil {
		args = append(args, *params.AssignedToID)
		where = append(where, fmt.Sprintf("assigned_to_id = $%d", len(args)))
	}
	if params.Unassigned {
		where = append(where, "assigned_to_id IS NULL")
	}
	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d)", len(args), len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		leadColumns, cond, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return leads, total, nil
}

// AssignToTelecaller moves the requested leads to the telecaller in a single
// transaction. Only leads managed by the acting manager are touched; IDs that
// belong to someone else or do not exist are silently skipped. An activity row
// is written for every lead that actually changed hands.
func (r *Repository) AssignToTelecaller(ctx context.Context, leadIDs []uuid.UUID, telecallerID, managerID uuid.UUID) ([]uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin assign tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		UPDATE leads
		SET assigned_to_id = $1, status = 'NEW', updated_at = NOW()
		WHERE id = ANY($2) AND managed_by_id = $3
		RETURNING id
	`, telecallerID, leadIDs, managerID)
	if err != nil {
		return nil, fmt.Errorf("assign leads: %w", err)
	}
	assigned := make([]uuid.UUID, 0, len(leadIDs))
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		assigned = append(assigned, id)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for _, id := range assigned {
		if _, err := tx.Exec(ctx, `
			INSERT INTO activities (type, description, user_id, lead_id)
			VALUES ('LEAD_ASSIGNED', 'Lead assigned to telecaller', $1, $2)
		`, managerID, id); err != nil {
			return nil, fmt.Errorf("record assignment activity: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit assign tx: %w", err)
	}
	return assigned, nil
}

type ImportRow struct {
	Name               string
	Email              *string
	Phone              string
	Source             string
	PreferredCountries []string
}

type ImportResult struct {
	ImportID uuid.UUID
	Created  int
	Skipped  int
}

// BulkImport inserts the parsed rows for a manager, skipping phones that
// already exist, and records the batch in lead_imports. The whole batch
// commits or rolls back together.
func (r *Repository) BulkImport(ctx context.Context, managerID uuid.UUID, fileName, objectKey string, leadRows []ImportRow) (ImportResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var created int
	for _, row := range leadRows {
		tag, err := tx.Exec(ctx, `
			INSERT INTO leads (name, email, phone, source, managed_by_id, preferred_countries)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (phone) DO NOTHING
		`, row.Name, row.Email, row.Phone, row.Source, managerID, row.PreferredCountries)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import lead row: %w", err)
		}
		created += int(tag.RowsAffected())
	}
	skipped := len(leadRows) - created

	var importID uuid.UUID
	if err := tx.QueryRow(ctx, `
		INSERT INTO lead_imports (manager_id, file_name, object_key, total_rows, created_count, skipped_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, managerID, fileName, objectKey, len(leadRows), created, skipped).Scan(&importID); err != nil {
		return ImportResult{}, fmt.Errorf("record import: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO activities (type, description, user_id, metadata)
		VALUES ('LEADS_IMPORTED', $1, $2, $3)
	`, fmt.Sprintf("Imported %d leads (%d skipped)", created, skipped), managerID,
		map[string]any{"fileName": fileName, "created": created, "skipped": skipped},
	); err != nil {
		return ImportResult{}, fmt.Errorf("record import activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("commit import tx: %w", err)
	}
	return ImportResult{ImportID: importID, Created: created, Skipped: skipped}, nil
}

type ImportRecord struct {
	ID           uuid.UUID
	ManagerID    uuid.UUID
	FileName     string
	ObjectKey    string
	TotalRows    int
	CreatedCount int
	SkippedCount int
	CreatedAt    time.Time
}

func (r *Repository) ListImports(ctx context.Context, managerID uuid.UUID, limit int) ([]ImportRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, manager_id, file_name, object_key, total_rows, created_count, skipped_count, created_at
		FROM lead_imports
		WHERE manager_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, managerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	records := make([]ImportRecord, 0)
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.ManagerID, &rec.FileName, &rec.ObjectKey,
			&rec.TotalRows, &rec.CreatedCount, &rec.SkippedCount, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

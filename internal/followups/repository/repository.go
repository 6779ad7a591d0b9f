package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("follow-up not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type FollowUp struct {
	ID           uuid.UUID
	CallID       *uuid.UUID
	LeadID       uuid.UUID
	ScheduledFor time.Time
	Status       string
	AssignedToID uuid.UUID
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Denormalized lead summary for list views.
	LeadName  string
	LeadPhone string

	// CallerID is the telecaller who logged the originating call, if any.
	CallerID *uuid.UUID
}

const followUpSelect = `
	SELECT f.id, f.call_id, f.lead_id, f.scheduled_for, f.status, f.assigned_to_id,
		f.notes, f.created_at, f.updated_at,
		l.name, l.phone, c.telecaller_id
	FROM follow_ups f
	JOIN leads l ON l.id = f.lead_id
	LEFT JOIN calls c ON c.id = f.call_id
`

func scanFollowUp(row pgx.Row) (FollowUp, error) {
	var f FollowUp
	err := row.Scan(
		&f.ID, &f.CallID, &f.LeadID, &f.ScheduledFor, &f.Status, &f.AssignedToID,
		&f.Notes, &f.CreatedAt, &f.UpdatedAt,
		&f.LeadName, &f.LeadPhone, &f.CallerID,
	)
	return f, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (FollowUp, error) {
	row := r.pool.QueryRow(ctx, followUpSelect+` WHERE f.id = $1`, id)
	f, err := scanFollowUp(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUp{}, ErrNotFound
		}
		return FollowUp{}, fmt.Errorf("get follow-up: %w", err)
	}
	return f, nil
}

type ListParams struct {
	// ActorID scopes the list: follow-ups assigned to the actor plus
	// follow-ups whose originating call the actor made.
	ActorID uuid.UUID
	Status  string
	Until   *time.Time
	Offset  int
	Limit   int
}

// List returns follow-ups visible to the actor ordered by due time, soonest
// first.
func (r *Repository) List(ctx context.Context, params ListParams) ([]FollowUp, int, error) {
	where := []string{"(f.assigned_to_id = $1 OR c.telecaller_id = $1)"}
	args := []any{params.ActorID}
	if params.Status != "" {
		args = append(args, params.Status)
		where = append(where, fmt.Sprintf("f.status = $%d", len(args)))
	}
	if params.Until != nil {
		args = append(args, *params.Until)
		where = append(where, fmt.Sprintf("f.scheduled_for <= $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM follow_ups f
		LEFT JOIN calls c ON c.id = f.call_id
		WHERE ` + cond
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count follow-ups: %w", err)
	}

	args = append(args, params.Limit, params.Offset)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`%s WHERE %s ORDER BY f.scheduled_for ASC LIMIT $%d OFFSET $%d`,
		followUpSelect, cond, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()

	items := make([]FollowUp, 0)
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}
	return items, total, nil
}

type CreateParams struct {
	LeadID       uuid.UUID
	ScheduledFor time.Time
	AssignedToID uuid.UUID
	Notes        string
}

// Create inserts a standalone follow-up (no originating call) and stamps the
// lead's next follow-up date in the same transaction.
func (r *Repository) Create(ctx context.Context, params CreateParams) (FollowUp, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return FollowUp{}, fmt.Errorf("begin follow-up tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO follow_ups (lead_id, scheduled_for, status, assigned_to_id, notes)
		VALUES ($1, $2, 'PENDING', $3, $4)
		RETURNING id
	`, params.LeadID, params.ScheduledFor, params.AssignedToID, params.Notes).Scan(&id)
	if err != nil {
		return FollowUp{}, fmt.Errorf("insert follow-up: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET next_follow_up_date = $2, updated_at = NOW() WHERE id = $1
	`, params.LeadID, params.ScheduledFor); err != nil {
		return FollowUp{}, fmt.Errorf("stamp lead follow-up date: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return FollowUp{}, fmt.Errorf("commit follow-up tx: %w", err)
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus moves a follow-up to the given status, optionally replacing
// its notes. It succeeds only when the row is still PENDING; the service
// layer decides how to report a row that already left PENDING.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (FollowUp, error) {
	var updated uuid.UUID
	err := r.pool.QueryRow(ctx, `
		UPDATE follow_ups
		SET status = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $1 AND status = 'PENDING'
		RETURNING id
	`, id, status, notes).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUp{}, ErrNotFound
		}
		return FollowUp{}, fmt.Errorf("update follow-up status: %w", err)
	}
	return r.GetByID(ctx, updated)
}

// ListDuePending returns PENDING follow-ups whose due time has passed, for
// the reminder worker.
func (r *Repository) ListDuePending(ctx context.Context, before time.Time, limit int) ([]FollowUp, error) {
	rows, err := r.pool.Query(ctx, followUpSelect+`
		WHERE f.status = 'PENDING' AND f.scheduled_for <= $1
		ORDER BY f.scheduled_for ASC
		LIMIT $2
	`, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list due follow-ups: %w", err)
	}
	defer rows.Close()

	items := make([]FollowUp, 0)
	for rows.Next() {
		f, err := scanFollowUp(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLeadNotOwned means the lead does not exist or is not assigned to the
// acting telecaller. The two cases are deliberately indistinguishable.
var ErrLeadNotOwned = errors.New("lead not found or not assigned to caller")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Call struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	TelecallerID uuid.UUID
	Status       string
	Duration     int
	Outcome      string
	Notes        string
	CreatedAt    time.Time
}

type FollowUpParams struct {
	ScheduledFor time.Time
	AssignedToID uuid.UUID
	Notes        string
}

type LogCallParams struct {
	LeadID            uuid.UUID
	TelecallerID      uuid.UUID
	Status            string
	Duration          int
	Outcome           string
	Notes             string
	LeadStatus        *string
	InterestedCountry *string
	FollowUp          *FollowUpParams
}

type LoggedCall struct {
	Call       Call
	LeadStatus string
	FollowUpID *uuid.UUID
}

// LogCall records one call interaction atomically: the call row, the lead
// counters and status, the optional follow-up, and the activity entry commit
// or roll back together. The lead row is locked up front with an ownership
// predicate so a reassignment racing with the call cannot split the writes.
func (r *Repository) LogCall(ctx context.Context, params LogCallParams) (LoggedCall, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return LoggedCall{}, fmt.Errorf("begin call tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentStatus string
	err = tx.QueryRow(ctx, `
		SELECT status FROM leads
		WHERE id = $1 AND assigned_to_id = $2
		FOR UPDATE
	`, params.LeadID, params.TelecallerID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoggedCall{}, ErrLeadNotOwned
		}
		return LoggedCall{}, fmt.Errorf("lock lead: %w", err)
	}

	var call Call
	err = tx.QueryRow(ctx, `
		INSERT INTO calls (lead_id, telecaller_id, status, duration, outcome, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, lead_id, telecaller_id, status, duration, outcome, notes, created_at
	`, params.LeadID, params.TelecallerID, params.Status, params.Duration, params.Outcome, params.Notes).
		Scan(&call.ID, &call.LeadID, &call.TelecallerID, &call.Status, &call.Duration, &call.Outcome, &call.Notes, &call.CreatedAt)
	if err != nil {
		return LoggedCall{}, fmt.Errorf("insert call: %w", err)
	}

	leadStatus := currentStatus
	if params.LeadStatus != nil {
		leadStatus = *params.LeadStatus
	}
	var nextFollowUp *time.Time
	if params.FollowUp != nil {
		nextFollowUp = &params.FollowUp.ScheduledFor
	}
	// The attempt counter is bumped in SQL, not in Go, so concurrent calls on
	// the same lead never lose an increment.
	_, err = tx.Exec(ctx, `
		UPDATE leads SET
			total_call_attempts = total_call_attempts + 1,
			status = $2,
			converted_at = CASE
				WHEN $2 = 'CONVERTED' AND converted_at IS NULL THEN NOW()
				ELSE converted_at
			END,
			last_contacted_at = NOW(),
			next_follow_up_date = COALESCE($3, next_follow_up_date),
			interested_country = COALESCE($4, interested_country),
			notes = $5,
			preferred_countries = CASE
				WHEN $4::text IS NULL THEN preferred_countries
				ELSE array_prepend($4::text, array_remove(preferred_countries, $4::text))
			END,
			updated_at = NOW()
		WHERE id = $1
	`, params.LeadID, leadStatus, nextFollowUp, params.InterestedCountry, params.Notes)
	if err != nil {
		return LoggedCall{}, fmt.Errorf("update lead after call: %w", err)
	}

	var followUpID *uuid.UUID
	if params.FollowUp != nil {
		var id uuid.UUID
		err = tx.QueryRow(ctx, `
			INSERT INTO follow_ups (call_id, lead_id, scheduled_for, status, assigned_to_id, notes)
			VALUES ($1, $2, $3, 'PENDING', $4, $5)
			RETURNING id
		`, call.ID, params.LeadID, params.FollowUp.ScheduledFor, params.FollowUp.AssignedToID, params.FollowUp.Notes).Scan(&id)
		if err != nil {
			return LoggedCall{}, fmt.Errorf("insert follow-up: %w", err)
		}
		followUpID = &id
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO activities (type, description, user_id, lead_id, metadata)
		VALUES ('CALL_MADE', $1, $2, $3, $4)
	`, fmt.Sprintf("Call logged with status %s", params.Status), params.TelecallerID, params.LeadID,
		map[string]any{
			"callStatus":  params.Status,
			"leadStatus":  leadStatus,
			"hasFollowUp": params.FollowUp != nil,
		},
	)
	if err != nil {
		return LoggedCall{}, fmt.Errorf("record call activity: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return LoggedCall{}, fmt.Errorf("commit call tx: %w", err)
	}
	return LoggedCall{Call: call, LeadStatus: leadStatus, FollowUpID: followUpID}, nil
}

// ListByLead returns the call history for a lead, newest first.
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]Call, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, telecaller_id, status, duration, outcome, notes, created_at
		FROM calls
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list calls: %w", err)
	}
	defer rows.Close()

	calls := make([]Call, 0)
	for rows.Next() {
		var c Call
		if err := rows.Scan(&c.ID, &c.LeadID, &c.TelecallerID, &c.Status, &c.Duration, &c.Outcome, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

// ListByTelecaller returns the calls a telecaller made within a window.
func (r *Repository) ListByTelecaller(ctx context.Context, telecallerID uuid.UUID, from, to time.Time, limit int) ([]Call, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, telecaller_id, status, duration, outcome, notes, created_at
		FROM calls
		WHERE telecaller_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
		LIMIT $4
	`, telecallerID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("list telecaller calls: %w", err)
	}
	defer rows.Close()

	calls := make([]Call, 0)
	for rows.Next() {
		var c Call
		if err := rows.Scan(&c.ID, &c.LeadID, &c.TelecallerID, &c.Status, &c.Duration, &c.Outcome, &c.Notes, &c.CreatedAt); err != nil {
			return nil, err
		}
		calls = append(calls, c)
	}
	return calls, rows.Err()
}

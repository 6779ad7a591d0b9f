package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID          uuid.UUID
	Type        string
	Description string
	UserID      uuid.UUID
	LeadID      *uuid.UUID
	Metadata    map[string]any
	CreatedAt   time.Time
}

func (r *Repository) ListActivitiesByLead(ctx context.Context, leadID uuid.UUID, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, description, user_id, lead_id, metadata, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("list lead activities: %w", err)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.UserID, &a.LeadID, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *Repository) ListRecentActivities(ctx context.Context, userIDs []uuid.UUID, limit int) ([]Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, description, user_id, lead_id, metadata, created_at
		FROM activities
		WHERE user_id = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2
	`, userIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent activities: %w", err)
	}
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.Description, &a.UserID, &a.LeadID, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

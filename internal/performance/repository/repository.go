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

var ErrNotFound = errors.New("performance record not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// StaffStats are the raw counters for one staff member within a window.
// Ratios are computed in the metrics package, never in SQL.
type StaffStats struct {
	StaffID        uuid.UUID
	StaffName      string
	LeadsAssigned  int
	CallsMade      int
	ConnectedCalls int
	Conversions    int
	MonthlyTarget  int
}

// The reporting window binds to $1/$2; scope conditions append from $3 up.
const staffStatsQuery = `
	SELECT s.id, s.name,
		COALESCE(p.monthly_target, 0),
		(SELECT COUNT(*) FROM leads WHERE assigned_to_id = s.id),
		(SELECT COUNT(*) FROM calls WHERE telecaller_id = s.id AND created_at >= $1 AND created_at < $2),
		(SELECT COUNT(*) FROM calls WHERE telecaller_id = s.id AND status = 'CONNECTED' AND created_at >= $1 AND created_at < $2),
		(SELECT COUNT(*) FROM leads WHERE assigned_to_id = s.id AND converted_at >= $1 AND converted_at < $2)
	FROM staff s
	LEFT JOIN performance p ON p.staff_id = s.id
`

// StaffStats returns the counters for one staff member.
func (r *Repository) StaffStats(ctx context.Context, staffID uuid.UUID, from, to time.Time) (StaffStats, error) {
	var st StaffStats
	err := r.pool.QueryRow(ctx, staffStatsQuery+` WHERE s.id = $3`, from, to, staffID).
		Scan(&st.StaffID, &st.StaffName, &st.MonthlyTarget, &st.LeadsAssigned, &st.CallsMade, &st.ConnectedCalls, &st.Conversions)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StaffStats{}, ErrNotFound
		}
		return StaffStats{}, fmt.Errorf("staff stats: %w", err)
	}
	return st, nil
}

// TeamStats returns the counters for every telecaller reporting to a manager.
func (r *Repository) TeamStats(ctx context.Context, managerID uuid.UUID, from, to time.Time) ([]StaffStats, error) {
	rows, err := r.pool.Query(ctx,
		staffStatsQuery+` WHERE s.manager_id = $3 AND s.role = 'TELECALLER' ORDER BY s.name ASC`,
		from, to, managerID)
	if err != nil {
		return nil, fmt.Errorf("team stats: %w", err)
	}
	return scanStatsRows(rows)
}

// AllTelecallerStats returns counters for every telecaller in the org.
func (r *Repository) AllTelecallerStats(ctx context.Context, from, to time.Time) ([]StaffStats, error) {
	rows, err := r.pool.Query(ctx,
		staffStatsQuery+` WHERE s.role = 'TELECALLER' ORDER BY s.name ASC`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("all telecaller stats: %w", err)
	}
	return scanStatsRows(rows)
}

func scanStatsRows(rows pgx.Rows) ([]StaffStats, error) {
	defer rows.Close()
	stats := make([]StaffStats, 0)
	for rows.Next() {
		var st StaffStats
		if err := rows.Scan(&st.StaffID, &st.StaffName, &st.MonthlyTarget, &st.LeadsAssigned, &st.CallsMade, &st.ConnectedCalls, &st.Conversions); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// LeadStatusCounts returns how many leads sit in each status, optionally
// scoped to one manager's book.
func (r *Repository) LeadStatusCounts(ctx context.Context, managerID *uuid.UUID) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM leads`
	args := []any{}
	if managerID != nil {
		query += ` WHERE managed_by_id = $1`
		args = append(args, *managerID)
	}
	query += ` GROUP BY status`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lead status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// TrendPoint is one day of call activity split by call status.
type TrendPoint struct {
	Day        time.Time
	CallStatus string
	Count      int
}

// DailyCallTrend groups call volume by day and status for the window. When
// telecallerIDs is empty the trend covers the whole org.
func (r *Repository) DailyCallTrend(ctx context.Context, telecallerIDs []uuid.UUID, from, to time.Time) ([]TrendPoint, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, status, COUNT(*)
		FROM calls
		WHERE created_at >= $1 AND created_at < $2
	`
	args := []any{from, to}
	if len(telecallerIDs) > 0 {
		args = append(args, telecallerIDs)
		query += fmt.Sprintf(` AND telecaller_id = ANY($%d)`, len(args))
	}
	query += ` GROUP BY day, status ORDER BY day ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily call trend: %w", err)
	}
	defer rows.Close()

	points := make([]TrendPoint, 0)
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Day, &p.CallStatus, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// LeadTrendPoint is one day of lead intake with its conversion count.
type LeadTrendPoint struct {
	Day       time.Time
	Total     int
	Converted int
}

// DailyLeadTrend groups lead intake by creation day for the window, counting
// how many of each day's leads have converted. A nil managerID covers the
// whole org.
func (r *Repository) DailyLeadTrend(ctx context.Context, managerID *uuid.UUID, from, to time.Time) ([]LeadTrendPoint, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'CONVERTED')
		FROM leads
		WHERE created_at >= $1 AND created_at < $2
	`
	args := []any{from, to}
	if managerID != nil {
		args = append(args, *managerID)
		query += ` AND managed_by_id = $3`
	}
	query += ` GROUP BY day ORDER BY day ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily lead trend: %w", err)
	}
	defer rows.Close()

	points := make([]LeadTrendPoint, 0)
	for rows.Next() {
		var p LeadTrendPoint
		if err := rows.Scan(&p.Day, &p.Total, &p.Converted); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// WindowCounts are org wide lead intake and conversion counts for one window.
type WindowCounts struct {
	Leads       int
	Conversions int
}

// OrgWindowCounts counts leads created and leads converted inside the window.
func (r *Repository) OrgWindowCounts(ctx context.Context, from, to time.Time) (WindowCounts, error) {
	var wc WindowCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			COUNT(*) FILTER (WHERE converted_at >= $1 AND converted_at < $2)
		FROM leads
	`, from, to).Scan(&wc.Leads, &wc.Conversions)
	if err != nil {
		return WindowCounts{}, fmt.Errorf("org window counts: %w", err)
	}
	return wc, nil
}

// FollowUpLoad counts a staff member's pending follow-ups due today and
// already overdue as of now.
func (r *Repository) FollowUpLoad(ctx context.Context, staffID uuid.UUID, now time.Time) (dueToday, overdue int, err error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE scheduled_for >= $2 AND scheduled_for < $3),
			COUNT(*) FILTER (WHERE scheduled_for < $4)
		FROM follow_ups
		WHERE assigned_to_id = $1 AND status = 'PENDING'
	`, staffID, dayStart, dayEnd, now).Scan(&dueToday, &overdue)
	if err != nil {
		return 0, 0, fmt.Errorf("follow-up load: %w", err)
	}
	return dueToday, overdue, nil
}

// SetMonthlyTarget updates the target on a staff member's snapshot row.
func (r *Repository) SetMonthlyTarget(ctx context.Context, staffID uuid.UUID, target int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE performance SET monthly_target = $2, updated_at = NOW() WHERE staff_id = $1
	`, staffID, target)
	if err != nil {
		return fmt.Errorf("set monthly target: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RefreshSnapshot recomputes and stores the denormalized counters for one
// staff member. Conversion rate is stored for listing convenience only.
func (r *Repository) RefreshSnapshot(ctx context.Context, staffID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE performance p SET
			leads = (SELECT COUNT(*) FROM leads WHERE assigned_to_id = $1),
			conversions = (SELECT COUNT(*) FROM leads WHERE assigned_to_id = $1 AND status = 'CONVERTED'),
			calls_made = (SELECT COUNT(*) FROM calls WHERE telecaller_id = $1),
			conversion_rate = CASE
				WHEN (SELECT COUNT(*) FROM leads WHERE assigned_to_id = $1) = 0 THEN 0
				ELSE ROUND(
					(SELECT COUNT(*) FROM leads WHERE assigned_to_id = $1 AND status = 'CONVERTED')::numeric
					/ (SELECT COUNT(*) FROM leads WHERE assigned_to_id = $1)::numeric * 100, 2)
			END,
			updated_at = NOW()
		WHERE p.staff_id = $1
	`, staffID)
	if err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	return nil
}

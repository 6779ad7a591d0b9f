// Package repository provides data access for staff records and the
// manager/telecaller hierarchy.
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

var (
	ErrNotFound = errors.New("staff member not found")
	// ErrNotClaimable is returned when a conditional hierarchy update matched
	// no row: the telecaller is missing, not a telecaller, or already claimed.
	ErrNotClaimable = errors.New("telecaller not claimable")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type StaffMember struct {
	ID         uuid.UUID
	Name       string
	Email      string
	EmployeeID string
	Role       string
	Status     string
	ManagerID  *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PerformanceSnapshot is the advisory per-staff metrics row. It may lag
// behind lead/call truth and is never treated as authoritative.
type PerformanceSnapshot struct {
	Leads          int
	Conversions    int
	ConversionRate float64
	CallsMade      int
	MonthlyTarget  int
}

// StaffWithPerformance pairs a staff member with their snapshot.
type StaffWithPerformance struct {
	StaffMember
	Performance PerformanceSnapshot
}

const staffColumns = "id, name, email, employee_id, role, status, manager_id, created_at, updated_at"

func scanStaff(row pgx.Row) (StaffMember, error) {
	var member StaffMember
	err := row.Scan(
		&member.ID, &member.Name, &member.Email, &member.EmployeeID,
		&member.Role, &member.Status, &member.ManagerID,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return StaffMember{}, ErrNotFound
	}
	return member, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (StaffMember, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM staff WHERE id = $1", staffColumns), id)
	return scanStaff(row)
}

// GetTelecallerOfManager returns the telecaller only when it reports to the
// given manager. Used as the assignment-time ownership check.
func (r *Repository) GetTelecallerOfManager(ctx context.Context, telecallerID, managerID uuid.UUID) (StaffMember, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM staff
		WHERE id = $1 AND role = 'TELECALLER' AND manager_id = $2
	`, staffColumns), telecallerID, managerID)
	return scanStaff(row)
}

// ClaimTelecaller conditionally links an unassigned telecaller to a manager.
// The predicate runs at write time so two managers racing for the same
// telecaller cannot both succeed.
func (r *Repository) ClaimTelecaller(ctx context.Context, telecallerID, managerID uuid.UUID) (StaffMember, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE staff SET manager_id = $2, updated_at = now()
		WHERE id = $1 AND role = 'TELECALLER' AND manager_id IS NULL
		RETURNING %s
	`, staffColumns), telecallerID, managerID)

	member, err := scanStaff(row)
	if errors.Is(err, ErrNotFound) {
		return StaffMember{}, ErrNotClaimable
	}
	return member, err
}

// ReleaseTelecaller clears the manager link only when the telecaller
// currently reports to the given manager.
func (r *Repository) ReleaseTelecaller(ctx context.Context, telecallerID, managerID uuid.UUID) (StaffMember, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE staff SET manager_id = NULL, updated_at = now()
		WHERE id = $1 AND role = 'TELECALLER' AND manager_id = $2
		RETURNING %s
	`, staffColumns), telecallerID, managerID)

	member, err := scanStaff(row)
	if errors.Is(err, ErrNotFound) {
		return StaffMember{}, ErrNotClaimable
	}
	return member, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (StaffMember, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE staff SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, staffColumns), id, status)
	return scanStaff(row)
}

type ListParams struct {
	Role      string
	ManagerID *uuid.UUID
	// Unassigned restricts to staff with no manager link.
	Unassigned bool
	Search     string
	Offset     int
	Limit      int
}

// List returns staff with their performance snapshots plus the total count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]StaffWithPerformance, int, error) {
	whereClauses := []string{"s.role = $1"}
	args := []interface{}{params.Role}
	argIdx := 2

	if params.ManagerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("s.manager_id = $%d", argIdx))
		args = append(args, *params.ManagerID)
		argIdx++
	}
	if params.Unassigned {
		whereClauses = append(whereClauses, "s.manager_id IS NULL")
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(s.name ILIKE $%d OR s.email ILIKE $%d OR s.employee_id ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(whereClauses, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM staff s WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT s.id, s.name, s.email, s.employee_id, s.role, s.status, s.manager_id, s.created_at, s.updated_at,
			COALESCE(p.leads, 0), COALESCE(p.conversions, 0), COALESCE(p.conversion_rate, 0),
			COALESCE(p.calls_made, 0), COALESCE(p.monthly_target, 0)
		FROM staff s
		LEFT JOIN performance p ON p.staff_id = s.id
		WHERE %s
		ORDER BY s.name ASC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members := make([]StaffWithPerformance, 0)
	for rows.Next() {
		var member StaffWithPerformance
		if err := rows.Scan(
			&member.ID, &member.Name, &member.Email, &member.EmployeeID,
			&member.Role, &member.Status, &member.ManagerID,
			&member.CreatedAt, &member.UpdatedAt,
			&member.Performance.Leads, &member.Performance.Conversions, &member.Performance.ConversionRate,
			&member.Performance.CallsMade, &member.Performance.MonthlyTarget,
		); err != nil {
			return nil, 0, err
		}
		members = append(members, member)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return members, total, nil
}

// Package repository provides data access for staff credentials.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrDuplicate = errors.New("account already exists")
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	EmployeeID   string
	PasswordHash string
	Role         string
	Status       string
	ManagerID    *uuid.UUID
	CreatedAt    time.Time
}

type CreateAccountParams struct {
	Name         string
	Email        string
	EmployeeID   string
	PasswordHash string
	Role         string
	ManagerID    *uuid.UUID
}

// Create inserts a staff account together with a zeroed performance snapshot,
// in one transaction so a staff row never exists without its snapshot.
func (r *Repository) Create(ctx context.Context, params CreateAccountParams) (Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Account{}, err
	}
	defer tx.Rollback(ctx)

	var account Account
	err = tx.QueryRow(ctx, `
		INSERT INTO staff (name, email, employee_id, password_hash, role, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, employee_id, password_hash, role, status, manager_id, created_at
	`,
		params.Name, params.Email, params.EmployeeID, params.PasswordHash, params.Role, params.ManagerID,
	).Scan(
		&account.ID, &account.Name, &account.Email, &account.EmployeeID,
		&account.PasswordHash, &account.Role, &account.Status, &account.ManagerID, &account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Account{}, ErrDuplicate
		}
		return Account{}, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO performance (staff_id) VALUES ($1)
	`, account.ID); err != nil {
		return Account{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Account{}, err
	}

	return account, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Account, error) {
	var account Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, employee_id, password_hash, role, status, manager_id, created_at
		FROM staff WHERE email = $1
	`, email).Scan(
		&account.ID, &account.Name, &account.Email, &account.EmployeeID,
		&account.PasswordHash, &account.Role, &account.Status, &account.ManagerID, &account.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return account, err
}

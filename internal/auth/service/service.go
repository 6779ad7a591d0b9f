// Package service implements staff registration and login. This is the
// identity collaborator: core domain services never authenticate anything
// themselves, they receive the acting user as an explicit parameter.
package service

import (
	"context"
	"errors"

	"telecrm_backend/internal/auth/repository"
	"telecrm_backend/internal/auth/token"
	"telecrm_backend/internal/auth/transport"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/logger"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Repository defines the data access interface needed by the auth service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateAccountParams) (repository.Account, error)
	GetByEmail(ctx context.Context, email string) (repository.Account, error)
}

type Service struct {
	repo   Repository
	issuer *token.Issuer
	log    *logger.Logger
}

func New(repo Repository, issuer *token.Issuer, log *logger.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, log: log}
}

// Register creates a staff account with a hashed password.
// A TELECALLER may be created pre-linked to a manager; other roles start
// without a hierarchy link.
func (s *Service) Register(ctx context.Context, req transport.RegisterRequest) (transport.AccountResponse, error) {
	if req.Role != "TELECALLER" && req.ManagerID != nil {
		return transport.AccountResponse{}, apperr.Validation("only telecallers can be linked to a manager")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return transport.AccountResponse{}, err
	}

	account, err := s.repo.Create(ctx, repository.CreateAccountParams{
		Name:         req.Name,
		Email:        req.Email,
		EmployeeID:   req.EmployeeID,
		PasswordHash: string(hash),
		Role:         req.Role,
		ManagerID:    req.ManagerID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return transport.AccountResponse{}, apperr.Conflict("email or employee id already in use")
		}
		return transport.AccountResponse{}, err
	}

	s.log.AuthEvent("register", account.Email, true, "")
	return toAccountResponse(account), nil
}

// Login verifies credentials and issues an access token with the role claim.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	account, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.AuthEvent("login", req.Email, false, "unknown email")
			return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
		}
		return transport.LoginResponse{}, err
	}

	if account.Status != "ACTIVE" {
		s.log.AuthEvent("login", req.Email, false, "inactive account")
		return transport.LoginResponse{}, apperr.Unauthorized("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", req.Email, false, "bad password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.issuer.IssueAccessToken(account.ID, account.Role)
	if err != nil {
		return transport.LoginResponse{}, err
	}

	s.log.AuthEvent("login", account.Email, true, "")

	return transport.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		Account:     toAccountResponse(account),
	}, nil
}

func toAccountResponse(account repository.Account) transport.AccountResponse {
	return transport.AccountResponse{
		ID:         account.ID,
		Name:       account.Name,
		Email:      account.Email,
		EmployeeID: account.EmployeeID,
		Role:       account.Role,
		Status:     account.Status,
	}
}

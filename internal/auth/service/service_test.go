package service

import (
	"context"
	"testing"
	"time"

	"telecrm_backend/internal/auth/repository"
	"telecrm_backend/internal/auth/token"
	"telecrm_backend/internal/auth/transport"
	"telecrm_backend/platform/apperr"
	"telecrm_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type issuerConfig struct{}

func (issuerConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (issuerConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

type fakeRepo struct {
	account   repository.Account
	createErr error
	getErr    error
	created   []repository.CreateAccountParams
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateAccountParams) (repository.Account, error) {
	f.created = append(f.created, params)
	if f.createErr != nil {
		return repository.Account{}, f.createErr
	}
	return repository.Account{
		ID:     uuid.New(),
		Name:   params.Name,
		Email:  params.Email,
		Role:   params.Role,
		Status: "ACTIVE",
	}, nil
}

func (f *fakeRepo) GetByEmail(context.Context, string) (repository.Account, error) {
	if f.getErr != nil {
		return repository.Account{}, f.getErr
	}
	return f.account, nil
}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, token.NewIssuer(issuerConfig{}), logger.New("development"))
}

func TestRegister_ManagerLinkOnlyForTelecallers(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	managerID := uuid.New()
	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:      "Ravi Kumar",
		Email:     "ravi@example.com",
		Password:  "secret-password",
		Role:      "COUNSELOR",
		ManagerID: &managerID,
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no account created")
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	repo := &fakeRepo{createErr: repository.ErrDuplicate}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret-password",
		Role:     "TELECALLER",
	})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), transport.RegisterRequest{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret-password",
		Role:     "MANAGER",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash := repo.created[0].PasswordHash
	if hash == "secret-password" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret-password")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestLogin_InactiveAccountUnauthorized(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	repo := &fakeRepo{account: repository.Account{
		ID:           uuid.New(),
		Email:        "ravi@example.com",
		PasswordHash: string(hash),
		Role:         "TELECALLER",
		Status:       "INACTIVE",
	}}
	svc := newTestService(repo)

	_, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "ravi@example.com",
		Password: "secret-password",
	})
	if apperr.GetKind(err) != apperr.KindUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmailAndBadPasswordLookTheSame(t *testing.T) {
	svc := newTestService(&fakeRepo{getErr: repository.ErrNotFound})
	_, errUnknown := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	svc = newTestService(&fakeRepo{account: repository.Account{
		Email:        "ravi@example.com",
		PasswordHash: string(hash),
		Status:       "ACTIVE",
	}})
	_, errBadPass := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "ravi@example.com",
		Password: "wrong",
	})

	if errUnknown.Error() != errBadPass.Error() {
		t.Fatalf("expected identical errors, got %q vs %q", errUnknown, errBadPass)
	}
}

func TestLogin_IssuesToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	repo := &fakeRepo{account: repository.Account{
		ID:           uuid.New(),
		Email:        "ravi@example.com",
		PasswordHash: string(hash),
		Role:         "MANAGER",
		Status:       "ACTIVE",
	}}
	svc := newTestService(repo)

	out, err := svc.Login(context.Background(), transport.LoginRequest{
		Email:    "ravi@example.com",
		Password: "secret-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if !out.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry")
	}
}

// Package auth provides the authentication bounded context module.
package auth

import (
	"telecrm_backend/internal/auth/handler"
	"telecrm_backend/internal/auth/repository"
	"telecrm_backend/internal/auth/service"
	"telecrm_backend/internal/auth/token"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/platform/config"
	"telecrm_backend/platform/logger"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates and initializes the auth module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	issuer := token.NewIssuer(cfg)
	svc := service.New(repo, issuer, log)

	return &Module{
		handler: handler.New(svc, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts auth routes on the provided router context.
// Auth routes are public but rate limited more strictly than the rest.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

var _ apphttp.Module = (*Module)(nil)

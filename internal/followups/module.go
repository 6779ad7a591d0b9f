// Package followups provides the follow-up reminder bounded context module.
package followups

import (
	"telecrm_backend/internal/events"
	"telecrm_backend/internal/followups/handler"
	"telecrm_backend/internal/followups/repository"
	"telecrm_backend/internal/followups/service"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the follow-ups bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the follow-ups module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followups"
}

// Repository exposes follow-up queries for the reminder worker.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts follow-up routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/followups"))
}

var _ apphttp.Module = (*Module)(nil)

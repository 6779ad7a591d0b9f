// Package directory provides the staff directory bounded context module.
package directory

import (
	"telecrm_backend/internal/directory/handler"
	"telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/directory/service"
	"telecrm_backend/internal/events"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the directory bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    *repository.Repository
}

// NewModule creates and initializes the directory module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "directory"
}

// Service returns the directory service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the staff repository for modules that need hierarchy checks.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts directory routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/directory"))
}

var _ apphttp.Module = (*Module)(nil)

// Package calls provides the call logging bounded context module.
package calls

import (
	"telecrm_backend/internal/calls/handler"
	"telecrm_backend/internal/calls/repository"
	"telecrm_backend/internal/calls/service"
	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/events"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/platform/logger"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the calls bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the calls module.
func NewModule(pool *pgxpool.Pool, staff *directoryrepo.Repository, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, staff, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calls"
}

// Repository exposes call queries for dashboard read models.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts call routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/calls"))
}

var _ apphttp.Module = (*Module)(nil)

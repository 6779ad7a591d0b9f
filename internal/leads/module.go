// Package leads provides the lead book bounded context module: CRUD,
// manager to telecaller assignment, and bulk import.
package leads

import (
	directoryrepo "telecrm_backend/internal/directory/repository"
	"telecrm_backend/internal/events"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/internal/leads/assignment"
	"telecrm_backend/internal/leads/handler"
	"telecrm_backend/internal/leads/importing"
	"telecrm_backend/internal/leads/management"
	"telecrm_backend/internal/leads/repository"
	"telecrm_backend/platform/logger"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
}

// NewModule creates and initializes the leads module. The staff repository
// comes from the directory module so assignment can verify team membership.
func NewModule(pool *pgxpool.Pool, staff *directoryrepo.Repository, store importing.ObjectStore, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	mgmt := management.New(repo)
	assign := assignment.New(repo, staff, bus, log)
	imp := importing.New(repo, store, bus, log)

	return &Module{
		handler: handler.New(mgmt, assign, imp, val),
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository exposes the lead repository for read models in other modules.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/leads"))
}

var _ apphttp.Module = (*Module)(nil)

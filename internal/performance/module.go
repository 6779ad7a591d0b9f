// Package performance provides the metrics and dashboard bounded context
// module.
package performance

import (
	"context"

	"telecrm_backend/internal/events"
	apphttp "telecrm_backend/internal/http"
	"telecrm_backend/internal/performance/handler"
	"telecrm_backend/internal/performance/repository"
	"telecrm_backend/internal/performance/service"
	"telecrm_backend/platform/logger"
	"telecrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the performance bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the performance module and subscribes snapshot refreshes
// to the write side events.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)

	m := &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
	m.subscribe(bus, log)
	return m
}

// subscribe keeps the stored snapshots roughly current: every logged call and
// assignment batch refreshes the telecaller's counters in the background.
func (m *Module) subscribe(bus events.Bus, log *logger.Logger) {
	refresh := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		switch e := event.(type) {
		case events.CallLogged:
			if err := m.service.RefreshSnapshot(ctx, e.TelecallerID); err != nil {
				log.Warn("snapshot refresh failed", "staffId", e.TelecallerID.String(), "error", err.Error())
			}
		case events.LeadsAssigned:
			if err := m.service.RefreshSnapshot(ctx, e.TelecallerID); err != nil {
				log.Warn("snapshot refresh failed", "staffId", e.TelecallerID.String(), "error", err.Error())
			}
		}
		return nil
	})
	bus.Subscribe("calls.logged", refresh)
	bus.Subscribe("leads.assigned", refresh)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "performance"
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/performance"))
}

var _ apphttp.Module = (*Module)(nil)

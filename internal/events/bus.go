package events

import (
	platformevents "telecrm_backend/platform/events"
	"telecrm_backend/platform/logger"
)

// InMemoryBus is the default in-process bus implementation.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

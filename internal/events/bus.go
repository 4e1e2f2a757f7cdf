package events

import (
	platformevents "studyhub_backend/platform/events"
	"studyhub_backend/platform/logger"
)

// InMemoryBus is the platform bus, re-exported for modules.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

package sse

import (
	"log/slog"

	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
)

// Source produces the current decoded snapshot for a collection.
type Source func() interface{}

// Broadcaster republishes mirror snapshot refreshes to the hub so SSE
// subscribers see the same view the services serve.
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger,
	}
}

// Watch publishes one event per coalesced snapshot refresh until the handle
// is closed. The handle is dedicated to the broadcaster; callers keep their
// own.
func (b *Broadcaster) Watch(collection string, handle *mirror.Handle, snapshot Source) {
	go func() {
		for range handle.Updates() {
			b.hub.Publish(collection, Event{
				Collection: collection,
				Event:      "snapshot",
				Data:       snapshot(),
			})
		}
		b.logger.Debug("broadcast loop stopped", "collection", collection)
	}()
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/sse"
)

type StreamHandler interface {
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	hub *sse.Hub
}

func NewStreamHandler(hub *sse.Hub) StreamHandler {
	return &streamHandlerImpl{
		hub: hub,
	}
}

var streamableCollections = map[entitystore.Collection]bool{
	entitystore.CollectionWorkers:           true,
	entitystore.CollectionDispatchJobs:      true,
	entitystore.CollectionAttendanceEntries: true,
	entitystore.CollectionServiceTickets:    true,
	entitystore.CollectionPermits:           true,
	entitystore.CollectionPatrolEntries:     true,
}

// Stream pushes snapshot refreshes for one collection over SSE.
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	collection := r.URL.Query().Get("collection")
	if !streamableCollections[entitystore.Collection(collection)] {
		http.Error(w, "Unknown collection", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(collection)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"collection\":%q}\n\n", collection)
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

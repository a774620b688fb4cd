package http

import (
	"encoding/json"
	"net/http"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/patrol"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
)

type PatrolHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type patrolHandlerImpl struct {
	patrolService patrol.PatrolService
}

func NewPatrolHandler(patrolService patrol.PatrolService) PatrolHandler {
	return &patrolHandlerImpl{
		patrolService: patrolService,
	}
}

type patrolEntryPayload struct {
	patrol.CreateEntryRequest
	Location geoPayload `json:"location"`
}

// Create implements PatrolHandler.
func (h *patrolHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var payload patrolEntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := payload.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := h.patrolService.CreateEntry(r.Context(), payload.CreateEntryRequest, payload.Location.locator())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Patrol entry recorded", map[string]string{"id": id})
}

// List implements PatrolHandler.
func (h *patrolHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	entries := h.patrolService.Entries()

	if entryType := r.URL.Query().Get("entryType"); entryType != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if string(e.EntryType) == entryType {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	response.Success(w, entries)
}

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/permit"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
)

type PermitHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ExpiringSoon(w http.ResponseWriter, r *http.Request)
}

type permitHandlerImpl struct {
	permitService permit.PermitService
}

func NewPermitHandler(permitService permit.PermitService) PermitHandler {
	return &permitHandlerImpl{
		permitService: permitService,
	}
}

// Create implements PermitHandler.
func (h *permitHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req permit.CreatePermitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := h.permitService.CreatePermit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Permit application created", map[string]string{"id": id})
}

// UpdateStatus implements PermitHandler.
func (h *permitHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req permit.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.PermitID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.permitService.UpdateStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Permit status updated", nil)
}

// List implements PermitHandler.
func (h *permitHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		s := permit.Status(status)
		if !s.Valid() {
			response.BadRequest(w, "Unknown permit status", nil)
			return
		}
		response.Success(w, h.permitService.PermitsByStatus(s))
		return
	}

	response.Success(w, h.permitService.Permits())
}

// ExpiringSoon implements PermitHandler. It surfaces approved permits whose
// expiration date falls within the next thirty days.
func (h *permitHandlerImpl) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	now := time.Now()

	var expiring []permit.Permit
	for _, p := range h.permitService.Permits() {
		if p.ExpiringSoon(now) {
			expiring = append(expiring, p)
		}
	}

	response.Success(w, expiring)
}

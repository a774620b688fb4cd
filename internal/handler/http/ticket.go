package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/ticket"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
)

type TicketHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type ticketHandlerImpl struct {
	ticketService ticket.TicketService
}

func NewTicketHandler(ticketService ticket.TicketService) TicketHandler {
	return &ticketHandlerImpl{
		ticketService: ticketService,
	}
}

// Create implements TicketHandler.
func (h *ticketHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req ticket.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := h.ticketService.CreateTicket(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Ticket opened", map[string]string{"id": id})
}

// UpdateStatus implements TicketHandler.
func (h *ticketHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req ticket.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TicketID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.ticketService.UpdateStatus(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Ticket status updated", nil)
}

// List implements TicketHandler.
func (h *ticketHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		s := ticket.Status(status)
		if !s.Valid() {
			response.BadRequest(w, "Unknown ticket status", nil)
			return
		}
		response.Success(w, h.ticketService.TicketsByStatus(s))
		return
	}

	response.Success(w, h.ticketService.Tickets())
}

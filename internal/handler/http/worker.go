package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/worker"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
)

type WorkerHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	SetActive(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type workerHandlerImpl struct {
	rosterService worker.RosterService
}

func NewWorkerHandler(rosterService worker.RosterService) WorkerHandler {
	return &workerHandlerImpl{
		rosterService: rosterService,
	}
}

// Create implements WorkerHandler.
func (h *workerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req worker.CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := h.rosterService.CreateWorker(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Worker added to roster", map[string]string{"id": id})
}

// SetActive implements WorkerHandler.
func (h *workerHandlerImpl) SetActive(w http.ResponseWriter, r *http.Request) {
	var req worker.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.WorkerID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.rosterService.SetActive(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Worker status updated", nil)
}

// List implements WorkerHandler.
func (h *workerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	workers := h.rosterService.Workers()

	if r.URL.Query().Get("active") == "true" {
		filtered := workers[:0]
		for _, wk := range workers {
			if wk.Active {
				filtered = append(filtered, wk)
			}
		}
		workers = filtered
	}

	response.Success(w, workers)
}

// Get implements WorkerHandler.
func (h *workerHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	wk, ok := h.rosterService.WorkerByID(chi.URLParam(r, "id"))
	if !ok {
		response.HandleError(w, worker.ErrWorkerNotFound)
		return
	}

	response.Success(w, wk)
}

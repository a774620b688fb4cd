package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/dispatch"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type DispatchHandler interface {
	CreateJob(w http.ResponseWriter, r *http.Request)
	Reassign(w http.ResponseWriter, r *http.Request)
	DeleteJob(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	WeekGrid(w http.ResponseWriter, r *http.Request)
}

type dispatchHandlerImpl struct {
	schedulerService dispatch.SchedulerService
}

func NewDispatchHandler(schedulerService dispatch.SchedulerService) DispatchHandler {
	return &dispatchHandlerImpl{
		schedulerService: schedulerService,
	}
}

// CreateJob implements DispatchHandler.
func (h *dispatchHandlerImpl) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req dispatch.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := h.schedulerService.CreateJob(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Job scheduled", map[string]string{"id": id})
}

// Reassign implements DispatchHandler.
func (h *dispatchHandlerImpl) Reassign(w http.ResponseWriter, r *http.Request) {
	var req dispatch.ReassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.JobID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.schedulerService.Reassign(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job reassigned", nil)
}

// DeleteJob implements DispatchHandler.
func (h *dispatchHandlerImpl) DeleteJob(w http.ResponseWriter, r *http.Request) {
	// Destructive and not undoable, so the client must confirm explicitly.
	if r.URL.Query().Get("confirm") != "true" {
		response.BadRequest(w, "Deletion requires confirm=true", nil)
		return
	}

	if err := h.schedulerService.DeleteJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Job deleted", nil)
}

// List implements DispatchHandler.
func (h *dispatchHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	setDegradedHeader(w, h.schedulerService.Degraded())
	response.Success(w, h.schedulerService.Jobs())
}

// WeekGrid implements DispatchHandler. The pivot defaults to today; an
// optional direction of -1 or 1 pages a week backwards or forwards first.
func (h *dispatchHandlerImpl) WeekGrid(w http.ResponseWriter, r *http.Request) {
	pivot := r.URL.Query().Get("pivot")
	if pivot == "" {
		pivot = time.Now().Format(dispatch.DateLayout)
	}

	direction := r.URL.Query().Get("direction")
	if !validator.IsInSlice(direction, []string{"", "1", "+1", "-1"}) {
		response.BadRequest(w, "direction must be -1 or 1", nil)
		return
	}
	if direction != "" {
		step := 1
		if direction == "-1" {
			step = -1
		}
		next, err := dispatch.Navigate(pivot, step)
		if err != nil {
			response.BadRequest(w, err.Error(), nil)
			return
		}
		pivot = next
	}

	week, err := dispatch.WeekOf(pivot)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	grid := make(map[string]map[dispatch.TimeSlot][]dispatch.DispatchJob, len(week))
	for _, date := range week {
		buckets := make(map[dispatch.TimeSlot][]dispatch.DispatchJob, 3)
		for _, slot := range dispatch.TimeSlots() {
			buckets[slot] = h.schedulerService.JobsFor(date, slot)
		}
		grid[date] = buckets
	}

	setDegradedHeader(w, h.schedulerService.Degraded())
	response.Success(w, map[string]interface{}{
		"pivot": pivot,
		"week":  week,
		"grid":  grid,
	})
}

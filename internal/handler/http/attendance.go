package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/attendance"
	"github.com/rotulos-pr/fieldops-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	WorkerStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	engine attendance.Engine
}

func NewAttendanceHandler(engine attendance.Engine) AttendanceHandler {
	return &attendanceHandlerImpl{
		engine: engine,
	}
}

type clockInPayload struct {
	attendance.ClockInRequest
	Location geoPayload `json:"location"`
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var payload clockInPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := payload.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := h.engine.ClockIn(r.Context(), payload.ClockInRequest, payload.Location.locator())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clock in recorded", map[string]string{"id": id})
}

type clockOutPayload struct {
	Location geoPayload `json:"location"`
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var payload clockOutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := attendance.ClockOutRequest{EntryID: chi.URLParam(r, "id")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.engine.ClockOut(r.Context(), req, payload.Location.locator()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out recorded", nil)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	entries := h.engine.Entries()

	if workerID := r.URL.Query().Get("employee_id"); workerID != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if e.WorkerID == workerID {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	setDegradedHeader(w, h.engine.Degraded())
	response.Success(w, entries)
}

// WorkerStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) WorkerStatus(w http.ResponseWriter, r *http.Request) {
	workerID := chi.URLParam(r, "workerID")

	status := map[string]interface{}{
		"state": h.engine.StateFor(workerID),
	}
	if entry, ok := h.engine.ActiveEntryFor(workerID); ok {
		status["activeEntry"] = entry
	}

	setDegradedHeader(w, h.engine.Degraded())
	response.Success(w, status)
}

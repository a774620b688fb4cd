package response

import (
	"errors"
	"net/http"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/attendance"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/dispatch"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/permit"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/ticket"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/worker"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity boundary
	case errors.Is(err, identity.ErrNoActor):
		Unauthorized(w, "Actor identity missing")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn):
		Conflict(w, "Worker is already clocked in")
	case errors.Is(err, attendance.ErrNotClockedIn):
		Conflict(w, "Worker is not clocked in")
	case errors.Is(err, attendance.ErrWorkerInactive):
		Conflict(w, "Worker is inactive on the roster")
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Attendance entry not found")

	// Dispatch domain errors
	case errors.Is(err, dispatch.ErrJobNotFound):
		NotFound(w, "Dispatch job not found")

	// Roster domain errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")

	// Ticket domain errors
	case errors.Is(err, ticket.ErrTicketNotFound):
		NotFound(w, "Service ticket not found")
	case errors.Is(err, ticket.ErrInvalidTransition):
		Conflict(w, "Ticket status transition not permitted")

	// Permit domain errors
	case errors.Is(err, permit.ErrPermitNotFound):
		NotFound(w, "Permit not found")
	case errors.Is(err, permit.ErrInvalidTransition):
		Conflict(w, "Permit status transition not permitted")

	// Location capability failures: no write happened, the caller may retry
	case location.IsCapabilityError(err):
		BadRequest(w, err.Error(), nil)

	// Store errors
	case errors.Is(err, entitystore.ErrNotFound):
		NotFound(w, "Document not found")
	case errors.Is(err, entitystore.ErrStoreUnavailable):
		ServiceUnavailable(w, "Store unavailable, retry the operation")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

package ticket

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type CreateTicketRequest struct {
	ClientName  string   `json:"clientName"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	SignType    string   `json:"signType"`
	Priority    Priority `json:"priority"`
}

func (r *CreateTicketRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClientName) {
		errs = append(errs, validator.ValidationError{
			Field:   "clientName",
			Message: "clientName is required",
		})
	}

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	if validator.IsEmpty(r.Description) {
		errs = append(errs, validator.ValidationError{
			Field:   "description",
			Message: "description is required",
		})
	}

	if !r.Priority.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of low, normal, high, urgent",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	TicketID string `json:"ticket_id"`
	Status   Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.TicketID) {
		errs = append(errs, validator.ValidationError{
			Field:   "ticket_id",
			Message: "ticket_id is required",
		})
	}

	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of pending, in_progress, completed, cancelled",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

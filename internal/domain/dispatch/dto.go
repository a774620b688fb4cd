package dispatch

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type CreateJobRequest struct {
	Title      string   `json:"title"`
	Client     string   `json:"client"`
	Location   string   `json:"location"`
	AssignedTo string   `json:"assignedTo"`
	Date       string   `json:"date"`
	TimeSlot   TimeSlot `json:"timeSlot"`
	Notes      string   `json:"notes"`
}

func (r *CreateJobRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if validator.IsEmpty(r.Client) {
		errs = append(errs, validator.ValidationError{
			Field:   "client",
			Message: "client is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must use the YYYY-MM-DD format",
		})
	}

	if !r.TimeSlot.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "timeSlot",
			Message: "timeSlot must be one of morning, afternoon, evening",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReassignRequest models the drag-and-drop move: only the date and slot
// change, everything else on the job is left untouched.
type ReassignRequest struct {
	JobID    string   `json:"job_id"`
	Date     string   `json:"date"`
	TimeSlot TimeSlot `json:"timeSlot"`
}

func (r *ReassignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must use the YYYY-MM-DD format",
		})
	}

	if !r.TimeSlot.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "timeSlot",
			Message: "timeSlot must be one of morning, afternoon, evening",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

package attendance

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type ClockInRequest struct {
	WorkerID   string `json:"employee_id"`
	WorkerName string `json:"employee_name"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.WorkerName) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_name",
			Message: "employee_name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	EntryID string `json:"entry_id"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_id",
			Message: "entry_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

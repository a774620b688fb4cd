package worker

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type CreateWorkerRequest struct {
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (r *CreateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if !r.Role.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of installer, technician, driver, designer, admin",
		})
	}

	if !validator.IsEmpty(r.Email) && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetActiveRequest struct {
	WorkerID string `json:"worker_id"`
	Active   bool   `json:"active"`
}

func (r *SetActiveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_id",
			Message: "worker_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

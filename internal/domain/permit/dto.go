package permit

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type CreatePermitRequest struct {
	ClientName     string `json:"clientName"`
	ProjectName    string `json:"projectName"`
	PermitType     string `json:"permitType"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	SubmissionDate string `json:"submissionDate"`
	ExpirationDate string `json:"expirationDate"`
	PermitNumber   string `json:"permitNumber"`
	Notes          string `json:"notes"`
}

func (r *CreatePermitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ClientName) {
		errs = append(errs, validator.ValidationError{
			Field:   "clientName",
			Message: "clientName is required",
		})
	}

	if validator.IsEmpty(r.ProjectName) {
		errs = append(errs, validator.ValidationError{
			Field:   "projectName",
			Message: "projectName is required",
		})
	}

	if validator.IsEmpty(r.PermitType) {
		errs = append(errs, validator.ValidationError{
			Field:   "permitType",
			Message: "permitType is required",
		})
	}

	if !validator.IsEmpty(r.SubmissionDate) {
		if _, ok := validator.IsValidDate(r.SubmissionDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "submissionDate",
				Message: "submissionDate must use the YYYY-MM-DD format",
			})
		}
	}

	if !validator.IsEmpty(r.ExpirationDate) {
		if _, ok := validator.IsValidDate(r.ExpirationDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "expirationDate",
				Message: "expirationDate must use the YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateStatusRequest struct {
	PermitID string `json:"permit_id"`
	Status   Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PermitID) {
		errs = append(errs, validator.ValidationError{
			Field:   "permit_id",
			Message: "permit_id is required",
		})
	}

	if !r.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of draft, submitted, in_review, approved, denied, expired",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

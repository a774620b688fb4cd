package patrol

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/validator"
)

type CreateEntryRequest struct {
	EntryType       EntryType `json:"entryType"`
	ClientName      string    `json:"clientName"`
	SignDescription string    `json:"signDescription"`
	Notes           string    `json:"notes"`
	PhotoURL        string    `json:"photoUrl"`
}

func (r *CreateEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.EntryType.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "entryType",
			Message: "entryType must be prospect or falla",
		})
	}

	if validator.IsEmpty(r.SignDescription) {
		errs = append(errs, validator.ValidationError{
			Field:   "signDescription",
			Message: "signDescription is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

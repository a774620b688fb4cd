package permit

import "time"

// Status is the permit application workflow state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusInReview, StatusApproved, StatusDenied, StatusExpired:
		return true
	}
	return false
}

// CanTransition reports whether the workflow permits moving to next. Denied
// and expired are terminal; only approved permits expire.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusSubmitted
	case StatusSubmitted:
		return next == StatusInReview
	case StatusInReview:
		return next == StatusApproved || next == StatusDenied
	case StatusApproved:
		return next == StatusExpired
	}
	return false
}

// Permit is a regulatory permit application tracked for a client project.
type Permit struct {
	ID             string `json:"id,omitempty"`
	ClientName     string `json:"clientName"`
	ProjectName    string `json:"projectName"`
	PermitType     string `json:"permitType"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Status         Status `json:"status"`
	SubmissionDate string `json:"submissionDate"`
	ExpirationDate string `json:"expirationDate"`
	PermitNumber   string `json:"permitNumber"`
	Notes          string `json:"notes"`
	CreatedBy      string `json:"createdBy"`
	CreatedByEmail string `json:"createdByEmail"`
}

// ExpiringSoon reports whether the permit's expiration date falls within 30
// days of now. Permits without an expiration date never expire.
func (p Permit) ExpiringSoon(now time.Time) bool {
	if p.ExpirationDate == "" {
		return false
	}
	exp, err := time.Parse("2006-01-02", p.ExpirationDate)
	if err != nil {
		return false
	}
	until := exp.Sub(now)
	return until > 0 && until <= 30*24*time.Hour
}

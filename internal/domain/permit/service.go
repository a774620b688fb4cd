package permit

import "context"

// PermitService defines business logic for permit tracking
type PermitService interface {
	// CreatePermit opens a permit application in the draft state
	CreatePermit(ctx context.Context, req CreatePermitRequest) (string, error)

	// UpdateStatus advances the permit along the workflow
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) error

	// Permits returns the current snapshot, newest first
	Permits() []Permit

	// PermitsByStatus filters the snapshot by workflow state
	PermitsByStatus(status Status) []Permit
}

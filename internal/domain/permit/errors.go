package permit

import "errors"

// Permit domain errors
var (
	ErrPermitNotFound    = errors.New("permit not found")
	ErrInvalidTransition = errors.New("status transition not permitted")
)

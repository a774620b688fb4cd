package dispatch

import "errors"

// Dispatch domain errors
var (
	ErrJobNotFound = errors.New("dispatch job not found")
)

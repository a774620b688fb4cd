package ticket

import "errors"

// Ticket domain errors
var (
	ErrTicketNotFound    = errors.New("service ticket not found")
	ErrInvalidTransition = errors.New("status transition not permitted")
)

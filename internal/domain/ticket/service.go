package ticket

import "context"

// TicketService defines business logic for service ticket operations
type TicketService interface {
	// CreateTicket opens a ticket in the pending state
	CreateTicket(ctx context.Context, req CreateTicketRequest) (string, error)

	// UpdateStatus advances the ticket along the linear workflow
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) error

	// Tickets returns the current snapshot, newest first
	Tickets() []ServiceTicket

	// TicketsByStatus filters the snapshot by workflow state
	TicketsByStatus(status Status) []ServiceTicket
}

package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/ticket"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
)

// TicketsOrder lists newest tickets first.
var TicketsOrder = entitystore.OrderSpec{Field: "createdAt", Desc: true}

type TicketServiceImpl struct {
	store   entitystore.Store
	tickets *mirror.Handle
	logger  *slog.Logger
}

func NewTicketService(ctx context.Context, store entitystore.Store, mirrors *mirror.Manager, logger *slog.Logger) (*TicketServiceImpl, error) {
	handle, err := mirrors.Open(ctx, entitystore.CollectionServiceTickets, TicketsOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticket mirror: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketServiceImpl{
		store:   store,
		tickets: handle,
		logger:  logger,
	}, nil
}

// CreateTicket implements ticket.TicketService.
func (s *TicketServiceImpl) CreateTicket(ctx context.Context, req ticket.CreateTicketRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}

	t := ticket.ServiceTicket{
		ClientName:     req.ClientName,
		Location:       req.Location,
		Description:    req.Description,
		SignType:       req.SignType,
		Priority:       req.Priority,
		Status:         ticket.StatusPending,
		CreatedBy:      actor.ID,
		CreatedByEmail: actor.Email,
	}
	fields, err := entitystore.EncodeFields(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode ticket: %w", err)
	}

	id, err := s.store.Create(ctx, entitystore.CollectionServiceTickets, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create ticket: %w", err)
	}
	return id, nil
}

// UpdateStatus implements ticket.TicketService. Transitions outside the
// linear workflow are rejected before any store call.
func (s *TicketServiceImpl) UpdateStatus(ctx context.Context, req ticket.UpdateStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	current, ok := s.ticketByID(req.TicketID)
	if !ok {
		return ticket.ErrTicketNotFound
	}
	if !current.Status.CanTransition(req.Status) {
		return fmt.Errorf("%w: %s -> %s", ticket.ErrInvalidTransition, current.Status, req.Status)
	}

	err := s.store.Update(ctx, entitystore.CollectionServiceTickets, req.TicketID, entitystore.Fields{
		"status": string(req.Status),
	})
	if err != nil {
		if errors.Is(err, entitystore.ErrNotFound) {
			return ticket.ErrTicketNotFound
		}
		return fmt.Errorf("failed to update ticket %s: %w", req.TicketID, err)
	}
	return nil
}

// Tickets implements ticket.TicketService.
func (s *TicketServiceImpl) Tickets() []ticket.ServiceTicket {
	snap := s.tickets.Snapshot()
	tickets := make([]ticket.ServiceTicket, 0, len(snap))
	for _, doc := range snap {
		var t ticket.ServiceTicket
		if err := doc.Decode(&t); err != nil {
			s.logger.Warn("skipping undecodable ticket", "id", doc.ID, "error", err)
			continue
		}
		t.ID = doc.ID
		tickets = append(tickets, t)
	}
	return tickets
}

// TicketsByStatus implements ticket.TicketService.
func (s *TicketServiceImpl) TicketsByStatus(status ticket.Status) []ticket.ServiceTicket {
	filtered := []ticket.ServiceTicket{}
	for _, t := range s.Tickets() {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func (s *TicketServiceImpl) ticketByID(id string) (ticket.ServiceTicket, bool) {
	for _, t := range s.Tickets() {
		if t.ID == id {
			return t, true
		}
	}
	return ticket.ServiceTicket{}, false
}

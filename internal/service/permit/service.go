package permit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/permit"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
)

// PermitsOrder lists newest permits first.
var PermitsOrder = entitystore.OrderSpec{Field: "createdAt", Desc: true}

type PermitServiceImpl struct {
	store   entitystore.Store
	permits *mirror.Handle
	logger  *slog.Logger
}

func NewPermitService(ctx context.Context, store entitystore.Store, mirrors *mirror.Manager, logger *slog.Logger) (*PermitServiceImpl, error) {
	handle, err := mirrors.Open(ctx, entitystore.CollectionPermits, PermitsOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to open permit mirror: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PermitServiceImpl{
		store:   store,
		permits: handle,
		logger:  logger,
	}, nil
}

// CreatePermit implements permit.PermitService.
func (s *PermitServiceImpl) CreatePermit(ctx context.Context, req permit.CreatePermitRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}

	p := permit.Permit{
		ClientName:     req.ClientName,
		ProjectName:    req.ProjectName,
		PermitType:     req.PermitType,
		Location:       req.Location,
		Description:    req.Description,
		Status:         permit.StatusDraft,
		SubmissionDate: req.SubmissionDate,
		ExpirationDate: req.ExpirationDate,
		PermitNumber:   req.PermitNumber,
		Notes:          req.Notes,
		CreatedBy:      actor.ID,
		CreatedByEmail: actor.Email,
	}
	fields, err := entitystore.EncodeFields(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode permit: %w", err)
	}

	id, err := s.store.Create(ctx, entitystore.CollectionPermits, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create permit: %w", err)
	}
	return id, nil
}

// UpdateStatus implements permit.PermitService.
func (s *PermitServiceImpl) UpdateStatus(ctx context.Context, req permit.UpdateStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	current, ok := s.permitByID(req.PermitID)
	if !ok {
		return permit.ErrPermitNotFound
	}
	if !current.Status.CanTransition(req.Status) {
		return fmt.Errorf("%w: %s -> %s", permit.ErrInvalidTransition, current.Status, req.Status)
	}

	err := s.store.Update(ctx, entitystore.CollectionPermits, req.PermitID, entitystore.Fields{
		"status": string(req.Status),
	})
	if err != nil {
		if errors.Is(err, entitystore.ErrNotFound) {
			return permit.ErrPermitNotFound
		}
		return fmt.Errorf("failed to update permit %s: %w", req.PermitID, err)
	}
	return nil
}

// Permits implements permit.PermitService.
func (s *PermitServiceImpl) Permits() []permit.Permit {
	snap := s.permits.Snapshot()
	permits := make([]permit.Permit, 0, len(snap))
	for _, doc := range snap {
		var p permit.Permit
		if err := doc.Decode(&p); err != nil {
			s.logger.Warn("skipping undecodable permit", "id", doc.ID, "error", err)
			continue
		}
		p.ID = doc.ID
		permits = append(permits, p)
	}
	return permits
}

// PermitsByStatus implements permit.PermitService.
func (s *PermitServiceImpl) PermitsByStatus(status permit.Status) []permit.Permit {
	filtered := []permit.Permit{}
	for _, p := range s.Permits() {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (s *PermitServiceImpl) permitByID(id string) (permit.Permit, bool) {
	for _, p := range s.Permits() {
		if p.ID == id {
			return p, true
		}
	}
	return permit.Permit{}, false
}

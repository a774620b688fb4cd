package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/worker"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
)

// RosterOrder is the subscription order for the roster mirror.
var RosterOrder = entitystore.OrderSpec{Field: "name"}

type RosterServiceImpl struct {
	store   entitystore.Store
	workers *mirror.Handle
	logger  *slog.Logger
}

// NewRosterService opens the worker mirror and returns the roster service
// bound to it.
func NewRosterService(ctx context.Context, store entitystore.Store, mirrors *mirror.Manager, logger *slog.Logger) (*RosterServiceImpl, error) {
	handle, err := mirrors.Open(ctx, entitystore.CollectionWorkers, RosterOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster mirror: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterServiceImpl{
		store:   store,
		workers: handle,
		logger:  logger,
	}, nil
}

// CreateWorker implements worker.RosterService.
func (s *RosterServiceImpl) CreateWorker(ctx context.Context, req worker.CreateWorkerRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}

	w := worker.Worker{
		Name:      req.Name,
		Role:      req.Role,
		Phone:     req.Phone,
		Email:     req.Email,
		Active:    true,
		CreatedBy: actor.ID,
	}
	fields, err := entitystore.EncodeFields(w)
	if err != nil {
		return "", fmt.Errorf("failed to encode worker: %w", err)
	}

	id, err := s.store.Create(ctx, entitystore.CollectionWorkers, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create worker: %w", err)
	}
	return id, nil
}

// SetActive implements worker.RosterService. Workers are never hard-deleted;
// this toggles the soft lifecycle flag.
func (s *RosterServiceImpl) SetActive(ctx context.Context, req worker.SetActiveRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.store.Update(ctx, entitystore.CollectionWorkers, req.WorkerID, entitystore.Fields{
		"active": req.Active,
	})
	if err != nil {
		if errors.Is(err, entitystore.ErrNotFound) {
			return worker.ErrWorkerNotFound
		}
		return fmt.Errorf("failed to update worker %s: %w", req.WorkerID, err)
	}
	return nil
}

// Workers implements worker.RosterService.
func (s *RosterServiceImpl) Workers() []worker.Worker {
	snap := s.workers.Snapshot()
	roster := make([]worker.Worker, 0, len(snap))
	for _, doc := range snap {
		var w worker.Worker
		if err := doc.Decode(&w); err != nil {
			s.logger.Warn("skipping undecodable worker", "id", doc.ID, "error", err)
			continue
		}
		w.ID = doc.ID
		roster = append(roster, w)
	}
	return roster
}

// WorkerByID implements worker.RosterService.
func (s *RosterServiceImpl) WorkerByID(id string) (worker.Worker, bool) {
	for _, w := range s.Workers() {
		if w.ID == id {
			return w, true
		}
	}
	return worker.Worker{}, false
}

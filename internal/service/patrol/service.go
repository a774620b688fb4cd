package patrol

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/patrol"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
)

// EntriesOrder lists newest reports first.
var EntriesOrder = entitystore.OrderSpec{Field: "createdAt", Desc: true}

type PatrolServiceImpl struct {
	store   entitystore.Store
	entries *mirror.Handle
	logger  *slog.Logger
}

func NewPatrolService(ctx context.Context, store entitystore.Store, mirrors *mirror.Manager, logger *slog.Logger) (*PatrolServiceImpl, error) {
	handle, err := mirrors.Open(ctx, entitystore.CollectionPatrolEntries, EntriesOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to open patrol mirror: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PatrolServiceImpl{
		store:   store,
		entries: handle,
		logger:  logger,
	}, nil
}

// CreateEntry implements patrol.PatrolService. The location read is the
// first suspension point; the store write happens only after it succeeds.
func (s *PatrolServiceImpl) CreateEntry(ctx context.Context, req patrol.CreateEntryRequest, loc location.Locator) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}

	point, err := loc.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("patrol report aborted before any write: %w", err)
	}

	entry := patrol.Entry{
		EntryType:       req.EntryType,
		ClientName:      req.ClientName,
		SignDescription: req.SignDescription,
		Notes:           req.Notes,
		PhotoURL:        req.PhotoURL,
		Location:        point,
		CreatedBy:       actor.ID,
		CreatedByEmail:  actor.Email,
	}
	fields, err := entitystore.EncodeFields(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode patrol entry: %w", err)
	}

	id, err := s.store.Create(ctx, entitystore.CollectionPatrolEntries, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create patrol entry: %w", err)
	}
	return id, nil
}

// Entries implements patrol.PatrolService.
func (s *PatrolServiceImpl) Entries() []patrol.Entry {
	snap := s.entries.Snapshot()
	entries := make([]patrol.Entry, 0, len(snap))
	for _, doc := range snap {
		var entry patrol.Entry
		if err := doc.Decode(&entry); err != nil {
			s.logger.Warn("skipping undecodable patrol entry", "id", doc.ID, "error", err)
			continue
		}
		entry.ID = doc.ID
		entries = append(entries, entry)
	}
	return entries
}

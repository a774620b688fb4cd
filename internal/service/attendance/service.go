package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/attendance"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/worker"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
	workerService "github.com/rotulos-pr/fieldops-backend-go/internal/service/worker"
)

// EntriesOrder is the subscription order for the attendance mirror: newest
// clock-in first, matching the operator view.
var EntriesOrder = entitystore.OrderSpec{Field: "clockIn", Desc: true}

type EngineImpl struct {
	store   entitystore.Store
	entries *mirror.Handle
	roster  *mirror.Handle
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine opens the attendance-entries mirror plus the worker roster and
// returns the engine bound to both. The roster shares its subscription with
// the roster service through the manager.
func NewEngine(ctx context.Context, store entitystore.Store, mirrors *mirror.Manager, logger *slog.Logger) (*EngineImpl, error) {
	entries, err := mirrors.Open(ctx, entitystore.CollectionAttendanceEntries, EntriesOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to open attendance mirror: %w", err)
	}
	roster, err := mirrors.Open(ctx, entitystore.CollectionWorkers, workerService.RosterOrder)
	if err != nil {
		entries.Close()
		return nil, fmt.Errorf("failed to open roster mirror: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EngineImpl{
		store:   store,
		entries: entries,
		roster:  roster,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// ClockIn implements attendance.Engine. The precondition check and the store
// write are not atomic across clients; two instances can both pass the check.
// ActiveEntryFor reconciles that case by surfacing the most recent entry.
func (e *EngineImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest, loc location.Locator) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}

	// The request only names a worker id; the roster mirror vouches that it
	// belongs to a real, active crew member before anything is written.
	member, ok := e.rosterWorker(req.WorkerID)
	if !ok {
		return "", worker.ErrWorkerNotFound
	}
	if !member.Active {
		return "", attendance.ErrWorkerInactive
	}

	if _, open := e.ActiveEntryFor(req.WorkerID); open {
		return "", attendance.ErrAlreadyClockedIn
	}

	point, err := loc.Current(ctx)
	if err != nil {
		return "", fmt.Errorf("clock-in aborted before any write: %w", err)
	}

	entry := attendance.Entry{
		WorkerID:        req.WorkerID,
		WorkerName:      req.WorkerName,
		ClockIn:         e.now(),
		ClockInLocation: point,
		CreatedBy:       actor.ID,
	}
	fields, err := entitystore.EncodeFields(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode attendance entry: %w", err)
	}

	id, err := e.store.Create(ctx, entitystore.CollectionAttendanceEntries, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create attendance entry: %w", err)
	}
	return id, nil
}

// ClockOut implements attendance.Engine. The update is issued only after the
// location read succeeds, so a location failure leaves no partial write.
func (e *EngineImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest, loc location.Locator) error {
	if err := req.Validate(); err != nil {
		return err
	}

	entry, ok := e.entryByID(req.EntryID)
	if !ok {
		return attendance.ErrEntryNotFound
	}
	if !entry.Open() {
		return attendance.ErrNotClockedIn
	}

	point, err := loc.Current(ctx)
	if err != nil {
		return fmt.Errorf("clock-out aborted before any write: %w", err)
	}

	err = e.store.Update(ctx, entitystore.CollectionAttendanceEntries, req.EntryID, entitystore.Fields{
		"clockOut":           e.now(),
		"clockOutLocation":   point,
		"displacementMeters": location.Distance(entry.ClockInLocation, point),
	})
	if err != nil {
		return fmt.Errorf("failed to close attendance entry: %w", err)
	}
	return nil
}

// ActiveEntryFor implements attendance.Engine. A snapshot holding more than
// one open entry for the worker is a detected invariant violation: it is
// logged and the most recent entry by clock-in time is surfaced; the older
// duplicates are left for operator reconciliation.
func (e *EngineImpl) ActiveEntryFor(workerID string) (attendance.Entry, bool) {
	var open []attendance.Entry
	for _, entry := range e.Entries() {
		if entry.WorkerID == workerID && entry.Open() {
			open = append(open, entry)
		}
	}
	if len(open) == 0 {
		return attendance.Entry{}, false
	}
	if len(open) > 1 {
		e.logger.Error("attendance invariant violated",
			"worker_id", workerID,
			"open_entries", len(open),
			"error", attendance.ErrInvariantDetected)
	}

	latest := open[0]
	for _, entry := range open[1:] {
		if entry.ClockIn.After(latest.ClockIn) {
			latest = entry
		}
	}
	return latest, true
}

// StateFor implements attendance.Engine.
func (e *EngineImpl) StateFor(workerID string) attendance.State {
	if _, open := e.ActiveEntryFor(workerID); open {
		return attendance.StateClockedIn
	}
	return attendance.StateClockedOut
}

// Entries implements attendance.Engine.
func (e *EngineImpl) Entries() []attendance.Entry {
	snap := e.entries.Snapshot()
	entries := make([]attendance.Entry, 0, len(snap))
	for _, doc := range snap {
		var entry attendance.Entry
		if err := doc.Decode(&entry); err != nil {
			e.logger.Warn("skipping undecodable attendance entry", "id", doc.ID, "error", err)
			continue
		}
		entry.ID = doc.ID
		entries = append(entries, entry)
	}
	return entries
}

// Degraded implements attendance.Engine. Either stream failing leaves the
// engine serving stale state.
func (e *EngineImpl) Degraded() bool {
	return e.entries.Degraded() || e.roster.Degraded()
}

func (e *EngineImpl) rosterWorker(id string) (worker.Worker, bool) {
	for _, doc := range e.roster.Snapshot() {
		if doc.ID != id {
			continue
		}
		var member worker.Worker
		if err := doc.Decode(&member); err != nil {
			e.logger.Warn("skipping undecodable worker", "id", doc.ID, "error", err)
			return worker.Worker{}, false
		}
		member.ID = doc.ID
		return member, true
	}
	return worker.Worker{}, false
}

func (e *EngineImpl) entryByID(id string) (attendance.Entry, bool) {
	for _, entry := range e.Entries() {
		if entry.ID == id {
			return entry, true
		}
	}
	return attendance.Entry{}, false
}

package attendance

import (
	"context"

	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
)

// Engine enforces the single-open-entry invariant and performs clock-in and
// clock-out as two-step operations: location read first, store write second.
// A failed location read leaves no trace in the store.
type Engine interface {
	// ClockIn creates an open entry for the worker. Fails pre-flight with
	// ErrAlreadyClockedIn when the current snapshot already holds an open
	// entry for that worker.
	ClockIn(ctx context.Context, req ClockInRequest, loc location.Locator) (string, error)

	// ClockOut closes the entry, stamping the clock-out time and location
	ClockOut(ctx context.Context, req ClockOutRequest, loc location.Locator) error

	// ActiveEntryFor returns the worker's open entry, if any. When the
	// snapshot holds more than one open entry the most recent by clock-in
	// time is surfaced and the violation is logged.
	ActiveEntryFor(workerID string) (Entry, bool)

	// StateFor derives the worker's presence state from the snapshot
	StateFor(workerID string) State

	// Entries returns the current entry snapshot, newest clock-in first
	Entries() []Entry

	// Degraded reports whether the entry mirror is serving stale data
	Degraded() bool
}

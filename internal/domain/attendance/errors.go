package attendance

import "errors"

// Attendance domain errors
var (
	// Pre-flight state machine rejections: no store call is made.
	ErrAlreadyClockedIn = errors.New("worker already has an open attendance entry")
	ErrNotClockedIn     = errors.New("worker has no open attendance entry")
	ErrWorkerInactive   = errors.New("worker is inactive on the roster")

	ErrEntryNotFound = errors.New("attendance entry not found")

	// ErrInvariantDetected marks the recovery path: a consistent snapshot held
	// more than one open entry for the same worker.
	ErrInvariantDetected = errors.New("multiple open attendance entries detected for worker")
)

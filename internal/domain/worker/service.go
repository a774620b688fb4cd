package worker

import "context"

// RosterService defines business logic for roster management
type RosterService interface {
	// CreateWorker adds a worker to the roster with active=true
	CreateWorker(ctx context.Context, req CreateWorkerRequest) (string, error)

	// SetActive toggles a worker's soft lifecycle flag
	SetActive(ctx context.Context, req SetActiveRequest) error

	// Workers returns the current roster ordered by name
	Workers() []Worker

	// WorkerByID looks a worker up in the current roster snapshot
	WorkerByID(id string) (Worker, bool)
}

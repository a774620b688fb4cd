package dispatch

import "context"

// SchedulerService projects the job collection onto the weekly grid and
// handles create, delete and drag reassignment.
type SchedulerService interface {
	// CreateJob validates required fields and creates a scheduled job with
	// the actor stamped as creator
	CreateJob(ctx context.Context, req CreateJobRequest) (string, error)

	// Reassign moves a job to a new (date, slot) bucket. Last write wins;
	// there is no conflict detection against concurrent moves.
	Reassign(ctx context.Context, req ReassignRequest) error

	// DeleteJob removes a job. The confirmation step is owned by the shell.
	DeleteJob(ctx context.Context, jobID string) error

	// JobsFor returns the jobs in one (date, slot) bucket in snapshot order
	JobsFor(date string, slot TimeSlot) []DispatchJob

	// Jobs returns the full current job snapshot
	Jobs() []DispatchJob

	// Degraded reports whether the job mirror is serving stale data
	Degraded() bool
}

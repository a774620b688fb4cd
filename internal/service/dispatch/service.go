package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/dispatch"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
)

// JobsOrder is the subscription order for the job mirror: date ascending,
// ties by insertion order.
var JobsOrder = entitystore.OrderSpec{Field: "date"}

type SchedulerImpl struct {
	store  entitystore.Store
	jobs   *mirror.Handle
	logger *slog.Logger
}

// NewScheduler opens the dispatch-jobs mirror and returns the scheduler
// bound to it.
func NewScheduler(ctx context.Context, store entitystore.Store, mirrors *mirror.Manager, logger *slog.Logger) (*SchedulerImpl, error) {
	handle, err := mirrors.Open(ctx, entitystore.CollectionDispatchJobs, JobsOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to open dispatch mirror: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SchedulerImpl{
		store:  store,
		jobs:   handle,
		logger: logger,
	}, nil
}

// CreateJob implements dispatch.SchedulerService.
func (s *SchedulerImpl) CreateJob(ctx context.Context, req dispatch.CreateJobRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	actor, err := identity.FromContext(ctx)
	if err != nil {
		return "", err
	}

	job := dispatch.DispatchJob{
		Title:      req.Title,
		Client:     req.Client,
		Location:   req.Location,
		AssignedTo: req.AssignedTo,
		Date:       req.Date,
		TimeSlot:   req.TimeSlot,
		Notes:      req.Notes,
		Status:     dispatch.StatusScheduled,
		CreatedBy:  actor.ID,
	}
	fields, err := entitystore.EncodeFields(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode dispatch job: %w", err)
	}

	id, err := s.store.Create(ctx, entitystore.CollectionDispatchJobs, fields)
	if err != nil {
		return "", fmt.Errorf("failed to create dispatch job: %w", err)
	}
	return id, nil
}

// Reassign implements dispatch.SchedulerService. Only date and timeSlot are
// written; the overwrite is unconditional, last write wins.
func (s *SchedulerImpl) Reassign(ctx context.Context, req dispatch.ReassignRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.store.Update(ctx, entitystore.CollectionDispatchJobs, req.JobID, entitystore.Fields{
		"date":     req.Date,
		"timeSlot": string(req.TimeSlot),
	})
	if err != nil {
		if errors.Is(err, entitystore.ErrNotFound) {
			return dispatch.ErrJobNotFound
		}
		return fmt.Errorf("failed to reassign job %s: %w", req.JobID, err)
	}
	return nil
}

// DeleteJob implements dispatch.SchedulerService.
func (s *SchedulerImpl) DeleteJob(ctx context.Context, jobID string) error {
	if err := s.store.Delete(ctx, entitystore.CollectionDispatchJobs, jobID); err != nil {
		if errors.Is(err, entitystore.ErrNotFound) {
			return dispatch.ErrJobNotFound
		}
		return fmt.Errorf("failed to delete job %s: %w", jobID, err)
	}
	return nil
}

// JobsFor implements dispatch.SchedulerService. A job with an empty date
// never matches any bucket.
func (s *SchedulerImpl) JobsFor(date string, slot dispatch.TimeSlot) []dispatch.DispatchJob {
	matched := []dispatch.DispatchJob{}
	for _, job := range s.Jobs() {
		if job.Date == "" {
			continue
		}
		if job.Date == date && job.TimeSlot == slot {
			matched = append(matched, job)
		}
	}
	return matched
}

// Jobs implements dispatch.SchedulerService.
func (s *SchedulerImpl) Jobs() []dispatch.DispatchJob {
	snap := s.jobs.Snapshot()
	jobs := make([]dispatch.DispatchJob, 0, len(snap))
	for _, doc := range snap {
		var job dispatch.DispatchJob
		if err := doc.Decode(&job); err != nil {
			s.logger.Warn("skipping undecodable dispatch job", "id", doc.ID, "error", err)
			continue
		}
		job.ID = doc.ID
		jobs = append(jobs, job)
	}
	return jobs
}

// Degraded implements dispatch.SchedulerService.
func (s *SchedulerImpl) Degraded() bool {
	return s.jobs.Degraded()
}

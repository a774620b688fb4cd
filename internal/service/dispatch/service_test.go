package dispatch

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/dispatch"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore/memory"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testActorContext() context.Context {
	return identity.WithActor(context.Background(), identity.Actor{
		ID:    "admin-1",
		Email: "ops@rotulospr.test",
	})
}

func newTestScheduler(t *testing.T) (*SchedulerImpl, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mirrors := mirror.NewManager(store, logger)
	t.Cleanup(mirrors.Close)

	scheduler, err := NewScheduler(context.Background(), store, mirrors, logger)
	require.NoError(t, err)
	return scheduler, store
}

func createTestJob(t *testing.T, s *SchedulerImpl, title, date string, slot dispatch.TimeSlot) string {
	t.Helper()
	id, err := s.CreateJob(testActorContext(), dispatch.CreateJobRequest{
		Title:    title,
		Client:   "Farmacia Central",
		Date:     date,
		TimeSlot: slot,
	})
	require.NoError(t, err)
	return id
}

func waitForJobs(t *testing.T, s *SchedulerImpl, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(s.Jobs()) == n
	}, time.Second, 10*time.Millisecond)
}

func TestCreateJobStampsDefaults(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	id := createTestJob(t, scheduler, "Install storefront sign", "2026-03-02", dispatch.SlotMorning)
	waitForJobs(t, scheduler, 1)

	jobs := scheduler.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, dispatch.StatusScheduled, jobs[0].Status)
	assert.Equal(t, "admin-1", jobs[0].CreatedBy)
}

func TestCreateJobValidation(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	tests := []struct {
		name string
		req  dispatch.CreateJobRequest
	}{
		{
			name: "missing title",
			req:  dispatch.CreateJobRequest{Client: "c", Date: "2026-03-02", TimeSlot: dispatch.SlotMorning},
		},
		{
			name: "bad date format",
			req:  dispatch.CreateJobRequest{Title: "t", Client: "c", Date: "03/02/2026", TimeSlot: dispatch.SlotMorning},
		},
		{
			name: "unknown slot",
			req:  dispatch.CreateJobRequest{Title: "t", Client: "c", Date: "2026-03-02", TimeSlot: "midnight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scheduler.CreateJob(testActorContext(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestJobsForBucketsByDateAndSlot(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	a := createTestJob(t, scheduler, "Job A", "2026-03-02", dispatch.SlotMorning)
	b := createTestJob(t, scheduler, "Job B", "2026-03-02", dispatch.SlotMorning)
	createTestJob(t, scheduler, "Job C", "2026-03-02", dispatch.SlotEvening)
	createTestJob(t, scheduler, "Job D", "2026-03-03", dispatch.SlotMorning)
	waitForJobs(t, scheduler, 4)

	morning := scheduler.JobsFor("2026-03-02", dispatch.SlotMorning)
	require.Len(t, morning, 2)
	assert.Equal(t, a, morning[0].ID)
	assert.Equal(t, b, morning[1].ID)

	assert.Len(t, scheduler.JobsFor("2026-03-02", dispatch.SlotAfternoon), 0)
	assert.Len(t, scheduler.JobsFor("2026-03-04", dispatch.SlotMorning), 0)
}

func TestJobsForSkipsEmptyDate(t *testing.T) {
	scheduler, store := newTestScheduler(t)

	// A document written without a date (by an older client) must never land
	// in any bucket.
	_, err := store.Create(context.Background(), entitystore.CollectionDispatchJobs, entitystore.Fields{
		"title":    "Dateless job",
		"client":   "c",
		"date":     "",
		"timeSlot": string(dispatch.SlotMorning),
		"status":   string(dispatch.StatusScheduled),
	})
	require.NoError(t, err)
	waitForJobs(t, scheduler, 1)

	assert.Len(t, scheduler.JobsFor("", dispatch.SlotMorning), 0)
	assert.Len(t, scheduler.JobsFor("2026-03-02", dispatch.SlotMorning), 0)
}

func TestReassignMovesBucket(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	id := createTestJob(t, scheduler, "Job A", "2026-03-02", dispatch.SlotMorning)
	waitForJobs(t, scheduler, 1)

	require.NoError(t, scheduler.Reassign(testActorContext(), dispatch.ReassignRequest{
		JobID:    id,
		Date:     "2026-03-05",
		TimeSlot: dispatch.SlotAfternoon,
	}))

	require.Eventually(t, func() bool {
		return len(scheduler.JobsFor("2026-03-05", dispatch.SlotAfternoon)) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Len(t, scheduler.JobsFor("2026-03-02", dispatch.SlotMorning), 0)

	// Only placement changed.
	moved := scheduler.JobsFor("2026-03-05", dispatch.SlotAfternoon)[0]
	assert.Equal(t, "Job A", moved.Title)
	assert.Equal(t, dispatch.StatusScheduled, moved.Status)
}

func TestReassignUnknownJob(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	err := scheduler.Reassign(testActorContext(), dispatch.ReassignRequest{
		JobID:    "missing",
		Date:     "2026-03-05",
		TimeSlot: dispatch.SlotMorning,
	})
	assert.ErrorIs(t, err, dispatch.ErrJobNotFound)
}

func TestDeleteJobRemovesEverywhere(t *testing.T) {
	scheduler, _ := newTestScheduler(t)

	id := createTestJob(t, scheduler, "Job A", "2026-03-02", dispatch.SlotMorning)
	waitForJobs(t, scheduler, 1)

	require.NoError(t, scheduler.DeleteJob(testActorContext(), id))
	waitForJobs(t, scheduler, 0)
	assert.Len(t, scheduler.JobsFor("2026-03-02", dispatch.SlotMorning), 0)
}

func TestDegradedAfterStreamFailure(t *testing.T) {
	scheduler, store := newTestScheduler(t)

	createTestJob(t, scheduler, "Job A", "2026-03-02", dispatch.SlotMorning)
	waitForJobs(t, scheduler, 1)

	store.FailSubscriptions(entitystore.CollectionDispatchJobs, assert.AnError)

	require.Eventually(t, scheduler.Degraded, time.Second, 10*time.Millisecond)
	assert.Len(t, scheduler.Jobs(), 1, "stale snapshot keeps serving")
}

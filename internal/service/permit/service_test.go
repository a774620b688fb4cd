package permit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/permit"
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

func newTestService(t *testing.T) *PermitServiceImpl {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mirrors := mirror.NewManager(store, logger)
	t.Cleanup(mirrors.Close)

	svc, err := NewPermitService(context.Background(), store, mirrors, logger)
	require.NoError(t, err)
	return svc
}

func createTestPermit(t *testing.T, svc *PermitServiceImpl, expiration string) string {
	t.Helper()
	id, err := svc.CreatePermit(testActorContext(), permit.CreatePermitRequest{
		ClientName:     "Hotel Plaza",
		ProjectName:    "Rooftop pylon",
		PermitType:     "electrical",
		Location:       "San Juan",
		ExpirationDate: expiration,
	})
	require.NoError(t, err)
	return id
}

func waitForPermit(t *testing.T, svc *PermitServiceImpl, id string, status permit.Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		p, ok := svc.permitByID(id)
		return ok && p.Status == status
	}, time.Second, 10*time.Millisecond)
}

func advance(t *testing.T, svc *PermitServiceImpl, id string, statuses ...permit.Status) {
	t.Helper()
	for _, status := range statuses {
		require.NoError(t, svc.UpdateStatus(testActorContext(), permit.UpdateStatusRequest{PermitID: id, Status: status}))
		waitForPermit(t, svc, id, status)
	}
}

func TestCreatePermitStartsAsDraft(t *testing.T) {
	svc := newTestService(t)

	id := createTestPermit(t, svc, "")
	waitForPermit(t, svc, id, permit.StatusDraft)

	p, ok := svc.permitByID(id)
	require.True(t, ok)
	assert.Equal(t, "admin-1", p.CreatedBy)
}

func TestApprovalWorkflow(t *testing.T) {
	svc := newTestService(t)

	id := createTestPermit(t, svc, "")
	waitForPermit(t, svc, id, permit.StatusDraft)

	advance(t, svc, id, permit.StatusSubmitted, permit.StatusInReview, permit.StatusApproved, permit.StatusExpired)

	// Expired is terminal.
	err := svc.UpdateStatus(testActorContext(), permit.UpdateStatusRequest{PermitID: id, Status: permit.StatusApproved})
	assert.ErrorIs(t, err, permit.ErrInvalidTransition)
}

func TestDenialIsTerminal(t *testing.T) {
	svc := newTestService(t)

	id := createTestPermit(t, svc, "")
	waitForPermit(t, svc, id, permit.StatusDraft)
	advance(t, svc, id, permit.StatusSubmitted, permit.StatusInReview, permit.StatusDenied)

	err := svc.UpdateStatus(testActorContext(), permit.UpdateStatusRequest{PermitID: id, Status: permit.StatusApproved})
	assert.ErrorIs(t, err, permit.ErrInvalidTransition)
}

func TestDraftCannotJumpAhead(t *testing.T) {
	svc := newTestService(t)

	id := createTestPermit(t, svc, "")
	waitForPermit(t, svc, id, permit.StatusDraft)

	err := svc.UpdateStatus(testActorContext(), permit.UpdateStatusRequest{PermitID: id, Status: permit.StatusApproved})
	assert.ErrorIs(t, err, permit.ErrInvalidTransition)
}

func TestUpdateStatusUnknownPermit(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateStatus(testActorContext(), permit.UpdateStatusRequest{PermitID: "missing", Status: permit.StatusSubmitted})
	assert.ErrorIs(t, err, permit.ErrPermitNotFound)
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		expiration string
		want       bool
	}{
		{name: "inside the 30 day window", expiration: "2026-03-20", want: true},
		{name: "outside the window", expiration: "2026-06-01", want: false},
		{name: "already past", expiration: "2026-02-01", want: false},
		{name: "no expiration date", expiration: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := permit.Permit{ExpirationDate: tt.expiration}
			assert.Equal(t, tt.want, p.ExpiringSoon(now))
		})
	}
}

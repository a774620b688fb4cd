package patrol

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/identity"
	"github.com/rotulos-pr/fieldops-backend-go/internal/domain/patrol"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore/memory"
	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
	"github.com/rotulos-pr/fieldops-backend-go/internal/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPoint = location.Point{Latitude: 18.4037, Longitude: -66.0636}

func testActorContext() context.Context {
	return identity.WithActor(context.Background(), identity.Actor{
		ID:    "patroller-1",
		Email: "patrol@rotulospr.test",
	})
}

func newTestService(t *testing.T) *PatrolServiceImpl {
	t.Helper()
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mirrors := mirror.NewManager(store, logger)
	t.Cleanup(mirrors.Close)

	svc, err := NewPatrolService(context.Background(), store, mirrors, logger)
	require.NoError(t, err)
	return svc
}

func TestCreateEntryCapturesLocation(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.CreateEntry(testActorContext(), patrol.CreateEntryRequest{
		EntryType:       patrol.TypeFault,
		ClientName:      "Ferreteria Ortiz",
		SignDescription: "Cabinet sign dark on the left half",
	}, location.Static(testPoint))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Eventually(t, func() bool {
		return len(svc.Entries()) == 1
	}, time.Second, 10*time.Millisecond)

	entry := svc.Entries()[0]
	assert.Equal(t, id, entry.ID)
	assert.Equal(t, patrol.TypeFault, entry.EntryType)
	assert.Equal(t, testPoint, entry.Location)
	assert.Equal(t, "patroller-1", entry.CreatedBy)
}

func TestCreateEntryLocationFailureWritesNothing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateEntry(testActorContext(), patrol.CreateEntryRequest{
		EntryType:       patrol.TypeProspect,
		SignDescription: "Empty facade, good visibility from the avenue",
	}, location.Failing(location.ErrPermissionDenied))
	require.ErrorIs(t, err, location.ErrPermissionDenied)

	assert.Len(t, svc.Entries(), 0)
}

func TestCreateEntryValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateEntry(testActorContext(), patrol.CreateEntryRequest{
		EntryType: patrol.TypeProspect,
	}, location.Static(testPoint))
	assert.Error(t, err, "signDescription is required")

	_, err = svc.CreateEntry(testActorContext(), patrol.CreateEntryRequest{
		EntryType:       "sighting",
		SignDescription: "x",
	}, location.Static(testPoint))
	assert.Error(t, err, "unknown entry type")
}

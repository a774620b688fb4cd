package memory

import (
	"context"
	"testing"
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = entitystore.Collection("things")

func TestCreateAssignsIdentityAndTimestamps(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.Create(ctx, testCollection, entitystore.Fields{"name": "a"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	sub, err := s.Subscribe(ctx, testCollection, entitystore.OrderSpec{})
	require.NoError(t, err)
	defer sub.Close()

	snap := <-sub.Snapshots()
	require.Len(t, snap, 1)
	assert.Equal(t, id, snap[0].ID)
	assert.False(t, snap[0].CreatedAt.IsZero())
	assert.Equal(t, snap[0].CreatedAt, snap[0].UpdatedAt)
}

func TestUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.Create(ctx, testCollection, entitystore.Fields{"name": "a", "active": true})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, testCollection, id, entitystore.Fields{"active": false}))

	sub, err := s.Subscribe(ctx, testCollection, entitystore.OrderSpec{})
	require.NoError(t, err)
	defer sub.Close()

	snap := <-sub.Snapshots()
	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].Fields["name"], "untouched fields must survive a merge")
	assert.Equal(t, false, snap[0].Fields["active"])
}

func TestUpdateAndDeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	err := s.Update(ctx, testCollection, "missing", entitystore.Fields{"x": 1})
	assert.ErrorIs(t, err, entitystore.ErrNotFound)

	err = s.Delete(ctx, testCollection, "missing")
	assert.ErrorIs(t, err, entitystore.ErrNotFound)
}

func TestUnavailableFailsEveryOperation(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.Create(ctx, testCollection, entitystore.Fields{"name": "a"})
	require.NoError(t, err)

	s.SetUnavailable(true)

	_, err = s.Create(ctx, testCollection, entitystore.Fields{"name": "b"})
	assert.ErrorIs(t, err, entitystore.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Update(ctx, testCollection, id, entitystore.Fields{"name": "c"}), entitystore.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Delete(ctx, testCollection, id), entitystore.ErrStoreUnavailable)
	_, err = s.Subscribe(ctx, testCollection, entitystore.OrderSpec{})
	assert.ErrorIs(t, err, entitystore.ErrStoreUnavailable)

	s.SetUnavailable(false)
	_, err = s.Create(ctx, testCollection, entitystore.Fields{"name": "b"})
	assert.NoError(t, err)
}

func TestSnapshotOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, name := range []string{"charlie", "alice", "bob"} {
		_, err := s.Create(ctx, testCollection, entitystore.Fields{"name": name})
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		order entitystore.OrderSpec
		want  []string
	}{
		{
			name:  "ascending by field",
			order: entitystore.OrderSpec{Field: "name"},
			want:  []string{"alice", "bob", "charlie"},
		},
		{
			name:  "descending by field",
			order: entitystore.OrderSpec{Field: "name", Desc: true},
			want:  []string{"charlie", "bob", "alice"},
		},
		{
			name:  "zero order falls back to insertion order",
			order: entitystore.OrderSpec{},
			want:  []string{"charlie", "alice", "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := s.Subscribe(ctx, testCollection, tt.order)
			require.NoError(t, err)
			defer sub.Close()

			snap := <-sub.Snapshots()
			got := make([]string, 0, len(snap))
			for _, doc := range snap {
				got = append(got, doc.Fields["name"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderByCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	first, err := s.Create(ctx, testCollection, entitystore.Fields{"name": "first"})
	require.NoError(t, err)
	second, err := s.Create(ctx, testCollection, entitystore.Fields{"name": "second"})
	require.NoError(t, err)

	sub, err := s.Subscribe(ctx, testCollection, entitystore.OrderSpec{Field: entitystore.FieldCreatedAt, Desc: true})
	require.NoError(t, err)
	defer sub.Close()

	snap := <-sub.Snapshots()
	require.Len(t, snap, 2)
	assert.Equal(t, second, snap[0].ID)
	assert.Equal(t, first, snap[1].ID)
}

func TestDeliveryCoalescesToLatest(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	sub, err := s.Subscribe(ctx, testCollection, entitystore.OrderSpec{})
	require.NoError(t, err)
	defer sub.Close()

	// Nobody reads while three writes land; the pending snapshot must be
	// the latest one, not the first.
	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, testCollection, entitystore.Fields{"name": name})
		require.NoError(t, err)
	}

	snap := <-sub.Snapshots()
	assert.Len(t, snap, 3)
}

func TestFailSubscriptionsReportsCause(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	sub, err := s.Subscribe(ctx, testCollection, entitystore.OrderSpec{})
	require.NoError(t, err)
	<-sub.Snapshots()

	cause := assert.AnError
	s.FailSubscriptions(testCollection, cause)

	_, open := <-sub.Snapshots()
	assert.False(t, open, "channel must close on failure")
	assert.ErrorIs(t, sub.Err(), cause)
}

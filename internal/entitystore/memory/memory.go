package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
)

// Store is an in-process entity store. It is the backend used by the test
// suites and by local development; it implements the same snapshot-delivery
// contract as the remote backends.
type Store struct {
	mu          sync.Mutex
	collections map[entitystore.Collection]*collectionState
	unavailable bool
	now         func() time.Time
}

type collectionState struct {
	docs    map[string]entitystore.Document
	seq     map[string]uint64
	nextSeq uint64
	subs    map[*subscription]struct{}
}

func NewStore() *Store {
	return &Store{
		collections: make(map[entitystore.Collection]*collectionState),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetUnavailable simulates a connection outage: while set, every operation
// fails with ErrStoreUnavailable. Existing subscriptions keep their last
// snapshot.
func (s *Store) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = down
}

// FailSubscriptions terminates every open subscription on a collection with
// the given error, simulating an unrecoverable stream failure.
func (s *Store) FailSubscriptions(collection entitystore.Collection, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.collections[collection]
	if cs == nil {
		return
	}
	for sub := range cs.subs {
		sub.fail(err)
		delete(cs.subs, sub)
	}
}

func (s *Store) state(collection entitystore.Collection) *collectionState {
	cs, ok := s.collections[collection]
	if !ok {
		cs = &collectionState{
			docs: make(map[string]entitystore.Document),
			seq:  make(map[string]uint64),
			subs: make(map[*subscription]struct{}),
		}
		s.collections[collection] = cs
	}
	return cs
}

// Create implements entitystore.Store.
func (s *Store) Create(ctx context.Context, collection entitystore.Collection, fields entitystore.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return "", entitystore.ErrStoreUnavailable
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	cs := s.state(collection)
	now := s.now()
	doc := entitystore.Document{
		ID:        id.String(),
		Fields:    cloneFields(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}
	cs.docs[doc.ID] = doc
	cs.seq[doc.ID] = cs.nextSeq
	cs.nextSeq++

	s.broadcast(cs)
	return doc.ID, nil
}

// Update implements entitystore.Store. Fields are merged into the existing
// document; absent keys are left untouched.
func (s *Store) Update(ctx context.Context, collection entitystore.Collection, id string, fields entitystore.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return entitystore.ErrStoreUnavailable
	}

	cs := s.state(collection)
	doc, ok := cs.docs[id]
	if !ok {
		return entitystore.ErrNotFound
	}

	merged := cloneFields(doc.Fields)
	for k, v := range fields {
		merged[k] = v
	}
	doc.Fields = merged
	doc.UpdatedAt = s.now()
	cs.docs[id] = doc

	s.broadcast(cs)
	return nil
}

// Delete implements entitystore.Store.
func (s *Store) Delete(ctx context.Context, collection entitystore.Collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return entitystore.ErrStoreUnavailable
	}

	cs := s.state(collection)
	if _, ok := cs.docs[id]; !ok {
		return entitystore.ErrNotFound
	}
	delete(cs.docs, id)
	delete(cs.seq, id)

	s.broadcast(cs)
	return nil
}

// Subscribe implements entitystore.Store. The initial snapshot is delivered
// immediately.
func (s *Store) Subscribe(ctx context.Context, collection entitystore.Collection, order entitystore.OrderSpec) (entitystore.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return nil, entitystore.ErrStoreUnavailable
	}

	cs := s.state(collection)
	sub := &subscription{
		ch:    make(chan entitystore.Snapshot, 1),
		order: order,
	}
	sub.remove = func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(cs.subs, sub)
	}
	cs.subs[sub] = struct{}{}

	sub.deliver(snapshotLocked(cs, order))
	return sub, nil
}

// broadcast pushes the current ordered set to every subscriber of the
// collection. Callers hold s.mu.
func (s *Store) broadcast(cs *collectionState) {
	for sub := range cs.subs {
		sub.deliver(snapshotLocked(cs, sub.order))
	}
}

func snapshotLocked(cs *collectionState, order entitystore.OrderSpec) entitystore.Snapshot {
	snap := make(entitystore.Snapshot, 0, len(cs.docs))
	for _, doc := range cs.docs {
		snap = append(snap, doc)
	}
	sort.SliceStable(snap, func(i, j int) bool {
		if order.Field != "" {
			var c int
			if order.Field == entitystore.FieldCreatedAt {
				c = compareTimes(snap[i].CreatedAt, snap[j].CreatedAt)
			} else {
				c = compareFieldValues(snap[i].Fields[order.Field], snap[j].Fields[order.Field])
			}
			if c != 0 {
				if order.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		// Ties (and the zero OrderSpec) fall back to insertion order.
		return cs.seq[snap[i].ID] < cs.seq[snap[j].ID]
	})
	return snap
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// compareFieldValues orders JSON field values: nil first, then numbers,
// strings and bools compared within their own kind.
func compareFieldValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case !av && bv:
				return -1
			case av && !bv:
				return 1
			}
			return 0
		}
	}
	return 0
}

func cloneFields(fields entitystore.Fields) entitystore.Fields {
	out := make(entitystore.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

type subscription struct {
	ch     chan entitystore.Snapshot
	order  entitystore.OrderSpec
	remove func()

	mu     sync.Mutex
	err    error
	closed bool
}

func (sub *subscription) Snapshots() <-chan entitystore.Snapshot {
	return sub.ch
}

func (sub *subscription) Err() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}

func (sub *subscription) Close() error {
	sub.remove()
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
	return nil
}

// deliver replaces any pending snapshot with the newest one. Sends are
// serialized by the store mutex, so draining before sending cannot block.
func (sub *subscription) deliver(snap entitystore.Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	select {
	case sub.ch <- snap:
	default:
		select {
		case <-sub.ch:
		default:
		}
		sub.ch <- snap
	}
}

func (sub *subscription) fail(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return
	}
	sub.err = err
	sub.closed = true
	close(sub.ch)
}

package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
)

// Manager multiplexes mirrors so that each collection+order pair holds at
// most one store subscription regardless of how many consumers open it.
type Manager struct {
	store  entitystore.Store
	logger *slog.Logger

	mu      sync.Mutex
	mirrors map[key]*mirror
}

type key struct {
	collection entitystore.Collection
	field      string
	desc       bool
}

func NewManager(store entitystore.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		logger:  logger,
		mirrors: make(map[key]*mirror),
	}
}

// Open begins (or joins) a mirror over the collection and returns a handle
// onto its current state. Each handle must be closed by its consumer.
func (m *Manager) Open(ctx context.Context, collection entitystore.Collection, order entitystore.OrderSpec) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{collection: collection, field: order.Field, desc: order.Desc}
	if mir, ok := m.mirrors[k]; ok {
		// A mirror whose final handle is mid-Close can still be in the map;
		// joining it would bind the new handle to a closed subscription.
		if h, live := mir.attach(); live {
			return h, nil
		}
	}

	sub, err := m.store.Subscribe(ctx, collection, order)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", collection, err)
	}
	mir := &mirror{
		collection: collection,
		sub:        sub,
		logger:     m.logger,
		watchers:   make(map[*Handle]struct{}),
	}
	mir.release = func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		// A torn-down mirror must only remove itself, never a replacement
		// registered under the same key after its teardown began.
		if m.mirrors[k] == mir {
			delete(m.mirrors, k)
		}
	}
	m.mirrors[k] = mir
	go mir.run()

	h, _ := mir.attach()
	return h, nil
}

// Close shuts down every mirror the manager still holds.
func (m *Manager) Close() {
	m.mu.Lock()
	mirrors := make([]*mirror, 0, len(m.mirrors))
	for _, mir := range m.mirrors {
		mirrors = append(mirrors, mir)
	}
	m.mu.Unlock()

	for _, mir := range mirrors {
		mir.shutdown()
	}
}

// mirror owns the local snapshot for one collection+order pair. Consumers
// never mutate the snapshot; every write goes back through the store.
type mirror struct {
	collection entitystore.Collection
	sub        entitystore.Subscription
	logger     *slog.Logger
	release    func()

	mu       sync.RWMutex
	snapshot entitystore.Snapshot
	degraded bool
	refs     int
	done     bool
	watchers map[*Handle]struct{}
}

func (mir *mirror) run() {
	for snap := range mir.sub.Snapshots() {
		mir.mu.Lock()
		mir.snapshot = snap
		watchers := mir.notifyLocked()
		mir.mu.Unlock()
		signalAll(watchers)
	}

	// The stream ended; unless this mirror was closed deliberately, the last
	// good snapshot is retained and served stale.
	err := mir.sub.Err()
	mir.mu.Lock()
	if err != nil && !mir.done {
		mir.degraded = true
		mir.logger.Warn("mirror degraded, serving last good snapshot",
			"collection", string(mir.collection), "error", err)
	}
	watchers := mir.notifyLocked()
	mir.mu.Unlock()
	signalAll(watchers)
}

func (mir *mirror) notifyLocked() []*Handle {
	handles := make([]*Handle, 0, len(mir.watchers))
	for h := range mir.watchers {
		handles = append(handles, h)
	}
	return handles
}

func signalAll(handles []*Handle) {
	for _, h := range handles {
		h.signal()
	}
}

func (mir *mirror) attach() (*Handle, bool) {
	mir.mu.Lock()
	defer mir.mu.Unlock()
	if mir.done {
		return nil, false
	}
	h := &Handle{mir: mir, updates: make(chan struct{}, 1)}
	mir.refs++
	mir.watchers[h] = struct{}{}
	return h, true
}

func (mir *mirror) detach(h *Handle) {
	mir.mu.Lock()
	delete(mir.watchers, h)
	mir.refs--
	last := mir.refs == 0 && !mir.done
	if last {
		mir.done = true
	}
	mir.mu.Unlock()

	h.closeUpdates()

	if last {
		mir.release()
		_ = mir.sub.Close()
	}
}

func (mir *mirror) shutdown() {
	mir.mu.Lock()
	if mir.done {
		mir.mu.Unlock()
		return
	}
	mir.done = true
	detached := make([]*Handle, 0, len(mir.watchers))
	for h := range mir.watchers {
		detached = append(detached, h)
	}
	mir.watchers = make(map[*Handle]struct{})
	mir.mu.Unlock()

	for _, h := range detached {
		h.closeUpdates()
	}

	mir.release()
	_ = mir.sub.Close()
}

// Handle is a consumer's view onto a mirror. Snapshot reads are atomic per
// delivered snapshot; a read never mixes documents from two snapshots. After
// Close the handle's snapshot is frozen.
type Handle struct {
	mir     *mirror
	updates chan struct{}

	sigMu         sync.Mutex
	updatesClosed bool

	mu     sync.Mutex
	closed bool
	frozen entitystore.Snapshot
}

// signal delivers a coalesced update notification. The sigMu guard keeps the
// mirror from signalling a channel that closeUpdates has already closed.
func (h *Handle) signal() {
	h.sigMu.Lock()
	defer h.sigMu.Unlock()
	if h.updatesClosed {
		return
	}
	select {
	case h.updates <- struct{}{}:
	default:
	}
}

// closeUpdates ends the update stream exactly once; a handle can be detached
// by its owner and by a manager shutdown.
func (h *Handle) closeUpdates() {
	h.sigMu.Lock()
	defer h.sigMu.Unlock()
	if h.updatesClosed {
		return
	}
	h.updatesClosed = true
	close(h.updates)
}

// Snapshot returns the current ordered document set.
func (h *Handle) Snapshot() entitystore.Snapshot {
	h.mu.Lock()
	if h.closed {
		defer h.mu.Unlock()
		return h.frozen
	}
	h.mu.Unlock()

	h.mir.mu.RLock()
	defer h.mir.mu.RUnlock()
	return h.mir.snapshot
}

// Updates signals after each snapshot delivery. Signals are coalesced; a
// consumer re-reads Snapshot after each one.
func (h *Handle) Updates() <-chan struct{} {
	return h.updates
}

// Degraded reports whether the underlying stream has failed and the snapshot
// is stale-but-available.
func (h *Handle) Degraded() bool {
	h.mir.mu.RLock()
	defer h.mir.mu.RUnlock()
	return h.mir.degraded
}

func (h *Handle) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mir.mu.RLock()
	h.frozen = h.mir.snapshot
	h.mir.mu.RUnlock()
	h.mu.Unlock()

	h.mir.detach(h)
}

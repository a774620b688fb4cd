package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"github.com/rotulos-pr/fieldops-backend-go/internal/pkg/database"
)

// notifyChannel carries the collection name as payload after every write.
const notifyChannel = "fieldops_documents"

// Store is a PostgreSQL entity store. Documents live in a single table keyed
// by (collection, id) with a jsonb payload; subscriptions LISTEN on a
// dedicated connection and re-read the ordered set on each notification.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the documents table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection text NOT NULL,
			id uuid NOT NULL,
			fields jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure documents schema: %w", err)
	}
	return nil
}

// Create implements entitystore.Store.
func (s *Store) Create(ctx context.Context, collection entitystore.Collection, fields entitystore.Fields) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3)
	`, string(collection), id.String(), payload)
	if err != nil {
		return "", unavailable(err)
	}

	s.notify(ctx, collection)
	return id.String(), nil
}

// Update implements entitystore.Store. The jsonb concatenation merges the
// given fields over the stored ones, matching the partial-update contract.
func (s *Store) Update(ctx context.Context, collection entitystore.Collection, id string, fields entitystore.Fields) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = now()
		WHERE collection = $1 AND id = $2
	`, string(collection), id, payload)
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return entitystore.ErrNotFound
	}

	s.notify(ctx, collection)
	return nil
}

// Delete implements entitystore.Store.
func (s *Store) Delete(ctx context.Context, collection entitystore.Collection, id string) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2
	`, string(collection), id)
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return entitystore.ErrNotFound
	}

	s.notify(ctx, collection)
	return nil
}

func (s *Store) notify(ctx context.Context, collection entitystore.Collection) {
	// Notification failures are not write failures; the write is durable and
	// subscribers recover on the next notification.
	_, _ = s.db.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, string(collection))
}

// Subscribe implements entitystore.Store. Each subscription holds a
// dedicated listening connection; the mirror layer multiplexes consumers so
// the count stays bounded by the number of collections.
func (s *Store) Subscribe(ctx context.Context, collection entitystore.Collection, order entitystore.OrderSpec) (entitystore.Subscription, error) {
	conn, err := s.db.Acquire(ctx)
	if err != nil {
		return nil, unavailable(err)
	}

	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %s", notifyChannel)); err != nil {
		conn.Release()
		return nil, unavailable(err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		ch:     make(chan entitystore.Snapshot, 1),
		cancel: cancel,
	}

	go func() {
		defer conn.Release()
		defer sub.finish()

		// Initial read before entering the notification loop.
		snap, err := s.read(subCtx, collection, order)
		if err != nil {
			sub.setErr(err)
			return
		}
		sub.deliver(snap)

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					sub.setErr(unavailable(err))
				}
				return
			}
			if notification.Payload != string(collection) {
				continue
			}
			snap, err := s.read(subCtx, collection, order)
			if err != nil {
				sub.setErr(err)
				return
			}
			sub.deliver(snap)
		}
	}()

	return sub, nil
}

func (s *Store) read(ctx context.Context, collection entitystore.Collection, order entitystore.OrderSpec) (entitystore.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, fields, created_at, updated_at
		FROM documents
		WHERE collection = $1
		ORDER BY %s, created_at, id
	`, orderClause(order))

	rows, err := s.db.Query(ctx, query, string(collection))
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var snap entitystore.Snapshot
	for rows.Next() {
		var (
			doc entitystore.Document
			raw []byte
		)
		if err := rows.Scan(&doc.ID, &raw, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, unavailable(err)
		}
		if err := json.Unmarshal(raw, &doc.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
		}
		snap = append(snap, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return snap, nil
}

func orderClause(order entitystore.OrderSpec) string {
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	switch order.Field {
	case "", entitystore.FieldCreatedAt:
		return "created_at " + dir
	default:
		// Field names come from compiled-in OrderSpec values, never from
		// request input; quoting keeps them inert inside the jsonb lookup.
		return fmt.Sprintf("fields->>'%s' %s NULLS FIRST", order.Field, dir)
	}
}

func unavailable(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return entitystore.ErrNotFound
	}
	return fmt.Errorf("%w: %v", entitystore.ErrStoreUnavailable, err)
}

type subscription struct {
	ch     chan entitystore.Snapshot
	cancel context.CancelFunc

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
	sub.cancel()
	return nil
}

func (sub *subscription) setErr(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.err == nil {
		sub.err = err
	}
}

func (sub *subscription) finish() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}

// deliver replaces any pending snapshot with the newest one. Only the
// subscription's own goroutine sends, so the drain cannot race another send.
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

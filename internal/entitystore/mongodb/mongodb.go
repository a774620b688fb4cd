package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotulos-pr/fieldops-backend-go/internal/entitystore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is a MongoDB entity store. Each logical collection maps to a Mongo
// collection; subscriptions use change streams and re-read the ordered set
// per event, so the server must run as a replica set.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

type record struct {
	ID        string         `bson:"_id"`
	Fields    map[string]any `bson:"fields"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
}

// Create implements entitystore.Store.
func (s *Store) Create(ctx context.Context, collection entitystore.Collection, fields entitystore.Fields) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	// Times and nested structs become plain JSON values so that sorting and
	// decoding behave identically across backends.
	normalized, err := entitystore.EncodeFields(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.Collection(string(collection)).InsertOne(ctx, record{
		ID:        id.String(),
		Fields:    normalized,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", unavailable(err)
	}
	return id.String(), nil
}

// Update implements entitystore.Store.
func (s *Store) Update(ctx context.Context, collection entitystore.Collection, id string, fields entitystore.Fields) error {
	normalized, err := entitystore.EncodeFields(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range normalized {
		set["fields."+k] = v
	}

	res, err := s.db.Collection(string(collection)).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return unavailable(err)
	}
	if res.MatchedCount == 0 {
		return entitystore.ErrNotFound
	}
	return nil
}

// Delete implements entitystore.Store.
func (s *Store) Delete(ctx context.Context, collection entitystore.Collection, id string) error {
	res, err := s.db.Collection(string(collection)).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return unavailable(err)
	}
	if res.DeletedCount == 0 {
		return entitystore.ErrNotFound
	}
	return nil
}

// Subscribe implements entitystore.Store.
func (s *Store) Subscribe(ctx context.Context, collection entitystore.Collection, order entitystore.OrderSpec) (entitystore.Subscription, error) {
	stream, err := s.db.Collection(string(collection)).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, unavailable(err)
	}

	subCtx, cancel := context.WithCancel(context.Background())
	sub := &subscription{
		ch:     make(chan entitystore.Snapshot, 1),
		cancel: cancel,
	}

	go func() {
		defer stream.Close(context.Background())
		defer sub.finish()

		snap, err := s.read(subCtx, collection, order)
		if err != nil {
			sub.setErr(err)
			return
		}
		sub.deliver(snap)

		for stream.Next(subCtx) {
			snap, err := s.read(subCtx, collection, order)
			if err != nil {
				sub.setErr(err)
				return
			}
			sub.deliver(snap)
		}
		if err := stream.Err(); err != nil && subCtx.Err() == nil {
			sub.setErr(unavailable(err))
		}
	}()

	return sub, nil
}

func (s *Store) read(ctx context.Context, collection entitystore.Collection, order entitystore.OrderSpec) (entitystore.Snapshot, error) {
	dir := 1
	if order.Desc {
		dir = -1
	}
	var sortField string
	switch order.Field {
	case "", entitystore.FieldCreatedAt:
		sortField = "created_at"
	default:
		sortField = "fields." + order.Field
	}
	opts := options.Find().SetSort(bson.D{
		{Key: sortField, Value: dir},
		{Key: "created_at", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.db.Collection(string(collection)).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable(err)
	}
	defer cursor.Close(ctx)

	var snap entitystore.Snapshot
	for cursor.Next(ctx) {
		var rec record
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		snap = append(snap, entitystore.Document{
			ID:        rec.ID,
			Fields:    rec.Fields,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, unavailable(err)
	}
	return snap, nil
}

func unavailable(err error) error {
	if err == mongo.ErrNoDocuments {
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

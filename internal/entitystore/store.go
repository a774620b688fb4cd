package entitystore

import (
	"context"
	"encoding/json"
	"time"
)

// Collection names a remote document set. The store owns every collection;
// all other components hold read-only mirrored copies.
type Collection string

const (
	CollectionWorkers           Collection = "workers"
	CollectionDispatchJobs      Collection = "dispatchJobs"
	CollectionAttendanceEntries Collection = "attendanceEntries"
	CollectionServiceTickets    Collection = "serviceTickets"
	CollectionPermits           Collection = "permits"
	CollectionPatrolEntries     Collection = "patrolEntries"
)

// Fields is the schemaless document payload, JSON-compatible values only.
type Fields map[string]any

// Document is a single stored record. ID, CreatedAt and UpdatedAt are
// store-assigned; callers never choose them.
type Document struct {
	ID        string    `json:"id"`
	Fields    Fields    `json:"fields"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Decode unmarshals the document fields into a typed value via a JSON
// round-trip.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// EncodeFields converts a typed value into Fields via a JSON round-trip.
func EncodeFields(v any) (Fields, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// FieldCreatedAt names the store-assigned creation timestamp in an
// OrderSpec.
const FieldCreatedAt = "createdAt"

// OrderSpec orders a subscription's snapshots by a single field. A zero
// OrderSpec orders by creation time ascending.
type OrderSpec struct {
	Field string
	Desc  bool
}

// Snapshot is the complete ordered result set of a collection at one point in
// logical time.
type Snapshot []Document

// Subscription is a long-lived stream of full-result-set snapshots. The first
// delivery happens once the initial read completes; the channel is closed
// after Close or on an unrecoverable failure, in which case Err reports the
// cause.
type Subscription interface {
	Snapshots() <-chan Snapshot
	Err() error
	Close() error
}

// Store is the minimal remote collection contract the whole system depends
// on. Creation and update timestamps are assigned by the store at write time.
type Store interface {
	Create(ctx context.Context, collection Collection, fields Fields) (string, error)
	Update(ctx context.Context, collection Collection, id string, fields Fields) error
	Delete(ctx context.Context, collection Collection, id string) error
	Subscribe(ctx context.Context, collection Collection, order OrderSpec) (Subscription, error)
}

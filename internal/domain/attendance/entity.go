package attendance

import (
	"time"

	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
)

// Entry is one clock-in/clock-out record. WorkerName is a denormalized copy
// fixed at creation. An entry with a nil ClockOut is open; the core invariant
// is at most one open entry per worker.
type Entry struct {
	ID               string          `json:"id,omitempty"`
	WorkerID         string          `json:"employeeId"`
	WorkerName       string          `json:"employeeName"`
	ClockIn          time.Time       `json:"clockIn"`
	ClockInLocation  location.Point  `json:"clockInLocation"`
	ClockOut         *time.Time      `json:"clockOut"`
	ClockOutLocation *location.Point `json:"clockOutLocation"`
	// DisplacementMeters is the straight-line distance between the clock-in
	// and clock-out points, stamped when the entry closes.
	DisplacementMeters *float64 `json:"displacementMeters,omitempty"`
	CreatedBy          string   `json:"createdBy"`
}

// Open reports whether the entry has not been clocked out yet.
func (e Entry) Open() bool {
	return e.ClockOut == nil
}

// State is the derived per-worker presence state. The only permitted
// transitions are CLOCKED_OUT -> CLOCKED_IN (clock in) and
// CLOCKED_IN -> CLOCKED_OUT (clock out).
type State string

const (
	StateClockedIn  State = "CLOCKED_IN"
	StateClockedOut State = "CLOCKED_OUT"
)

package patrol

import (
	"context"

	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
)

// PatrolService records geotagged patrol reports. The location read comes
// first; a failed read leaves no trace in the store.
type PatrolService interface {
	// CreateEntry captures the current location, then writes the report
	CreateEntry(ctx context.Context, req CreateEntryRequest, loc location.Locator) (string, error)

	// Entries returns the current snapshot, newest first
	Entries() []Entry
}

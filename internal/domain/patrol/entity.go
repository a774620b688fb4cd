package patrol

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
)

// EntryType classifies a night-patrol observation: a sales prospect or a
// failing sign.
type EntryType string

const (
	TypeProspect EntryType = "prospect"
	TypeFault    EntryType = "falla"
)

func (t EntryType) Valid() bool {
	return t == TypeProspect || t == TypeFault
}

// Entry is one geotagged patrol report. The location is captured at save
// time and is mandatory; an entry is never written without one.
type Entry struct {
	ID              string         `json:"id,omitempty"`
	EntryType       EntryType      `json:"entryType"`
	ClientName      string         `json:"clientName"`
	SignDescription string         `json:"signDescription"`
	Notes           string         `json:"notes"`
	PhotoURL        string         `json:"photoUrl"`
	Location        location.Point `json:"location"`
	CreatedBy       string         `json:"createdBy"`
	CreatedByEmail  string         `json:"createdByEmail"`
}

package http

import (
	"github.com/rotulos-pr/fieldops-backend-go/internal/location"
)

// geoPayload carries the client-reported device position. The browser owns
// the geolocation capability, so the API receives the fix (or its failure
// mode) and turns it into a Locator for the services.
type geoPayload struct {
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
	Error     string   `json:"error,omitempty"`
}

func (g geoPayload) locator() location.Locator {
	switch g.Error {
	case "permission_denied":
		return location.Failing(location.ErrPermissionDenied)
	case "timeout":
		return location.Failing(location.ErrTimeout)
	}
	if g.Latitude == nil || g.Longitude == nil {
		return location.Failing(location.ErrUnavailable)
	}
	return location.Static(location.Point{
		Latitude:  *g.Latitude,
		Longitude: *g.Longitude,
	})
}

package location

import (
	"context"
	"errors"
	"math"
)

// Location capability errors
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
	ErrTimeout          = errors.New("location request timed out")
)

// Point is a latitude/longitude pair.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Locator is the single-call location capability. No watch mode: continuous
// tracking is not part of this system.
type Locator interface {
	Current(ctx context.Context) (Point, error)
}

// Func adapts a function to the Locator interface.
type Func func(ctx context.Context) (Point, error)

func (f Func) Current(ctx context.Context) (Point, error) {
	return f(ctx)
}

// Static returns a locator that always reports the given point. The HTTP
// shell uses it to carry client-supplied coordinates into the services.
func Static(p Point) Locator {
	return Func(func(context.Context) (Point, error) {
		return p, nil
	})
}

// Failing returns a locator that always fails with err.
func Failing(err error) Locator {
	return Func(func(context.Context) (Point, error) {
		return Point{}, err
	})
}

// Distance returns the haversine distance between two points in meters.
func Distance(a, b Point) float64 {
	const earthRadius = 6371000

	dLat := (b.Latitude - a.Latitude) * (math.Pi / 180.0)
	dLng := (b.Longitude - a.Longitude) * (math.Pi / 180.0)

	lat1 := a.Latitude * (math.Pi / 180.0)
	lat2 := b.Latitude * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)

	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// IsCapabilityError reports whether err is one of the location failure modes.
func IsCapabilityError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

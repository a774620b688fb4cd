package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	origin := Point{}
	oneLat := Point{Latitude: 1}
	oneLng := Point{Longitude: 1}

	// One degree of arc on a 6371 km sphere is 111194.93 m.
	assert.InDelta(t, 111194.93, Distance(origin, oneLat), 0.5)
	assert.InDelta(t, 111194.93, Distance(origin, oneLng), 0.5)

	assert.Zero(t, Distance(origin, origin))
	assert.Equal(t, Distance(oneLat, oneLng), Distance(oneLng, oneLat))
}

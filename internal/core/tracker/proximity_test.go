package tracker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// About 11 m per 0.0001 degree of latitude.
func testWaypoints() []domain.Waypoint {
	return []domain.Waypoint{
		{Coordinate: domain.GeoPoint{Lat: 37.5000, Lon: 127.0}, Description: "보행자도로 을 따라 이동", Maneuver: domain.ManeuverStart, SegmentTimeSeconds: 30},
		{Coordinate: domain.GeoPoint{Lat: 37.5010, Lon: 127.0}, Description: "세종대로 방면", Maneuver: domain.ManeuverLeft, RoadType: domain.RoadTypeSeparated, SegmentTimeSeconds: 60},
		{Coordinate: domain.GeoPoint{Lat: 37.5020, Lon: 127.0}, Description: "광장 방면", Maneuver: domain.ManeuverStraight},
	}
}

func TestProximity_FarUpdatesNeverAdvance(t *testing.T) {
	p := NewProximity(testWaypoints(), 10)

	for _, lat := range []float64{37.4990, 37.4995, 37.5005, 37.5010, 37.5020} {
		_, ok := p.Update(domain.GeoPoint{Lat: lat, Lon: 127.0})
		assert.False(t, ok, "lat %v", lat)
	}
	assert.Equal(t, 0, p.Index())
	assert.Empty(t, p.LastAnnounced())
}

func TestProximity_AdvancesByExactlyOne(t *testing.T) {
	p := NewProximity(testWaypoints(), 10)

	n, ok := p.Update(domain.GeoPoint{Lat: 37.50003, Lon: 127.0}) // ~3 m
	require.True(t, ok)
	assert.Equal(t, 1, p.Index())
	assert.Equal(t, 0, n.WaypointIndex)
	assert.Equal(t, domain.NarrationWaypoint, n.Kind)
	assert.Contains(t, n.Text, "출발지에서 직진,")
	assert.False(t, n.Alert)
	assert.Equal(t, n.Text, p.LastAnnounced())

	// Still next to waypoint 0, which is behind us now.
	_, ok = p.Update(domain.GeoPoint{Lat: 37.50003, Lon: 127.0})
	assert.False(t, ok)
	assert.Equal(t, 1, p.Index())

	n, ok = p.Update(domain.GeoPoint{Lat: 37.5010, Lon: 127.0})
	require.True(t, ok)
	assert.Equal(t, 1, n.WaypointIndex)
	assert.True(t, n.Alert, "left turn alerts")
}

func TestProximity_BoundaryIsInclusive(t *testing.T) {
	wps := testWaypoints()[:1]
	pos := domain.GeoPoint{Lat: 37.5001, Lon: 127.0}

	exact := NewProximity(wps, distanceTo(wps[0].Coordinate, pos))
	_, ok := exact.Update(pos)
	assert.True(t, ok)
}

func TestProximity_TerminalStateIsIdempotent(t *testing.T) {
	wps := testWaypoints()
	p := NewProximity(wps, 10)

	for _, w := range wps {
		_, ok := p.Update(w.Coordinate)
		require.True(t, ok)
	}
	require.True(t, p.Complete())
	last := p.LastAnnounced()

	for _, w := range wps {
		_, ok := p.Update(w.Coordinate)
		assert.False(t, ok)
	}
	assert.Equal(t, len(wps), p.Index())
	assert.Equal(t, last, p.LastAnnounced())

	_, ok := p.Current()
	assert.False(t, ok)
}

func TestProximity_InvalidCoordinates(t *testing.T) {
	wps := testWaypoints()
	wps[0].Coordinate = domain.GeoPoint{Lat: math.NaN(), Lon: 127}
	p := NewProximity(wps, 1e9)

	_, ok := p.Update(domain.GeoPoint{Lat: 37.5, Lon: 127})
	assert.False(t, ok, "invalid waypoint is infinitely far")

	p = NewProximity(testWaypoints(), 1e9)
	_, ok = p.Update(domain.GeoPoint{Lat: 95, Lon: 127})
	assert.False(t, ok, "invalid position is infinitely far")
	assert.Equal(t, 0, p.Index())
}

func TestProximity_NoWaypoints(t *testing.T) {
	p := NewProximity(nil, 10)
	assert.True(t, p.Complete())
	_, ok := p.Update(domain.GeoPoint{Lat: 37.5, Lon: 127})
	assert.False(t, ok)
}

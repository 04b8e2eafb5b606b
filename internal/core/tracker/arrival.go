package tracker

import (
	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/pkg/geospatial"
)

// Arrival watches the route's final destination independently of the
// waypoint cursor and fires at most once.
type Arrival struct {
	destination domain.GeoPoint
	radius      float64
	arrived     bool
}

func NewArrival(destination domain.GeoPoint, radiusMeters float64) *Arrival {
	return &Arrival{destination: destination, radius: radiusMeters}
}

// Update reports true exactly once: on the first position within the
// arrival radius.
func (a *Arrival) Update(pos domain.GeoPoint) bool {
	if a.arrived {
		return false
	}
	if !geospatial.Within(pos, a.destination, a.radius) {
		return false
	}
	a.arrived = true
	return true
}

func (a *Arrival) Arrived() bool { return a.arrived }

func (a *Arrival) Destination() domain.GeoPoint { return a.destination }

package tracker

import (
	"math"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/pkg/geospatial"
)

// Heading compares live compass readings with the departure bearing, the
// bearing from the first waypoint to the second. With fewer than two
// waypoints there is no bearing and the check never matches.
type Heading struct {
	bearing   float64
	has       bool
	tolerance float64
	aligned   bool
}

func NewHeading(waypoints []domain.Waypoint, toleranceDegrees float64) *Heading {
	h := &Heading{tolerance: toleranceDegrees}
	if len(waypoints) >= 2 {
		b := geospatial.InitialBearing(waypoints[0].Coordinate, waypoints[1].Coordinate)
		if !math.IsNaN(b) {
			h.bearing, h.has = b, true
		}
	}
	return h
}

// Bearing returns the departure bearing if one is defined.
func (h *Heading) Bearing() (float64, bool) { return h.bearing, h.has }

// Update evaluates one heading sample. JustAligned is set on the first
// matching sample only.
func (h *Heading) Update(degrees float64) domain.HeadingStatus {
	st := domain.HeadingStatus{
		DepartureBearing: h.bearing,
		HasBearing:       h.has,
	}
	finite := !math.IsNaN(degrees) && !math.IsInf(degrees, 0)
	if finite {
		st.Heading = geospatial.NormalizeBearing(degrees)
	}
	if !h.has || !finite {
		return st
	}

	st.Facing = geospatial.HeadingMatches(h.bearing, degrees, h.tolerance)
	if st.Facing && !h.aligned {
		h.aligned = true
		st.JustAligned = true
	}
	return st
}

// Package tracker holds the live, event-driven state of one navigation:
// the waypoint cursor, the one-shot arrival watcher and the departure
// heading check. Nothing here polls; every change is caused by a sample.
package tracker

import (
	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/guidance"
	"github.com/pathpal/pathpal/internal/pkg/geospatial"
)

// Proximity is a cursor over a waypoint sequence. It borrows the slice and
// owns only its index. Not safe for concurrent use.
type Proximity struct {
	waypoints     []domain.Waypoint
	threshold     float64
	index         int
	lastAnnounced string
}

// NewProximity starts a cursor at the first waypoint.
func NewProximity(waypoints []domain.Waypoint, thresholdMeters float64) *Proximity {
	return &Proximity{waypoints: waypoints, threshold: thresholdMeters}
}

// Update advances the cursor by one when pos is within the threshold of the
// current waypoint and returns the narration for it. Once every waypoint
// has been passed, Update never reports again.
func (p *Proximity) Update(pos domain.GeoPoint) (domain.Narration, bool) {
	if p.Complete() {
		return domain.Narration{}, false
	}

	w := p.waypoints[p.index]
	if geospatial.Distance(pos, w.Coordinate) > p.threshold {
		return domain.Narration{}, false
	}

	n := domain.Narration{
		Kind:          domain.NarrationWaypoint,
		Text:          guidance.Narrate(w),
		Alert:         w.Maneuver.NeedsAlert(),
		WaypointIndex: p.index,
	}
	p.lastAnnounced = n.Text
	p.index++
	return n, true
}

// Index is the position of the next waypoint to reach.
func (p *Proximity) Index() int { return p.index }

// Len is the number of waypoints tracked.
func (p *Proximity) Len() int { return len(p.waypoints) }

// Complete reports the terminal state: every waypoint has been announced.
func (p *Proximity) Complete() bool { return p.index >= len(p.waypoints) }

// LastAnnounced is the most recent narration text, empty before the first.
func (p *Proximity) LastAnnounced() string { return p.lastAnnounced }

// Current returns the waypoint the user is heading to.
func (p *Proximity) Current() (domain.Waypoint, bool) {
	if p.Complete() {
		return domain.Waypoint{}, false
	}
	return p.waypoints[p.index], true
}

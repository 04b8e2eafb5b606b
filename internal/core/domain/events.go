package domain

import "time"

// NarrationKind distinguishes waypoint transitions from the arrival cue.
type NarrationKind string

const (
	NarrationWaypoint NarrationKind = "waypoint"
	NarrationArrival  NarrationKind = "arrival"
)

// Narration is spoken text emitted by the session, with a vibrate flag.
type Narration struct {
	SessionID     string        `json:"session_id,omitempty"`
	Kind          NarrationKind `json:"kind"`
	Text          string        `json:"koreanTTSString"`
	Alert         bool          `json:"needAlert"`
	WaypointIndex int           `json:"waypoint_index"`
	At            time.Time     `json:"at"`
}

// HeadingStatus is recomputed on every heading sample.
type HeadingStatus struct {
	SessionID        string  `json:"session_id,omitempty"`
	DepartureBearing float64 `json:"departure_bearing"`
	HasBearing       bool    `json:"has_bearing"`
	Heading          float64 `json:"heading"`
	Facing           bool    `json:"facing"`
	// JustAligned is true only on the first sample that matched since the
	// route was committed.
	JustAligned bool `json:"just_aligned"`
}

// PositionSample is one live location fix.
type PositionSample struct {
	SessionID string    `json:"session_id,omitempty"`
	Location  GeoPoint  `json:"location"`
	Timestamp time.Time `json:"timestamp"`
}

// HeadingSample is one compass reading in degrees.
type HeadingSample struct {
	SessionID string  `json:"session_id,omitempty"`
	Degrees   float64 `json:"degrees"`
}

// RouteReady is published once a session has a committed route.
type RouteReady struct {
	SessionID string       `json:"session_id"`
	Summary   RouteSummary `json:"summary"`
	Waypoints int          `json:"waypoints"`
	Text      string       `json:"summary_text"`
}

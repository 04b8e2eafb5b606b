package domain

import "time"

// SessionRecord is the persisted history row for one navigation session.
type SessionRecord struct {
	ID              string       `json:"id"`
	Origin          GeoPoint     `json:"origin"`
	Destination     GeoPoint     `json:"destination"`
	DestinationName string       `json:"destination_name,omitempty"`
	Summary         RouteSummary `json:"summary"`
	WaypointCount   int          `json:"waypoint_count"`
	CreatedAt       time.Time    `json:"created_at"`
	ArrivedAt       *time.Time   `json:"arrived_at,omitempty"`
	EndedAt         *time.Time   `json:"ended_at,omitempty"`
}

// SessionView is a read-only snapshot of a live session.
type SessionView struct {
	ID               string       `json:"id"`
	Destination      GeoPoint     `json:"destination"`
	DestinationName  string       `json:"destination_name,omitempty"`
	Summary          RouteSummary `json:"summary"`
	SummaryText      string       `json:"summary_text"`
	Waypoints        int          `json:"waypoints"`
	CurrentIndex     int          `json:"current_index"`
	Complete         bool         `json:"complete"`
	Arrived          bool         `json:"arrived"`
	DepartureBearing *float64     `json:"departure_bearing,omitempty"`
	LastAnnounced    string       `json:"last_announced,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

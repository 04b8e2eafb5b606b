package domain

// Waypoint is one navigable decision point plus the segment leading away
// from it. Built once per route and never mutated.
type Waypoint struct {
	Coordinate         GeoPoint `json:"coordinate"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Maneuver           Maneuver `json:"maneuver"`
	Facility           Facility `json:"facility,omitempty"`
	RoadType           RoadType `json:"road_type,omitempty"`
	SegmentTimeSeconds int      `json:"segment_time_seconds"`
}

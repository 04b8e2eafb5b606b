package domain

// FeatureKind discriminates the two geometry variants of a route feature.
type FeatureKind int

const (
	FeaturePoint FeatureKind = iota + 1
	FeaturePath
)

func (k FeatureKind) String() string {
	switch k {
	case FeaturePoint:
		return "Point"
	case FeaturePath:
		return "LineString"
	default:
		return "unknown"
	}
}

// Feature is one element of a routing response. Exactly one of Point or Path
// is set, matching Kind.
type Feature struct {
	Kind  FeatureKind   `json:"kind"`
	Point *PointFeature `json:"point,omitempty"`
	Path  *PathFeature  `json:"path,omitempty"`
}

// PointFeature is a decision location: where an instruction is spoken.
type PointFeature struct {
	Index       int      `json:"index"`
	Coordinate  GeoPoint `json:"coordinate"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Maneuver    Maneuver `json:"maneuver"`
	Facility    Facility `json:"facility,omitempty"`
	PointType   string   `json:"point_type,omitempty"` // SP, EP, GP, PP...
}

// PathFeature is the polyline walked between two decision points.
type PathFeature struct {
	Index              int        `json:"index"`
	Coordinates        []GeoPoint `json:"coordinates"`
	Name               string     `json:"name,omitempty"`
	RoadType           RoadType   `json:"road_type,omitempty"`
	SegmentTimeSeconds int        `json:"segment_time_seconds"`
	DistanceMeters     int        `json:"distance_meters"`
}

// NewPointFeature wraps p as a Feature.
func NewPointFeature(p PointFeature) Feature {
	return Feature{Kind: FeaturePoint, Point: &p}
}

// NewPathFeature wraps p as a Feature.
func NewPathFeature(p PathFeature) Feature {
	return Feature{Kind: FeaturePath, Path: &p}
}

package domain

// RouteSummary holds the totals reported by the routing service.
type RouteSummary struct {
	TotalDistanceMeters int `json:"total_distance_meters"`
	TotalTimeSeconds    int `json:"total_time_seconds"`
}

// Route is a parsed routing response.
type Route struct {
	Features []Feature    `json:"features"`
	Summary  RouteSummary `json:"summary"`
}

// Destination returns the coordinate of the last point feature, which the
// routing service places at the end of the route.
func (r *Route) Destination() (GeoPoint, bool) {
	for i := len(r.Features) - 1; i >= 0; i-- {
		if f := r.Features[i]; f.Kind == FeaturePoint && f.Point != nil {
			return f.Point.Coordinate, true
		}
	}
	return GeoPoint{}, false
}

// RouteRequest is what the routing provider needs to compute a walk.
type RouteRequest struct {
	Origin           GeoPoint `json:"origin"`
	Destination      GeoPoint `json:"destination"`
	OriginName       string   `json:"origin_name,omitempty"`
	DestinationName  string   `json:"destination_name,omitempty"`
	DestinationPOIID string   `json:"destination_poi_id,omitempty"`
}

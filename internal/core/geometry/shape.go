package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// RouteShape concatenates all path coordinates into one polyline. A vertex
// shared by consecutive segments appears once.
func RouteShape(route *domain.Route) domain.GeoLineString {
	var line domain.GeoLineString
	if route == nil {
		return line
	}
	for _, f := range route.Features {
		if f.Kind != domain.FeaturePath || f.Path == nil {
			continue
		}
		for _, c := range f.Path.Coordinates {
			if n := len(line.Coordinates); n > 0 && line.Coordinates[n-1] == c {
				continue
			}
			line.Coordinates = append(line.Coordinates, c)
		}
	}
	return line
}

// PointMarkers returns the coordinate of every point feature, in order.
func PointMarkers(route *domain.Route) []domain.GeoPoint {
	if route == nil {
		return nil
	}
	markers := make([]domain.GeoPoint, 0, len(route.Features)/2+1)
	for _, f := range route.Features {
		if f.Kind == domain.FeaturePoint && f.Point != nil {
			markers = append(markers, f.Point.Coordinate)
		}
	}
	return markers
}

// ShapeCollection renders the route polyline and its decision points as a
// GeoJSON FeatureCollection for map clients.
func ShapeCollection(route *domain.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if route == nil {
		return fc
	}

	shape := RouteShape(route)
	if len(shape.Coordinates) >= 2 {
		ls := make(orb.LineString, len(shape.Coordinates))
		for i, c := range shape.Coordinates {
			ls[i] = toOrb(c)
		}
		line := geojson.NewFeature(ls)
		line.Properties["kind"] = "route"
		line.Properties["totalDistance"] = route.Summary.TotalDistanceMeters
		line.Properties["totalTime"] = route.Summary.TotalTimeSeconds
		fc.Append(line)
	}

	for _, f := range route.Features {
		if f.Kind != domain.FeaturePoint || f.Point == nil {
			continue
		}
		pt := geojson.NewFeature(toOrb(f.Point.Coordinate))
		pt.Properties["kind"] = "point"
		pt.Properties["index"] = f.Point.Index
		pt.Properties["turnType"] = int(f.Point.Maneuver)
		if f.Point.Name != "" {
			pt.Properties["name"] = f.Point.Name
		}
		fc.Append(pt)
	}
	return fc
}

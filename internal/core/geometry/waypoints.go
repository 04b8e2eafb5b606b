package geometry

import (
	"log/slog"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// BuildWaypoints pairs every point feature with the path feature directly
// after it. A point with no path right behind it is skipped and logged at
// debug level; it never fails the route. Order is preserved.
func BuildWaypoints(features []domain.Feature, log *slog.Logger) []domain.Waypoint {
	if log == nil {
		log = slog.Default()
	}

	waypoints := make([]domain.Waypoint, 0, len(features)/2)
	for i, f := range features {
		if f.Kind != domain.FeaturePoint || f.Point == nil {
			continue
		}
		if i+1 >= len(features) || features[i+1].Kind != domain.FeaturePath || features[i+1].Path == nil {
			log.Debug("incomplete waypoint pairing, skipping point",
				"feature", i,
				"index", f.Point.Index,
				"maneuver", int(f.Point.Maneuver),
				"point_type", f.Point.PointType,
			)
			continue
		}

		pt, path := f.Point, features[i+1].Path
		waypoints = append(waypoints, domain.Waypoint{
			Coordinate:         pt.Coordinate,
			Name:               pt.Name,
			Description:        pt.Description,
			Maneuver:           pt.Maneuver,
			Facility:           pt.Facility,
			RoadType:           path.RoadType,
			SegmentTimeSeconds: path.SegmentTimeSeconds,
		})
	}
	return waypoints
}

// CountPoints returns how many point features the route carries.
func CountPoints(features []domain.Feature) int {
	n := 0
	for _, f := range features {
		if f.Kind == domain.FeaturePoint {
			n++
		}
	}
	return n
}

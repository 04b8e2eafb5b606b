package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/pathpal/pathpal/internal/core/domain"
)

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

// ParseRoute decodes a routing-service FeatureCollection into a Route.
//
// A feature whose geometry type does not match its coordinates, or whose type
// is neither Point nor LineString, rejects the whole route with an error
// wrapping domain.ErrMalformedGeometry. The summary is taken from the first
// feature's totals.
func ParseRoute(data []byte) (*domain.Route, error) {
	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}

	route := &domain.Route{Features: make([]domain.Feature, 0, len(raw.Features))}
	for i, rf := range raw.Features {
		f, err := parseFeature(rf)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		route.Features = append(route.Features, f)
	}

	if len(raw.Features) > 0 {
		p := raw.Features[0].Properties
		route.Summary = domain.RouteSummary{
			TotalDistanceMeters: p.TotalDistance.Value,
			TotalTimeSeconds:    p.TotalTime.Value,
		}
	}
	return route, nil
}

func parseFeature(rf rawFeature) (domain.Feature, error) {
	body := bytes.TrimSpace(rf.Geometry)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return domain.Feature{}, fmt.Errorf("missing geometry: %w", domain.ErrMalformedGeometry)
	}

	if err := checkPositions(body); err != nil {
		return domain.Feature{}, err
	}

	g, err := geojson.UnmarshalGeometry(body)
	if err != nil {
		return domain.Feature{}, fmt.Errorf("%v: %w", err, domain.ErrMalformedGeometry)
	}

	p := rf.Properties
	switch c := g.Coordinates.(type) {
	case orb.Point:
		return domain.NewPointFeature(domain.PointFeature{
			Index:       p.Index.Value,
			Coordinate:  fromOrb(c),
			Name:        p.Name,
			Description: p.Description,
			Maneuver:    domain.Maneuver(p.TurnType.Value),
			Facility:    domain.ParseFacility(string(p.Facility)),
			PointType:   p.PointType,
		}), nil

	case orb.LineString:
		if len(c) < 2 {
			return domain.Feature{}, fmt.Errorf("line string with %d positions: %w", len(c), domain.ErrMalformedGeometry)
		}
		coords := make([]domain.GeoPoint, len(c))
		for i, pt := range c {
			coords[i] = fromOrb(pt)
		}
		return domain.NewPathFeature(domain.PathFeature{
			Index:              p.Index.Value,
			Coordinates:        coords,
			Name:               p.Name,
			RoadType:           domain.RoadType(p.RoadType.Value),
			SegmentTimeSeconds: p.Time.Value,
			DistanceMeters:     p.Distance.Value,
		}), nil

	default:
		return domain.Feature{}, fmt.Errorf("unsupported geometry %q: %w", g.Type, domain.ErrMalformedGeometry)
	}
}

// checkPositions rejects Point and LineString coordinates that are not made
// of [lon, lat] positions. orb zero-fills short or empty positions, which
// would otherwise turn into a valid-looking (0, 0) waypoint.
func checkPositions(body []byte) error {
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrMalformedGeometry)
	}

	switch head.Type {
	case "Point":
		var pos []float64
		if err := json.Unmarshal(head.Coordinates, &pos); err != nil || len(pos) < 2 {
			return fmt.Errorf("point coordinates %s: %w", head.Coordinates, domain.ErrMalformedGeometry)
		}
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(head.Coordinates, &line); err != nil {
			return fmt.Errorf("line string coordinates: %w", domain.ErrMalformedGeometry)
		}
		for i, pos := range line {
			if len(pos) < 2 {
				return fmt.Errorf("line string position %d has %d values: %w", i, len(pos), domain.ErrMalformedGeometry)
			}
		}
	}
	return nil
}

// GeoJSON positions are [lon, lat].
func fromOrb(p orb.Point) domain.GeoPoint {
	return domain.GeoPoint{Lat: p.Lat(), Lon: p.Lon()}
}

func toOrb(p domain.GeoPoint) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

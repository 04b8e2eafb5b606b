// Package googlemaps adapts the Google Maps Directions and Places APIs to the
// routing and place search ports. Walking directions are converted into the
// same GeoJSON route shape the Tmap API returns.
package googlemaps

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	maps "googlemaps.github.io/maps"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/pkg/geospatial"
)

// mapsAPI is the subset of *maps.Client used here.
type mapsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// Client implements ports.RouteProvider and ports.PlaceSearcher.
type Client struct {
	api     mapsAPI
	timeout time.Duration
}

// New creates a client authenticated with an API key.
func New(apiKey string, timeout time.Duration) (*Client, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &Client{api: c, timeout: timeout}, nil
}

// FetchRoute requests walking directions and returns them as a GeoJSON
// FeatureCollection of alternating point and path features.
func (c *Client) FetchRoute(ctx context.Context, req domain.RouteRequest) ([]byte, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	routes, _, err := c.api.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(req.Origin),
		Destination: latLng(req.Destination),
		Mode:        maps.TravelModeWalking,
		Language:    "ko",
	})
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	if len(routes) == 0 {
		return nil, domain.ErrNoRoute
	}
	return routeCollection(routes[0], req.DestinationName).MarshalJSON()
}

// SearchPlaces runs a Places text search, biased towards near when given.
func (c *Client) SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	r := &maps.TextSearchRequest{Query: query, Language: "ko"}
	if near != nil {
		r.Location = &maps.LatLng{Lat: near.Lat, Lng: near.Lon}
		r.Radius = 2000
	}
	resp, err := c.api.TextSearch(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	places := make([]domain.Place, 0, len(resp.Results))
	for _, res := range resp.Results {
		if len(places) == limit {
			break
		}
		places = append(places, domain.Place{
			ID:       res.PlaceID,
			Name:     res.Name,
			Address:  res.FormattedAddress,
			Location: domain.GeoPoint{Lat: res.Geometry.Location.Lat, Lon: res.Geometry.Location.Lng},
		})
	}
	return places, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func latLng(p domain.GeoPoint) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lon)
}

// routeCollection emits start point, then for every step a path followed by
// the point where the next step (or the destination) begins.
func routeCollection(r maps.Route, destinationName string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	var steps []*maps.Step
	var totalDist int
	var totalTime time.Duration
	for _, leg := range r.Legs {
		steps = append(steps, leg.Steps...)
		totalDist += leg.Distance.Meters
		totalTime += leg.Duration
	}
	if len(steps) == 0 {
		return fc
	}

	index := 0
	start := pointFeature(index, steps[0].StartLocation, int(domain.ManeuverStart), "SP", stripHTML(steps[0].HTMLInstructions))
	start.Properties["totalDistance"] = totalDist
	start.Properties["totalTime"] = int(totalTime.Seconds())
	fc.Append(start)

	for i, step := range steps {
		index++
		fc.Append(pathFeature(index, step))

		index++
		if i == len(steps)-1 {
			desc := "도착"
			if destinationName != "" {
				desc = destinationName + " 도착"
			}
			fc.Append(pointFeature(index, step.EndLocation, int(domain.ManeuverDestination), "EP", desc))
			continue
		}
		next := steps[i+1]
		fc.Append(pointFeature(index, next.StartLocation, int(turnCode(step, next)), "GP", stripHTML(next.HTMLInstructions)))
	}
	return fc
}

func pointFeature(index int, at maps.LatLng, turnType int, pointType, description string) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{at.Lng, at.Lat})
	f.Properties["index"] = index
	f.Properties["turnType"] = turnType
	f.Properties["pointType"] = pointType
	f.Properties["description"] = description
	return f
}

func pathFeature(index int, step *maps.Step) *geojson.Feature {
	line := orb.LineString{}
	if pts, err := step.Polyline.Decode(); err == nil {
		for _, p := range pts {
			line = append(line, orb.Point{p.Lng, p.Lat})
		}
	}
	if len(line) < 2 {
		line = orb.LineString{
			{step.StartLocation.Lng, step.StartLocation.Lat},
			{step.EndLocation.Lng, step.EndLocation.Lat},
		}
	}

	f := geojson.NewFeature(line)
	f.Properties["index"] = index
	f.Properties["distance"] = step.Distance.Meters
	f.Properties["time"] = int(step.Duration.Seconds())
	return f
}

// turnCode classifies the turn between two consecutive steps from the change
// in their start-to-end bearings. Positive deltas turn clockwise (right).
func turnCode(prev, next *maps.Step) domain.Maneuver {
	if samePoint(prev.StartLocation, prev.EndLocation) || samePoint(next.StartLocation, next.EndLocation) {
		return domain.ManeuverStraight
	}
	in := geospatial.InitialBearing(toGeoPoint(prev.StartLocation), toGeoPoint(prev.EndLocation))
	out := geospatial.InitialBearing(toGeoPoint(next.StartLocation), toGeoPoint(next.EndLocation))
	return turnFromDelta(geospatial.AngularDifference(out, in))
}

// turnFromDelta maps a heading change in (-180, 180] onto the clock-face
// turn codes.
func turnFromDelta(delta float64) domain.Maneuver {
	abs := math.Abs(delta)
	right := delta > 0
	switch {
	case abs < 20:
		return domain.ManeuverStraight
	case abs < 60:
		if right {
			return domain.ManeuverRight2
		}
		return domain.ManeuverLeft10
	case abs < 120:
		if right {
			return domain.ManeuverRight
		}
		return domain.ManeuverLeft
	case abs < 160:
		if right {
			return domain.ManeuverRight4
		}
		return domain.ManeuverLeft8
	default:
		return domain.ManeuverUTurn
	}
}

func samePoint(a, b maps.LatLng) bool {
	return a.Lat == b.Lat && a.Lng == b.Lng
}

func toGeoPoint(p maps.LatLng) domain.GeoPoint {
	return domain.GeoPoint{Lat: p.Lat, Lon: p.Lng}
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteRune(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

package geometry

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathpal/pathpal/internal/core/domain"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/pedestrian_route.json")
	require.NoError(t, err)
	return data
}

func TestParseRoute_Fixture(t *testing.T) {
	route, err := ParseRoute(loadFixture(t))
	require.NoError(t, err)

	require.Len(t, route.Features, 5)
	assert.Equal(t, domain.RouteSummary{TotalDistanceMeters: 1500, TotalTimeSeconds: 3700}, route.Summary)

	start := route.Features[0]
	require.Equal(t, domain.FeaturePoint, start.Kind)
	require.NotNil(t, start.Point)
	assert.Nil(t, start.Path)
	assert.Equal(t, domain.ManeuverStart, start.Point.Maneuver)
	assert.Equal(t, domain.FacilityFootpath, start.Point.Facility)
	assert.Equal(t, "SP", start.Point.PointType)
	assert.InDelta(t, 37.56668, start.Point.Coordinate.Lat, 1e-9)
	assert.InDelta(t, 126.97843, start.Point.Coordinate.Lon, 1e-9)

	seg := route.Features[1]
	require.Equal(t, domain.FeaturePath, seg.Kind)
	require.NotNil(t, seg.Path)
	assert.Len(t, seg.Path.Coordinates, 3)
	assert.Equal(t, domain.RoadTypeSeparated, seg.Path.RoadType)
	assert.Equal(t, 31, seg.Path.SegmentTimeSeconds, "string time is accepted")
	assert.Equal(t, 43, seg.Path.DistanceMeters)

	assert.Equal(t, 86, route.Features[3].Path.SegmentTimeSeconds)
	assert.Equal(t, domain.FacilityUnknown, route.Features[4].Point.Facility)

	dest, ok := route.Destination()
	require.True(t, ok)
	assert.InDelta(t, 37.56790, dest.Lat, 1e-9)
}

func TestParseRoute_NumericFacility(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[127,37.5]},"properties":{"turnType":"12","facilityType":17}}
	]}`)
	route, err := ParseRoute(data)
	require.NoError(t, err)
	assert.Equal(t, domain.FacilityStairs, route.Features[0].Point.Facility)
	assert.Equal(t, domain.ManeuverLeft, route.Features[0].Point.Maneuver)
}

func TestParseRoute_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "point with line coordinates",
			body: `{"type":"Point","coordinates":[[127,37.5],[127.1,37.6]]}`,
		},
		{
			name: "line string with point coordinates",
			body: `{"type":"LineString","coordinates":[127,37.5]}`,
		},
		{
			name: "line string with one position",
			body: `{"type":"LineString","coordinates":[[127,37.5]]}`,
		},
		{
			name: "unsupported type",
			body: `{"type":"Polygon","coordinates":[[[127,37.5],[127.1,37.5],[127.1,37.6],[127,37.5]]]}`,
		},
		{
			name: "unknown type",
			body: `{"type":"Circle","coordinates":[127,37.5]}`,
		},
		{
			name: "null geometry",
			body: `null`,
		},
		{
			name: "point with empty coordinates",
			body: `{"type":"Point","coordinates":[]}`,
		},
		{
			name: "point with one value",
			body: `{"type":"Point","coordinates":[127.0]}`,
		},
		{
			name: "point with null coordinates",
			body: `{"type":"Point","coordinates":null}`,
		},
		{
			name: "point without coordinates",
			body: `{"type":"Point"}`,
		},
		{
			name: "line string with short position",
			body: `{"type":"LineString","coordinates":[[127,37.5],[127.1]]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Point","coordinates":[127,37.5]},"properties":{}},
				{"type":"Feature","geometry":` + tt.body + `,"properties":{}}
			]}`)
			route, err := ParseRoute(data)
			assert.Nil(t, route)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedGeometry), "got %v", err)
		})
	}
}

func TestParseRoute_ShortPointBeforePath(t *testing.T) {
	for _, coords := range []string{`[]`, `[127.0]`, `null`} {
		t.Run(coords, func(t *testing.T) {
			data := []byte(`{"type":"FeatureCollection","features":[
				{"type":"Feature","geometry":{"type":"Point","coordinates":` + coords + `},"properties":{"turnType":200}},
				{"type":"Feature","geometry":{"type":"LineString","coordinates":[[127,37.5],[127,37.501]]},"properties":{}}
			]}`)
			route, err := ParseRoute(data)
			assert.Nil(t, route)
			assert.ErrorIs(t, err, domain.ErrMalformedGeometry)
		})
	}
}

func TestParseRoute_OutOfRangeNumbersAreAbsent(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[127,37.5]},
		 "properties":{"totalDistance":1e30,"totalTime":-1e300,"turnType":"NaN"}},
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[127,37.5],[127,37.501]]},
		 "properties":{"time":1e30,"distance":"1e40","roadType":21}}
	]}`)
	route, err := ParseRoute(data)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteSummary{}, route.Summary)
	assert.Equal(t, domain.ManeuverNone, route.Features[0].Point.Maneuver)

	path := route.Features[1].Path
	require.NotNil(t, path)
	assert.Equal(t, 0, path.SegmentTimeSeconds)
	assert.Equal(t, 0, path.DistanceMeters)
	assert.Equal(t, domain.RoadTypeSeparated, path.RoadType)
}

func TestParseRoute_InvalidJSON(t *testing.T) {
	_, err := ParseRoute([]byte(`{"type":`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrMalformedGeometry))
}

func TestParseRoute_Empty(t *testing.T) {
	route, err := ParseRoute([]byte(`{"type":"FeatureCollection","features":[]}`))
	require.NoError(t, err)
	assert.Empty(t, route.Features)
	assert.Equal(t, domain.RouteSummary{}, route.Summary)

	_, ok := route.Destination()
	assert.False(t, ok)
}

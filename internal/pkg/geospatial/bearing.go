package geospatial

import (
	"math"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// InitialBearing returns the great-circle initial bearing from one point to
// another in degrees clockwise from true north, within [0, 360).
// Identical points yield 0. Invalid points yield NaN.
func InitialBearing(from, to domain.GeoPoint) float64 {
	if !from.Valid() || !to.Valid() {
		return math.NaN()
	}
	lat1, lat2 := toRad(from.Lat), toRad(to.Lat)
	dLon := toRad(to.Lon - from.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeBearing(toDeg(math.Atan2(y, x)))
}

// NormalizeBearing folds any angle into [0, 360). Every bearing that is
// stored or compared goes through here.
func NormalizeBearing(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// AngularDifference returns a-b folded into (-180, 180].
func AngularDifference(a, b float64) float64 {
	d := NormalizeBearing(a - b)
	if d > 180 {
		d -= 360
	}
	return d
}

// HeadingMatches reports whether heading is within tolerance degrees of
// bearing on either side, boundaries included.
func HeadingMatches(bearing, heading, tolerance float64) bool {
	if math.IsNaN(bearing) || math.IsNaN(heading) {
		return false
	}
	return math.Abs(AngularDifference(bearing, heading)) <= tolerance
}

package tracker

import (
	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/pkg/geospatial"
)

func distanceTo(a, b domain.GeoPoint) float64 {
	return geospatial.Distance(a, b)
}

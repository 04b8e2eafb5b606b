package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for spans started by this service.
const TracerName = "github.com/pathpal/pathpal"

// Span attribute keys.
const (
	AttrSessionID      = "pathpal.session_id"
	AttrProvider       = "pathpal.routing.provider"
	AttrCacheHit       = "pathpal.cache.hit"
	AttrFeatureCount   = "pathpal.route.features"
	AttrWaypointCount  = "pathpal.route.waypoints"
	AttrTotalDistanceM = "pathpal.route.total_distance_m"
)

// Tracer returns the service tracer from the global provider, a no-op until
// InitTracer runs.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

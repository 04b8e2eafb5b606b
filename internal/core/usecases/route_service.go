package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/pkg/metrics"
	"github.com/pathpal/pathpal/internal/pkg/telemetry"
)

// RouteService fetches and parses pedestrian routes, caching the raw
// routing response.
type RouteService struct {
	provider     ports.RouteProvider
	providerName string
	cache        ports.CacheService
	ttlSeconds   int
}

// NewRouteService creates a new RouteService. cache may be nil.
func NewRouteService(provider ports.RouteProvider, providerName string, cache ports.CacheService, ttlSeconds int) *RouteService {
	return &RouteService{provider: provider, providerName: providerName, cache: cache, ttlSeconds: ttlSeconds}
}

// Provider names the routing backend, for logs and metrics.
func (s *RouteService) Provider() string { return s.providerName }

// Fetch returns the parsed route and the raw response it came from.
// A response that parses to no features is domain.ErrNoRoute.
func (s *RouteService) Fetch(ctx context.Context, req domain.RouteRequest) (*domain.Route, []byte, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "RouteService.Fetch")
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrProvider, s.providerName))

	if !req.Origin.Valid() || !req.Destination.Valid() {
		return nil, nil, domain.ErrInvalidCoordinate
	}

	cacheKey := routeCacheKey(req)
	if s.cache != nil && s.ttlSeconds > 0 {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
			if route, err := geometry.ParseRoute(raw); err == nil && len(route.Features) > 0 {
				metrics.CacheHits.WithLabelValues("route").Inc()
				span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
				return route, raw, nil
			}
			// Unreadable entry: drop it and go to the provider.
			_ = s.cache.Delete(ctx, cacheKey)
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
	}

	start := time.Now()
	raw, err := s.provider.FetchRoute(ctx, req)
	if err != nil {
		metrics.ObserveRouteFetch(s.providerName, start, "provider")
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider")
		return nil, nil, fmt.Errorf("fetch route: %w", err)
	}

	route, err := geometry.ParseRoute(raw)
	if err != nil {
		reason := "decode"
		if errors.Is(err, domain.ErrMalformedGeometry) {
			reason = "malformed"
		}
		metrics.ObserveRouteFetch(s.providerName, start, reason)
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		return nil, nil, fmt.Errorf("parse route: %w", err)
	}
	if len(route.Features) == 0 {
		metrics.ObserveRouteFetch(s.providerName, start, "empty")
		return nil, nil, domain.ErrNoRoute
	}
	metrics.ObserveRouteFetch(s.providerName, start, "")

	span.SetAttributes(
		attribute.Int(telemetry.AttrFeatureCount, len(route.Features)),
		attribute.Int(telemetry.AttrTotalDistanceM, route.Summary.TotalDistanceMeters),
	)

	if s.cache != nil && s.ttlSeconds > 0 {
		_ = s.cache.Set(ctx, cacheKey, raw, s.ttlSeconds)
	}
	return route, raw, nil
}

// Five decimals is about one meter.
func routeCacheKey(req domain.RouteRequest) string {
	return fmt.Sprintf("route:%.5f:%.5f:%.5f:%.5f:%s",
		req.Origin.Lat, req.Origin.Lon, req.Destination.Lat, req.Destination.Lon, req.DestinationPOIID)
}

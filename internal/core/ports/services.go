package ports

import (
	"context"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// RouteProvider fetches a pedestrian route from an external routing service.
// The returned bytes are a GeoJSON FeatureCollection.
type RouteProvider interface {
	FetchRoute(ctx context.Context, req domain.RouteRequest) ([]byte, error)
}

// SessionPlanner obtains the route for a session and records it: fetch,
// persist the history row, announce it. Implemented in-process and as a
// durable workflow.
type SessionPlanner interface {
	Plan(ctx context.Context, sessionID string, req domain.RouteRequest) (*domain.Route, error)
}

// PlaceSearcher resolves a free-text query into places.
type PlaceSearcher interface {
	SearchPlaces(ctx context.Context, query string, near *domain.GeoPoint, limit int) ([]domain.Place, error)
}

// EventPublisher publishes navigation events to a message broker.
type EventPublisher interface {
	PublishNarration(ctx context.Context, n *domain.Narration) error
	PublishHeadingStatus(ctx context.Context, st *domain.HeadingStatus) error
	PublishRouteReady(ctx context.Context, ev *domain.RouteReady) error
}

// EventSubscriber delivers live samples from a message broker.
type EventSubscriber interface {
	SubscribePositions(ctx context.Context, handler func(ctx context.Context, s *domain.PositionSample) error) error
	SubscribeHeadings(ctx context.Context, handler func(ctx context.Context, s *domain.HeadingSample) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

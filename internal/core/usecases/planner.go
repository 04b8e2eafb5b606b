package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
	"github.com/pathpal/pathpal/internal/core/guidance"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/pkg/logging"
)

// DirectPlanner plans sessions in-process. History and announcement are
// best-effort: a route that was fetched is never thrown away because the
// database or the broker is down.
type DirectPlanner struct {
	routes    *RouteService
	sessions  ports.SessionRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

// NewDirectPlanner creates a DirectPlanner. sessions and publisher may be nil.
func NewDirectPlanner(routes *RouteService, sessions ports.SessionRepository, publisher ports.EventPublisher) *DirectPlanner {
	return &DirectPlanner{routes: routes, sessions: sessions, publisher: publisher, now: time.Now}
}

func (p *DirectPlanner) Plan(ctx context.Context, sessionID string, req domain.RouteRequest) (*domain.Route, error) {
	log := logging.FromContext(ctx).With("session_id", sessionID)

	route, _, err := p.routes.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.sessions != nil {
		rec := NewSessionRecord(sessionID, req, route, p.now())
		if err := p.sessions.Save(ctx, rec); err != nil {
			logging.LogError(log, "persist session", err)
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishRouteReady(ctx, NewRouteReady(sessionID, route, log)); err != nil {
			log.Warn("publish route ready", "error", err)
		}
	}
	return route, nil
}

// NewSessionRecord builds the history row for a freshly planned route.
func NewSessionRecord(sessionID string, req domain.RouteRequest, route *domain.Route, at time.Time) *domain.SessionRecord {
	return &domain.SessionRecord{
		ID:              sessionID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		DestinationName: req.DestinationName,
		Summary:         route.Summary,
		WaypointCount:   len(geometry.BuildWaypoints(route.Features, discardLogger)),
		CreatedAt:       at,
	}
}

// NewRouteReady builds the announcement for a planned route.
func NewRouteReady(sessionID string, route *domain.Route, log *slog.Logger) *domain.RouteReady {
	return &domain.RouteReady{
		SessionID: sessionID,
		Summary:   route.Summary,
		Waypoints: len(geometry.BuildWaypoints(route.Features, log)),
		Text:      guidance.FormatSummary(route.Summary.TotalDistanceMeters, route.Summary.TotalTimeSeconds),
	}
}

var discardLogger = slog.New(slog.DiscardHandler)

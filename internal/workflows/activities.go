package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
	"github.com/pathpal/pathpal/internal/core/ports"
	"github.com/pathpal/pathpal/internal/core/usecases"
)

// Application error types carried across the workflow boundary.
const (
	errTypeNoRoute           = "no_route"
	errTypeMalformed         = "malformed_geometry"
	errTypeInvalidCoordinate = "invalid_coordinate"
)

// NavigationActivities holds the activity implementations for the session
// planning workflow. Sessions and Publisher may be nil.
type NavigationActivities struct {
	Routes    *usecases.RouteService
	Sessions  ports.SessionRepository
	Publisher ports.EventPublisher
}

// FetchRoute calls the routing service and returns the raw response.
// Failures that a retry cannot fix are marked non-retryable.
func (a *NavigationActivities) FetchRoute(ctx context.Context, req domain.RouteRequest) ([]byte, error) {
	_, raw, err := a.Routes.Fetch(ctx, req)
	if err != nil {
		return nil, classify(err)
	}
	return raw, nil
}

// PersistSession stores the history row for a planned route.
func (a *NavigationActivities) PersistSession(ctx context.Context, sessionID string, req domain.RouteRequest, raw []byte) error {
	if a.Sessions == nil {
		return nil
	}
	route, err := geometry.ParseRoute(raw)
	if err != nil {
		return classify(err)
	}
	if err := a.Sessions.Save(ctx, usecases.NewSessionRecord(sessionID, req, route, time.Now())); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// PublishRouteReady announces the planned route on the broker.
func (a *NavigationActivities) PublishRouteReady(ctx context.Context, sessionID string, raw []byte) error {
	if a.Publisher == nil {
		return nil
	}
	route, err := geometry.ParseRoute(raw)
	if err != nil {
		return classify(err)
	}
	ev := usecases.NewRouteReady(sessionID, route, nil)
	return a.Publisher.PublishRouteReady(ctx, ev)
}

// DeleteSession removes the history row (saga compensation).
func (a *NavigationActivities) DeleteSession(ctx context.Context, sessionID string) error {
	if a.Sessions == nil {
		return nil
	}
	if err := a.Sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	activity.GetLogger(ctx).Info("session row deleted (saga compensation)", "session_id", sessionID)
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoRoute):
		return temporal.NewNonRetryableApplicationError(err.Error(), errTypeNoRoute, err)
	case errors.Is(err, domain.ErrMalformedGeometry):
		return temporal.NewNonRetryableApplicationError(err.Error(), errTypeMalformed, err)
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return temporal.NewNonRetryableApplicationError(err.Error(), errTypeInvalidCoordinate, err)
	default:
		return err
	}
}

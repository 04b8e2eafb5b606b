package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/pathpal/pathpal/internal/core/domain"
	"github.com/pathpal/pathpal/internal/core/geometry"
)

// Planner implements ports.SessionPlanner by running PlanSessionWorkflow
// and waiting for its result.
type Planner struct {
	client    client.Client
	taskQueue string
}

// NewPlanner creates a Planner on the given task queue.
func NewPlanner(c client.Client, taskQueue string) *Planner {
	return &Planner{client: c, taskQueue: taskQueue}
}

func (p *Planner) Plan(ctx context.Context, sessionID string, req domain.RouteRequest) (*domain.Route, error) {
	run, err := p.client.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        WorkflowID(sessionID),
		TaskQueue: p.taskQueue,
	}, PlanSessionWorkflow, PlanInput{SessionID: sessionID, Request: req})
	if err != nil {
		return nil, fmt.Errorf("start planning workflow: %w", err)
	}

	var raw []byte
	if err := run.Get(ctx, &raw); err != nil {
		return nil, fromWorkflowError(err)
	}

	route, err := geometry.ParseRoute(raw)
	if err != nil {
		return nil, err
	}
	if len(route.Features) == 0 {
		return nil, domain.ErrNoRoute
	}
	return route, nil
}

// WorkflowID names the planning run of a session. Reroutes reuse it, which
// Temporal allows once the previous run has closed.
func WorkflowID(sessionID string) string {
	return "plan-session-" + sessionID
}

// fromWorkflowError restores the domain error an activity classified.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case errTypeNoRoute:
		return fmt.Errorf("%w: %s", domain.ErrNoRoute, appErr.Error())
	case errTypeMalformed:
		return fmt.Errorf("%w: %s", domain.ErrMalformedGeometry, appErr.Error())
	case errTypeInvalidCoordinate:
		return domain.ErrInvalidCoordinate
	default:
		return err
	}
}

package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/pathpal/pathpal/internal/core/domain"
)

// PlanInput is the input for the session planning workflow.
type PlanInput struct {
	SessionID string
	Request   domain.RouteRequest
}

// PlanSessionWorkflow fetches a route, records the session and announces
// it, returning the raw routing response. A failed history write is
// tolerated. If the announcement fails, the history row is deleted (saga
// compensation) and the workflow fails.
func PlanSessionWorkflow(ctx workflow.Context, input PlanInput) ([]byte, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting session planning workflow", "sessionID", input.SessionID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Fetch route
	var raw []byte
	if err := workflow.ExecuteActivity(ctx, "FetchRoute", input.Request).Get(ctx, &raw); err != nil {
		return nil, err
	}

	// Step 2: Persist history
	persisted := true
	if err := workflow.ExecuteActivity(ctx, "PersistSession", input.SessionID, input.Request, raw).Get(ctx, nil); err != nil {
		logger.Warn("session history not stored", "error", err)
		persisted = false
	}

	// Step 3: Announce
	if err := workflow.ExecuteActivity(ctx, "PublishRouteReady", input.SessionID, raw).Get(ctx, nil); err != nil {
		logger.Warn("route announcement failed, compensating", "error", err)
		if persisted {
			_ = workflow.ExecuteActivity(ctx, "DeleteSession", input.SessionID).Get(ctx, nil)
		}
		return nil, err
	}

	logger.Info("Session planned", "sessionID", input.SessionID, "bytes", len(raw))
	return raw, nil
}

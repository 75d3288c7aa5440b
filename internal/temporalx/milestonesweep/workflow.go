package milestonesweep

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow runs one sweep. Scheduling is left to a Temporal schedule or cron
// trigger; reruns are safe because notifications are deduplicated.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = workflow.Now(ctx).UTC()
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	var out Result
	if err := workflow.ExecuteActivity(ctx, ActivitySweep, asOf).Get(ctx, &out); err != nil {
		return Result{}, err
	}
	workflow.GetLogger(ctx).Info("milestone sweep finished",
		"contracts", out.ContractsScanned,
		"emitted", out.NotificationsEmitted,
	)
	return out, nil
}

package milestonesweep

import (
	"context"
	"fmt"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"
)

// Trigger starts one sweep execution and waits for its result. The
// workflow id is derived from the date so concurrent triggers for the same
// day collapse into one run.
func Trigger(ctx context.Context, tc temporalsdkclient.Client, taskQueue string, asOf time.Time) (Result, error) {
	if tc == nil {
		return Result{}, fmt.Errorf("milestonesweep: temporal client is not configured")
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.UTC()
	run, err := tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("%s-%s", WorkflowName, asOf.Format("2006-01-02")),
		TaskQueue: taskQueue,
	}, WorkflowName, Input{AsOf: asOf})
	if err != nil {
		return Result{}, fmt.Errorf("milestonesweep: start: %w", err)
	}
	var out Result
	if err := run.Get(ctx, &out); err != nil {
		return Result{}, fmt.Errorf("milestonesweep: run %s: %w", run.GetRunID(), err)
	}
	return out, nil
}

package milestonesweep

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type Activities struct {
	Log     *logger.Logger
	Sweeper services.MilestoneService
	Metrics *observability.Metrics
}

func (a *Activities) Sweep(ctx context.Context, asOf time.Time) (Result, error) {
	if a == nil || a.Sweeper == nil {
		return Result{}, fmt.Errorf("milestonesweep: activity not configured")
	}
	start := time.Now()
	res, err := a.Sweeper.SweepMilestones(ctx, asOf)
	status := "success"
	if err != nil {
		status = "error"
	}
	a.Metrics.ObserveActivity(ActivitySweep, status, time.Since(start))
	if err != nil {
		if a.Log != nil {
			a.Log.Warn("milestone sweep failed", "as_of", asOf, "error", err)
		}
		return Result{}, err
	}
	return Result{
		AsOf:                 asOf.UTC(),
		ContractsScanned:     res.ContractsScanned,
		NotificationsEmitted: res.NotificationsEmitted,
	}, nil
}

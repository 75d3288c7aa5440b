package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/qualiopi-backend/internal/app"
	"github.com/yungbote/qualiopi-backend/internal/temporalx"
	"github.com/yungbote/qualiopi-backend/internal/temporalx/milestonesweep"
	"github.com/yungbote/qualiopi-backend/internal/temporalx/temporalworker"
)

func main() {
	trigger := flag.Bool("trigger", false, "start one milestone sweep workflow and wait for its result")
	asOf := flag.String("as-of", "", "sweep reference date (YYYY-MM-DD); defaults to today")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(ctx, a, *trigger, *asOf); err != nil {
		a.Log.Error("worker exited", "error", err)
		a.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, trigger bool, asOf string) error {
	tc, err := temporalx.NewClient(ctx, a.Log, a.Cfg.Temporal)
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	if tc == nil {
		return fmt.Errorf("TEMPORAL_ADDRESS is required")
	}
	defer tc.Close()

	if trigger {
		var ref time.Time
		if asOf != "" {
			ref, err = time.Parse("2006-01-02", asOf)
			if err != nil {
				return fmt.Errorf("invalid -as-of: %w", err)
			}
		}
		res, err := milestonesweep.Trigger(ctx, tc, a.Cfg.Temporal.TaskQueue, ref)
		if err != nil {
			return err
		}
		a.Log.Info("Milestone sweep finished",
			"as_of", res.AsOf.Format("2006-01-02"),
			"contracts_scanned", res.ContractsScanned,
			"notifications_emitted", res.NotificationsEmitted,
		)
		return nil
	}

	a.StartBackground(ctx)
	runner, err := temporalworker.NewRunner(a.Log, tc, a.Cfg.Temporal, a.Services.Milestones, a.Metrics)
	if err != nil {
		return err
	}
	if err := runner.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.Log.Info("Temporal worker stopping")
	return nil
}

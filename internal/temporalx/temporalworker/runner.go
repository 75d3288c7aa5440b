package temporalworker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/activity"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
	"github.com/yungbote/qualiopi-backend/internal/services"
	"github.com/yungbote/qualiopi-backend/internal/temporalx"
	"github.com/yungbote/qualiopi-backend/internal/temporalx/milestonesweep"
)

type Runner struct {
	log     *logger.Logger
	tc      temporalsdkclient.Client
	cfg     temporalx.Config
	sweeper services.MilestoneService
	metrics *observability.Metrics
}

func NewRunner(
	log *logger.Logger,
	tc temporalsdkclient.Client,
	cfg temporalx.Config,
	sweeper services.MilestoneService,
	metrics *observability.Metrics,
) (*Runner, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("temporal worker missing deps")
	}
	return &Runner{
		log:     log.With("component", "TemporalWorker"),
		tc:      tc,
		cfg:     cfg,
		sweeper: sweeper,
		metrics: metrics,
	}, nil
}

// Start polls the task queue until ctx is cancelled. Start failures are
// retried with backoff for up to cfg.DialMaxWait.
func (r *Runner) Start(ctx context.Context) error {
	r.log.Info("Starting Temporal worker", "address", r.cfg.Address, "namespace", r.cfg.Namespace, "task_queue", r.cfg.TaskQueue)

	deadline := time.Now().Add(r.cfg.DialMaxWait)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		w := r.newWorker()
		startErr := w.Start()
		if startErr == nil {
			go func() {
				<-ctx.Done()
				w.Stop()
			}()
			r.log.Info("Temporal worker started", "task_queue", r.cfg.TaskQueue, "attempts", attempt)
			return nil
		}
		w.Stop()

		var nfe *serviceerror.NamespaceNotFound
		missingNamespace := errors.As(startErr, &nfe)
		if missingNamespace && r.cfg.AutoRegisterNamespace {
			if err := temporalx.EnsureNamespace(ctx, r.log, r.cfg); err != nil {
				r.log.Warn("Temporal namespace ensure failed", "namespace", r.cfg.Namespace, "error", err)
			}
		}

		if r.cfg.DialMaxWait <= 0 || time.Now().After(deadline) {
			if missingNamespace {
				return fmt.Errorf("temporal namespace not found (namespace=%s): %w", r.cfg.Namespace, startErr)
			}
			return startErr
		}
		r.log.Warn("Temporal worker failed to start; retrying", "attempt", attempt, "error", startErr)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
}

func (r *Runner) newWorker() worker.Worker {
	concurrency := r.cfg.WorkerConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	w := worker.New(r.tc, r.cfg.TaskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize:     concurrency,
		MaxConcurrentWorkflowTaskExecutionSize: concurrency,
	})

	acts := &milestonesweep.Activities{
		Log:     r.log,
		Sweeper: r.sweeper,
		Metrics: r.metrics,
	}
	w.RegisterWorkflowWithOptions(milestonesweep.Workflow, workflow.RegisterOptions{Name: milestonesweep.WorkflowName})
	w.RegisterActivityWithOptions(acts.Sweep, activity.RegisterOptions{Name: milestonesweep.ActivitySweep})
	return w
}

func backoff(attempt int) time.Duration {
	d := 250 * time.Millisecond
	for i := 1; i < attempt && d < 5*time.Second; i++ {
		d *= 2
	}
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

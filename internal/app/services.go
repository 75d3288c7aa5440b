package app

import (
	"fmt"

	"gorm.io/gorm"

	redisbus "github.com/yungbote/qualiopi-backend/internal/clients/redis"
	"github.com/yungbote/qualiopi-backend/internal/data/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
	"github.com/yungbote/qualiopi-backend/internal/services"
)

type Services struct {
	Plan       services.PlanService
	Milestones services.MilestoneService
	Health     services.HealthService
	Governance services.GovernanceService
	Signing    services.SigningService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r repos.Set, bus redisbus.NotificationBus, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	policy, err := services.LoadScoringPolicy(cfg.ScoringPolicyPath)
	if err != nil {
		return Services{}, fmt.Errorf("load scoring policy: %w", err)
	}

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: aggregates.NewObservabilityHooks(metrics),
	}
	planAgg := aggregates.NewPlanAggregate(aggregates.PlanAggregateDeps{
		Base:         base,
		Contracts:    r.Contracts,
		Frameworks:   r.Frameworks,
		Periods:      r.Periods,
		PlanMappings: r.PlanMappings,
		Assessments:  r.Assessments,
		Audit:        r.Audit,
	})
	milestoneAgg := aggregates.NewMilestoneAggregate(aggregates.MilestoneAggregateDeps{
		Base:       base,
		Contracts:  r.Contracts,
		Milestones: r.Milestones,
		Audit:      r.Audit,
		Policy:     policy.Milestones,
	})
	signingAgg := aggregates.NewSigningAggregate(aggregates.SigningAggregateDeps{
		Base:        base,
		Contracts:   r.Contracts,
		Periods:     r.Periods,
		Evaluations: r.Evaluations,
		Snapshots:   r.Snapshots,
		Audit:       r.Audit,
	})

	return Services{
		Plan: services.NewPlanService(log, planAgg, r.Contracts, r.Periods, r.PlanMappings),
		Milestones: services.NewMilestoneService(log, services.MilestoneServiceDeps{
			Aggregate:     milestoneAgg,
			Contracts:     r.Contracts,
			Milestones:    r.Milestones,
			Notifications: r.Notifications,
			Notifier:      services.NewNotificationNotifier(log, bus),
			Policy:        policy.Sweep,
			Metrics:       metrics,
		}),
		Health: services.NewHealthService(log, services.HealthServiceDeps{
			Contracts:  r.Contracts,
			Milestones: r.Milestones,
			Attendance: r.Attendance,
			Activity:   r.Activity,
			Policy:     policy.Health,
			Metrics:    metrics,
		}),
		Governance: services.NewGovernanceService(log, services.GovernanceServiceDeps{
			Users:       r.Users,
			Contracts:   r.Contracts,
			Milestones:  r.Milestones,
			Attendance:  r.Attendance,
			Activity:    r.Activity,
			Assessments: r.Assessments,
			Policy:      policy.Health,
			Metrics:     metrics,
			Concurrency: cfg.GovernanceConcurrency,
		}),
		Signing: services.NewSigningService(log, services.SigningServiceDeps{
			Aggregate:     signingAgg,
			Users:         r.Users,
			Metrics:       metrics,
			BaseTimeout:   cfg.BatchSignBaseTimeout,
			PerApprentice: cfg.BatchSignPerApprentice,
		}),
	}, nil
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type SweepResult struct {
	ContractsScanned     int `json:"contractsScanned"`
	NotificationsEmitted int `json:"notificationsEmitted"`
}

type MilestoneService interface {
	SyncMilestones(ctx context.Context, contractID uuid.UUID) (domainagg.SyncMilestonesResult, error)
	CompleteMilestone(ctx context.Context, milestoneID uuid.UUID, actorID *uuid.UUID) (domainagg.CompleteMilestoneResult, error)
	SweepMilestones(ctx context.Context, asOf time.Time) (SweepResult, error)
}

type MilestoneServiceDeps struct {
	Aggregate     domainagg.MilestoneAggregate
	Contracts     repos.ContractRepo
	Milestones    repos.MilestoneRepo
	Notifications repos.NotificationRepo
	Notifier      NotificationNotifier
	Policy        planner.SweepPolicy
	Metrics       *observability.Metrics
}

type milestoneService struct {
	log           *logger.Logger
	agg           domainagg.MilestoneAggregate
	contracts     repos.ContractRepo
	milestones    repos.MilestoneRepo
	notifications repos.NotificationRepo
	notifier      NotificationNotifier
	policy        planner.SweepPolicy
	metrics       *observability.Metrics
}

func NewMilestoneService(baseLog *logger.Logger, deps MilestoneServiceDeps) MilestoneService {
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}
	if deps.Policy == (planner.SweepPolicy{}) {
		deps.Policy = planner.DefaultSweepPolicy()
	}
	return &milestoneService{
		log:           baseLog.With("service", "MilestoneService"),
		agg:           deps.Aggregate,
		contracts:     deps.Contracts,
		milestones:    deps.Milestones,
		notifications: deps.Notifications,
		notifier:      deps.Notifier,
		policy:        deps.Policy,
		metrics:       deps.Metrics,
	}
}

func (s *milestoneService) SyncMilestones(ctx context.Context, contractID uuid.UUID) (domainagg.SyncMilestonesResult, error) {
	const op = "MilestoneService.SyncMilestones"
	res, err := s.agg.SyncMilestones(ctx, domainagg.SyncMilestonesInput{ContractID: contractID})
	if err != nil {
		return domainagg.SyncMilestonesResult{}, boundaryError(s.log, op, err)
	}
	if len(res.Created) > 0 {
		s.log.Info("milestones created", "contract_id", contractID.String(), "types", res.Created)
	}
	return res, nil
}

func (s *milestoneService) CompleteMilestone(ctx context.Context, milestoneID uuid.UUID, actorID *uuid.UUID) (domainagg.CompleteMilestoneResult, error) {
	const op = "MilestoneService.CompleteMilestone"
	res, err := s.agg.CompleteMilestone(ctx, domainagg.CompleteMilestoneInput{MilestoneID: milestoneID, ActorID: actorID})
	if err != nil {
		return domainagg.CompleteMilestoneResult{}, boundaryError(s.log, op, err)
	}
	return res, nil
}

// SweepMilestones scans every contract's pending milestones and stores the
// reminders and escalations they call for. A notification already stored
// for the same recipient, type and milestone is not emitted again.
func (s *milestoneService) SweepMilestones(ctx context.Context, asOf time.Time) (SweepResult, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	asOf = asOf.UTC()
	const op = "MilestoneService.SweepMilestones"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("as_of", asOf.Format(time.RFC3339)))
	defer span.End()

	dbc := dbctx.Context{Ctx: ctx}
	contracts, err := s.contracts.List(dbc, repos.ContractFilter{})
	if err != nil {
		return SweepResult{}, boundaryError(s.log, op, err)
	}
	pending, err := s.milestones.ListByStatus(dbc, compliance.MilestonePending)
	if err != nil {
		return SweepResult{}, boundaryError(s.log, op, err)
	}
	byContract := make(map[uuid.UUID][]types.Milestone, len(contracts))
	for _, m := range pending {
		byContract[m.ContractID] = append(byContract[m.ContractID], *m)
	}

	out := SweepResult{ContractsScanned: len(contracts)}
	emitted := map[string]int{}
	for _, c := range contracts {
		if err := ctx.Err(); err != nil {
			return out, boundaryError(s.log, op, err)
		}
		ms := byContract[c.ID]
		if len(ms) == 0 {
			continue
		}
		for _, spec := range planner.PlanContractSweep(s.policy, asOf, *c, ms) {
			row := &types.Notification{
				RecipientID: spec.RecipientID,
				Type:        spec.Type,
				MilestoneID: spec.MilestoneID,
				ContractID:  spec.ContractID,
				Title:       spec.Title,
				Content:     spec.Content,
				CreatedAt:   asOf,
			}
			created, err := s.notifications.CreateIfAbsent(dbc, row)
			if err != nil {
				return out, boundaryError(s.log, op, err)
			}
			if !created {
				continue
			}
			out.NotificationsEmitted++
			emitted[spec.Type]++
			s.notifier.NotificationCreated(ctx, row)
		}
	}
	s.metrics.ObserveSweep(out.ContractsScanned, emitted)
	s.log.Info("milestone sweep done", "contracts", out.ContractsScanned, "emitted", out.NotificationsEmitted)
	return out, nil
}

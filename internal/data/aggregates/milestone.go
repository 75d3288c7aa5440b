package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

type MilestoneAggregateDeps struct {
	Base       BaseDeps
	Contracts  repos.ContractRepo
	Milestones repos.MilestoneRepo
	Audit      repos.AuditRepo
	Policy     planner.MilestonePolicy
}

type milestoneAggregate struct {
	deps MilestoneAggregateDeps
}

func NewMilestoneAggregate(deps MilestoneAggregateDeps) domainagg.MilestoneAggregate {
	deps.Base = deps.Base.withDefaults()
	if deps.Policy == (planner.MilestonePolicy{}) {
		deps.Policy = planner.DefaultMilestonePolicy()
	}
	return &milestoneAggregate{deps: deps}
}

func (a *milestoneAggregate) Contract() domainagg.Contract {
	return domainagg.MilestoneAggregateContract
}

func (a *milestoneAggregate) SyncMilestones(ctx context.Context, in domainagg.SyncMilestonesInput) (domainagg.SyncMilestonesResult, error) {
	const op = "Compliance.MilestoneAggregate.SyncMilestones"
	out := domainagg.SyncMilestonesResult{}

	if in.ContractID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing contract id", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		c, err := a.deps.Contracts.GetByID(dbc, in.ContractID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(op, "contract", in.ContractID)
		}
		existing, err := a.deps.Milestones.ListByContract(dbc, c.ID)
		if err != nil {
			return err
		}
		have := make([]string, 0, len(existing))
		for _, m := range existing {
			have = append(have, m.Type)
		}

		missing := planner.MissingMilestones(planner.RequiredMilestones(a.deps.Policy, c.StartDate, c.EndDate), have)
		rows := make([]*types.Milestone, 0, len(missing))
		created := make([]string, 0, len(missing))
		for _, m := range missing {
			rows = append(rows, &types.Milestone{
				ContractID: c.ID,
				Type:       m.Type,
				DueDate:    m.DueDate,
				Status:     compliance.MilestonePending,
			})
			created = append(created, m.Type)
		}
		// A concurrent sync may have inserted some of these already; the
		// unique (contract, type) index turns those into no-ops.
		n, err := a.deps.Milestones.CreateMissing(dbc, rows)
		if err != nil {
			return err
		}
		if int(n) != len(rows) {
			after, err := a.deps.Milestones.ListByContract(dbc, c.ID)
			if err != nil {
				return err
			}
			created = createdSince(existing, after)
		}
		out = domainagg.SyncMilestonesResult{
			ContractID: c.ID,
			Created:    created,
			Existing:   len(existing),
		}
		return nil
	})
	if err != nil {
		return domainagg.SyncMilestonesResult{}, err
	}
	return out, nil
}

func createdSince(before, after []*types.Milestone) []string {
	seen := make(map[uuid.UUID]struct{}, len(before))
	for _, m := range before {
		seen[m.ID] = struct{}{}
	}
	out := []string{}
	for _, m := range after {
		if _, ok := seen[m.ID]; !ok {
			out = append(out, m.Type)
		}
	}
	return out
}

func (a *milestoneAggregate) CompleteMilestone(ctx context.Context, in domainagg.CompleteMilestoneInput) (domainagg.CompleteMilestoneResult, error) {
	const op = "Compliance.MilestoneAggregate.CompleteMilestone"
	out := domainagg.CompleteMilestoneResult{}

	if in.MilestoneID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing milestone id", nil)
	}
	completedAt := utcNow(in.CompletedAt)

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		m, err := a.deps.Milestones.GetByID(dbc, in.MilestoneID)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound(op, "milestone", in.MilestoneID)
		}
		if err := RequireStatusAllowed(m.Status, compliance.MilestonePending, compliance.MilestoneCompleted); err != nil {
			return err
		}
		if m.Status == compliance.MilestoneCompleted {
			out = alreadyCompleted(m, completedAt)
			return nil
		}

		ok, err := a.deps.Base.CASGuard.TransitionMilestone(dbc, m.ID, []string{compliance.MilestonePending}, map[string]any{
			"status":       compliance.MilestoneCompleted,
			"completed_at": completedAt,
			"updated_at":   completedAt,
		})
		if err != nil {
			return err
		}
		if !ok {
			cur, err := a.deps.Milestones.GetByID(dbc, m.ID)
			if err != nil {
				return err
			}
			if cur != nil && cur.Status == compliance.MilestoneCompleted {
				out = alreadyCompleted(cur, completedAt)
				return nil
			}
			return RequireCASSuccess(false, "milestone status changed during completion")
		}
		if _, err := appendAudit(dbc, a.deps.Audit, compliance.AuditMilestoneCompleted, "milestone", m.ID.String(), in.ActorID, completedAt, map[string]any{
			"contractId": m.ContractID.String(),
			"type":       m.Type,
			"dueDate":    m.DueDate.Format(time.DateOnly),
			"late":       m.DueDate.Before(completedAt),
		}); err != nil {
			return err
		}
		out = domainagg.CompleteMilestoneResult{
			MilestoneID: m.ID,
			ContractID:  m.ContractID,
			Status:      compliance.MilestoneCompleted,
			CompletedAt: completedAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.CompleteMilestoneResult{}, err
	}
	return out, nil
}

func alreadyCompleted(m *types.Milestone, fallback time.Time) domainagg.CompleteMilestoneResult {
	at := fallback
	if m.CompletedAt != nil {
		at = *m.CompletedAt
	}
	return domainagg.CompleteMilestoneResult{
		MilestoneID:      m.ID,
		ContractID:       m.ContractID,
		Status:           m.Status,
		CompletedAt:      at,
		AlreadyCompleted: true,
	}
}

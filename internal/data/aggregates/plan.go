package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

type PlanAggregateDeps struct {
	Base         BaseDeps
	Contracts    repos.ContractRepo
	Frameworks   repos.FrameworkRepo
	Periods      repos.PeriodRepo
	PlanMappings repos.PlanMappingRepo
	Assessments  repos.AssessmentRepo
	Audit        repos.AuditRepo
}

type planAggregate struct {
	deps PlanAggregateDeps
}

func NewPlanAggregate(deps PlanAggregateDeps) domainagg.PlanAggregate {
	deps.Base = deps.Base.withDefaults()
	return &planAggregate{deps: deps}
}

func (a *planAggregate) Contract() domainagg.Contract {
	return domainagg.PlanAggregateContract
}

func (a *planAggregate) InitializeJourney(ctx context.Context, in domainagg.InitializeJourneyInput) (domainagg.InitializeJourneyResult, error) {
	const op = "Compliance.PlanAggregate.InitializeJourney"
	out := domainagg.InitializeJourneyResult{}

	if in.ContractID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing contract id", nil)
	}
	if !in.PeriodType.Valid() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid period type %q", in.PeriodType), nil)
	}
	now := utcNow(in.Now)

	unlock, err := a.deps.Base.Locks.Lock(ctx, in.ContractID)
	if err != nil {
		return out, MapError(op, err)
	}
	defer unlock()

	err = executeWriteIsolated(ctx, a.deps.Base, op, domainagg.PlanAggregateContract.Isolation, func(dbc dbctx.Context) error {
		c, err := a.deps.Contracts.LockByID(dbc, in.ContractID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(op, "contract", in.ContractID)
		}

		fw, err := a.deps.Frameworks.GetTree(dbc, c.FrameworkID)
		if err != nil {
			return err
		}
		if fw == nil {
			return notFound(op, "framework", c.FrameworkID)
		}
		planner.SortFramework(fw)

		spans, err := planner.CutPeriods(c.StartDate, c.EndDate, in.PeriodType)
		if err != nil {
			if errors.Is(err, planner.ErrInvalidDateRange) || errors.Is(err, planner.ErrInvalidPeriodType) {
				return ValidationError(err.Error())
			}
			return err
		}

		positionings, err := a.deps.Assessments.PositioningsForContract(dbc, c.ID)
		if err != nil {
			return err
		}

		sites := map[uuid.UUID]types.TeachingSite{}
		if c.Version > 0 {
			prev, err := a.deps.PlanMappings.ListByContractVersion(dbc, c.ID, c.Version)
			if err != nil {
				return err
			}
			for _, m := range prev {
				sites[m.CompetencyID] = m.TeachingSite
			}
		}

		version, tsfStatus, regenerated := planner.NextVersion(*c)
		updates := map[string]any{
			"version":     version,
			"is_locked":   false,
			"tsf_status":  tsfStatus,
			"period_type": string(in.PeriodType),
			"updated_at":  now,
		}
		var changeLog string
		if regenerated {
			changeLog = fmt.Sprintf("Plan regenerated as %s from locked %s on %s.",
				compliance.FormatVersion(version), compliance.FormatVersion(c.Version), now.Format("2006-01-02"))
			updates["change_log"] = changeLog
		} else if c.ChangeLog != nil {
			changeLog = *c.ChangeLog
		}

		ok, err := a.deps.Base.CASGuard.UpdateContractAtVersion(dbc, c.ID, c.Version, updates)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "contract version changed during plan generation"); err != nil {
			return err
		}

		if _, err := a.deps.PlanMappings.DeleteByContract(dbc, c.ID); err != nil {
			return err
		}
		if _, err := a.deps.Periods.DeleteByContract(dbc, c.ID); err != nil {
			return err
		}

		periods := make([]*types.Period, 0, len(spans))
		for _, s := range spans {
			periods = append(periods, &types.Period{
				ContractID: c.ID,
				Label:      s.Label,
				OrderIndex: s.OrderIndex,
				StartDate:  s.Start,
				EndDate:    s.End,
			})
		}
		periods, err = a.deps.Periods.Create(dbc, periods)
		if err != nil {
			return err
		}

		specs := planner.BuildMappings(fw.Blocks, planner.PlanInputs{
			NumPeriods: len(periods),
			Levels:     planner.PositioningLevels(positionings),
			Sites:      sites,
		})
		mappings := make([]*types.PlanMapping, 0, len(specs))
		for _, s := range specs {
			mappings = append(mappings, &types.PlanMapping{
				ContractID:      c.ID,
				Version:         version,
				CompetencyID:    s.CompetencyID,
				PeriodID:        periods[s.PeriodIndex].ID,
				Status:          s.Status,
				TeachingSite:    s.TeachingSite,
				BlockLabel:      s.BlockLabel,
				BlockOrder:      s.BlockOrder,
				CompetencyLabel: s.CompetencyLabel,
				CompetencyOrder: s.CompetencyOrder,
			})
		}
		if _, err := a.deps.PlanMappings.Create(dbc, mappings); err != nil {
			return err
		}

		if _, err := appendAudit(dbc, a.deps.Audit, compliance.AuditJourneyInitialized, "contract", c.ID.String(), in.ActorID, now, map[string]any{
			"previousVersion": c.Version,
			"version":         version,
			"periodType":      string(in.PeriodType),
			"periods":         len(periods),
			"mappings":        len(mappings),
			"regenerated":     regenerated,
		}); err != nil {
			return err
		}

		out = domainagg.InitializeJourneyResult{
			ContractID:      c.ID,
			PreviousVersion: c.Version,
			Version:         version,
			Regenerated:     regenerated,
			IsLocked:        false,
			TsfStatus:       tsfStatus,
			ChangeLog:       changeLog,
			Periods:         len(periods),
			Mappings:        len(mappings),
		}
		return nil
	})
	if err != nil {
		return domainagg.InitializeJourneyResult{}, err
	}
	return out, nil
}

func (a *planAggregate) LockTSF(ctx context.Context, in domainagg.LockTSFInput) (domainagg.LockTSFResult, error) {
	const op = "Compliance.PlanAggregate.LockTSF"
	out := domainagg.LockTSFResult{}

	if in.ContractID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing contract id", nil)
	}
	signature := strings.TrimSpace(in.Signature)
	if signature == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing signature", nil)
	}
	lockedAt := utcNow(in.LockedAt)

	unlock, err := a.deps.Base.Locks.Lock(ctx, in.ContractID)
	if err != nil {
		return out, MapError(op, err)
	}
	defer unlock()

	err = executeWriteIsolated(ctx, a.deps.Base, op, domainagg.PlanAggregateContract.Isolation, func(dbc dbctx.Context) error {
		c, err := a.deps.Contracts.LockByID(dbc, in.ContractID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(op, "contract", in.ContractID)
		}
		if c.Version < 1 {
			return preconditionFailed(op, "no training plan has been generated for this contract")
		}
		if err := a.deps.Contracts.UpdateFields(dbc, c.ID, map[string]interface{}{
			"is_locked":       true,
			"locked_at":       lockedAt,
			"tutor_signature": signature,
			"tsf_status":      compliance.TsfValidated,
			"updated_at":      lockedAt,
		}); err != nil {
			return err
		}
		if _, err := appendAudit(dbc, a.deps.Audit, compliance.AuditTsfLocked, "contract", c.ID.String(), in.ActorID, lockedAt, map[string]any{
			"version":  c.Version,
			"relocked": c.IsLocked,
		}); err != nil {
			return err
		}
		out = domainagg.LockTSFResult{
			ContractID: c.ID,
			Version:    c.Version,
			TsfStatus:  compliance.TsfValidated,
			LockedAt:   lockedAt,
		}
		return nil
	})
	if err != nil {
		return domainagg.LockTSFResult{}, err
	}
	return out, nil
}

func (a *planAggregate) SetTeachingSite(ctx context.Context, in domainagg.SetTeachingSiteInput) (domainagg.SetTeachingSiteResult, error) {
	const op = "Compliance.PlanAggregate.SetTeachingSite"
	out := domainagg.SetTeachingSiteResult{}

	if in.MappingID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing mapping id", nil)
	}
	if in.Site != nil && !in.Site.Valid() {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("invalid teaching site %q", *in.Site), nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		m, err := a.deps.PlanMappings.LockByID(dbc, in.MappingID)
		if err != nil {
			return err
		}
		if m == nil {
			return notFound(op, "plan mapping", in.MappingID)
		}
		c, err := a.deps.Contracts.GetByID(dbc, m.ContractID)
		if err != nil {
			return err
		}
		if c == nil {
			return notFound(op, "contract", m.ContractID)
		}
		if c.IsLocked {
			return preconditionFailed(op, "training plan is locked")
		}

		next := m.TeachingSite.Next()
		if in.Site != nil {
			next = *in.Site
		}
		if err := a.deps.PlanMappings.UpdateFields(dbc, m.ID, map[string]interface{}{
			"teaching_site": string(next),
		}); err != nil {
			return err
		}
		if _, err := appendAudit(dbc, a.deps.Audit, compliance.AuditTeachingSiteChanged, "plan_mapping", m.ID.String(), in.ActorID, utcNow(time.Time{}), map[string]any{
			"contractId": m.ContractID.String(),
			"from":       string(m.TeachingSite),
			"to":         string(next),
		}); err != nil {
			return err
		}
		out = domainagg.SetTeachingSiteResult{MappingID: m.ID, Previous: m.TeachingSite, Site: next}
		return nil
	})
	if err != nil {
		return domainagg.SetTeachingSiteResult{}, err
	}
	return out, nil
}

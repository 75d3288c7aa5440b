package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type PlanService interface {
	InitializeJourney(ctx context.Context, contractID uuid.UUID, periodType string, actorID *uuid.UUID) (domainagg.InitializeJourneyResult, error)
	LockTSF(ctx context.Context, contractID uuid.UUID, signature string, actorID *uuid.UUID) (domainagg.LockTSFResult, error)
	GetPlan(ctx context.Context, contractID uuid.UUID) (*PlanView, error)
	CycleTeachingSite(ctx context.Context, mappingID uuid.UUID, actorID *uuid.UUID) (domainagg.SetTeachingSiteResult, error)
	SetTeachingSite(ctx context.Context, mappingID uuid.UUID, site string, actorID *uuid.UUID) (domainagg.SetTeachingSiteResult, error)
}

// PlanView is the read model of a contract's current training plan.
type PlanView struct {
	ContractID uuid.UUID    `json:"contractId"`
	Version    string       `json:"version"`
	IsLocked   bool         `json:"isLocked"`
	TsfStatus  string       `json:"tsfStatus"`
	PeriodType string       `json:"periodType"`
	ChangeLog  *string      `json:"changeLog,omitempty"`
	Periods    []PeriodView `json:"periods"`
}

type PeriodView struct {
	ID        uuid.UUID            `json:"id"`
	Label     string               `json:"label"`
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
	Mappings  []*types.PlanMapping `json:"mappings"`
}

type planService struct {
	log      *logger.Logger
	plan     domainagg.PlanAggregate
	contract repos.ContractRepo
	periods  repos.PeriodRepo
	mappings repos.PlanMappingRepo
}

func NewPlanService(baseLog *logger.Logger, plan domainagg.PlanAggregate, contracts repos.ContractRepo, periods repos.PeriodRepo, mappings repos.PlanMappingRepo) PlanService {
	return &planService{
		log:      baseLog.With("service", "PlanService"),
		plan:     plan,
		contract: contracts,
		periods:  periods,
		mappings: mappings,
	}
}

func (s *planService) InitializeJourney(ctx context.Context, contractID uuid.UUID, periodType string, actorID *uuid.UUID) (domainagg.InitializeJourneyResult, error) {
	const op = "PlanService.InitializeJourney"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("contract_id", contractID.String()))
	defer span.End()

	pt := compliance.PeriodType(strings.ToUpper(strings.TrimSpace(periodType)))
	if !pt.Valid() {
		return domainagg.InitializeJourneyResult{}, validationErr(op, fmt.Sprintf("invalid periodType %q", periodType))
	}
	res, err := s.plan.InitializeJourney(ctx, domainagg.InitializeJourneyInput{
		ContractID: contractID,
		PeriodType: pt,
		ActorID:    actorID,
	})
	if err != nil {
		span.RecordError(err)
		return domainagg.InitializeJourneyResult{}, boundaryError(s.log, op, err)
	}
	s.log.Info("journey initialized",
		"contract_id", contractID.String(),
		"version", compliance.FormatVersion(res.Version),
		"regenerated", res.Regenerated,
		"periods", res.Periods,
		"mappings", res.Mappings,
	)
	return res, nil
}

func (s *planService) LockTSF(ctx context.Context, contractID uuid.UUID, signature string, actorID *uuid.UUID) (domainagg.LockTSFResult, error) {
	const op = "PlanService.LockTSF"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("contract_id", contractID.String()))
	defer span.End()

	res, err := s.plan.LockTSF(ctx, domainagg.LockTSFInput{
		ContractID: contractID,
		Signature:  signature,
		ActorID:    actorID,
	})
	if err != nil {
		span.RecordError(err)
		return domainagg.LockTSFResult{}, boundaryError(s.log, op, err)
	}
	s.log.Info("tsf locked", "contract_id", contractID.String(), "version", compliance.FormatVersion(res.Version))
	return res, nil
}

func (s *planService) GetPlan(ctx context.Context, contractID uuid.UUID) (*PlanView, error) {
	const op = "PlanService.GetPlan"
	dbc := dbctx.Context{Ctx: ctx}
	c, err := s.contract.GetByID(dbc, contractID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFoundErr(op, "contract not found")
	}
	periods, err := s.periods.ListByContract(dbc, c.ID)
	if err != nil {
		return nil, err
	}
	mappings, err := s.mappings.ListByContractVersion(dbc, c.ID, c.Version)
	if err != nil {
		return nil, err
	}

	byPeriod := make(map[uuid.UUID][]*types.PlanMapping, len(periods))
	for _, m := range mappings {
		byPeriod[m.PeriodID] = append(byPeriod[m.PeriodID], m)
	}
	view := &PlanView{
		ContractID: c.ID,
		Version:    compliance.FormatVersion(c.Version),
		IsLocked:   c.IsLocked,
		TsfStatus:  c.TsfStatus,
		PeriodType: string(c.PeriodType),
		ChangeLog:  c.ChangeLog,
		Periods:    make([]PeriodView, 0, len(periods)),
	}
	if c.Version < 1 {
		view.Version = ""
	}
	for _, p := range periods {
		ms := byPeriod[p.ID]
		if ms == nil {
			ms = []*types.PlanMapping{}
		}
		view.Periods = append(view.Periods, PeriodView{
			ID:        p.ID,
			Label:     p.Label,
			StartDate: p.StartDate.Format("2006-01-02"),
			EndDate:   p.EndDate.Format("2006-01-02"),
			Mappings:  ms,
		})
	}
	return view, nil
}

func (s *planService) CycleTeachingSite(ctx context.Context, mappingID uuid.UUID, actorID *uuid.UUID) (domainagg.SetTeachingSiteResult, error) {
	const op = "PlanService.CycleTeachingSite"
	res, err := s.plan.SetTeachingSite(ctx, domainagg.SetTeachingSiteInput{MappingID: mappingID, ActorID: actorID})
	if err != nil {
		return domainagg.SetTeachingSiteResult{}, boundaryError(s.log, op, err)
	}
	return res, nil
}

func (s *planService) SetTeachingSite(ctx context.Context, mappingID uuid.UUID, site string, actorID *uuid.UUID) (domainagg.SetTeachingSiteResult, error) {
	const op = "PlanService.SetTeachingSite"
	parsed, err := compliance.ParseTeachingSite(site)
	if err != nil {
		return domainagg.SetTeachingSiteResult{}, validationErr(op, err.Error())
	}
	res, err := s.plan.SetTeachingSite(ctx, domainagg.SetTeachingSiteInput{MappingID: mappingID, Site: &parsed, ActorID: actorID})
	if err != nil {
		return domainagg.SetTeachingSiteResult{}, boundaryError(s.log, op, err)
	}
	return res, nil
}

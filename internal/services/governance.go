package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// GovernanceFilter narrows the contract set; nil fields do not filter.
type GovernanceFilter struct {
	FrameworkID *uuid.UUID
	TrainerID   *uuid.UUID
	TenantID    *uuid.UUID
}

type governanceQuery struct {
	FrameworkID string `validate:"omitempty,uuid"`
	TrainerID   string `validate:"omitempty,uuid"`
	TenantID    string `validate:"omitempty,uuid"`
}

var filterValidator = validator.New()

// ParseGovernanceFilter validates raw query values into a filter.
func ParseGovernanceFilter(frameworkID, trainerID, tenantID string) (GovernanceFilter, error) {
	const op = "GovernanceService.ParseFilter"
	q := governanceQuery{
		FrameworkID: strings.TrimSpace(frameworkID),
		TrainerID:   strings.TrimSpace(trainerID),
		TenantID:    strings.TrimSpace(tenantID),
	}
	if err := filterValidator.Struct(q); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
		}
		return GovernanceFilter{}, validationErr(op, "invalid filter: "+strings.Join(fields, ", ")+" must be a uuid")
	}
	return GovernanceFilter{
		FrameworkID: optionalUUID(q.FrameworkID),
		TrainerID:   optionalUUID(q.TrainerID),
		TenantID:    optionalUUID(q.TenantID),
	}, nil
}

func optionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id := uuid.MustParse(raw)
	return &id
}

type GovernanceService interface {
	KPIs(ctx context.Context, f GovernanceFilter) (planner.KPIs, error)
	HealthOverview(ctx context.Context, f GovernanceFilter) ([]planner.ContractHealth, error)
	ExportNonCompliant(ctx context.Context, f GovernanceFilter, w io.Writer) error
}

type GovernanceServiceDeps struct {
	Users       repos.UserRepo
	Contracts   repos.ContractRepo
	Milestones  repos.MilestoneRepo
	Attendance  repos.AttendanceRepo
	Activity    repos.ActivityProofRepo
	Assessments repos.AssessmentRepo
	Policy      planner.HealthPolicy
	Metrics     *observability.Metrics
	// Concurrency bounds the per-contract health fan-out; zero means 8.
	Concurrency int
	Now         func() time.Time
}

type governanceService struct {
	log         *logger.Logger
	users       repos.UserRepo
	contracts   repos.ContractRepo
	milestones  repos.MilestoneRepo
	assessments repos.AssessmentRepo
	reader      healthReader
	concurrency int
	now         func() time.Time
}

func NewGovernanceService(baseLog *logger.Logger, deps GovernanceServiceDeps) GovernanceService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Concurrency <= 0 {
		deps.Concurrency = 8
	}
	if deps.Policy == (planner.HealthPolicy{}) {
		deps.Policy = planner.DefaultHealthPolicy()
	}
	return &governanceService{
		log:         baseLog.With("service", "GovernanceService"),
		users:       deps.Users,
		contracts:   deps.Contracts,
		milestones:  deps.Milestones,
		assessments: deps.Assessments,
		concurrency: deps.Concurrency,
		now:         deps.Now,
		reader: healthReader{
			policy:     deps.Policy,
			milestones: deps.Milestones,
			attendance: deps.Attendance,
			activity:   deps.Activity,
			metrics:    deps.Metrics,
		},
	}
}

func (s *governanceService) KPIs(ctx context.Context, f GovernanceFilter) (planner.KPIs, error) {
	ctx, span := observability.StartSpan(ctx, "GovernanceService.KPIs")
	defer span.End()

	contracts, facts, err := s.collect(ctx, f)
	if err != nil {
		return planner.KPIs{}, err
	}
	active, err := s.activeApprentices(ctx, f, contracts)
	if err != nil {
		return planner.KPIs{}, err
	}
	return planner.ComputeKPIs(active, facts), nil
}

func (s *governanceService) HealthOverview(ctx context.Context, f GovernanceFilter) ([]planner.ContractHealth, error) {
	ctx, span := observability.StartSpan(ctx, "GovernanceService.HealthOverview")
	defer span.End()

	_, facts, err := s.collect(ctx, f)
	if err != nil {
		return nil, err
	}
	return planner.HealthOverview(facts), nil
}

func (s *governanceService) ExportNonCompliant(ctx context.Context, f GovernanceFilter, w io.Writer) error {
	rows, err := s.HealthOverview(ctx, f)
	if err != nil {
		return err
	}
	return planner.WriteNonCompliantExport(w, rows)
}

// activeApprentices counts apprentice users in scope. Framework and trainer
// filters only exist on contracts, so with either set the count is the
// distinct apprentices of the matching contracts.
func (s *governanceService) activeApprentices(ctx context.Context, f GovernanceFilter, contracts []*types.Contract) (int, error) {
	if f.FrameworkID == nil && f.TrainerID == nil {
		n, err := s.users.CountByRole(dbctx.Context{Ctx: ctx}, compliance.RoleApprentice, f.TenantID)
		return int(n), err
	}
	seen := make(map[uuid.UUID]struct{}, len(contracts))
	for _, c := range contracts {
		seen[c.ApprenticeID] = struct{}{}
	}
	return len(seen), nil
}

// collect loads the filtered contracts and derives their facts. Batched
// reads cover milestones, assessments and names; the per-contract health
// inputs are fetched concurrently.
func (s *governanceService) collect(ctx context.Context, f GovernanceFilter) ([]*types.Contract, []planner.ContractFacts, error) {
	dbc := dbctx.Context{Ctx: ctx}
	contracts, err := s.contracts.List(dbc, repos.ContractFilter{
		FrameworkID: f.FrameworkID,
		TrainerID:   f.TrainerID,
		TenantID:    f.TenantID,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(contracts) == 0 {
		return contracts, []planner.ContractFacts{}, nil
	}

	ids := make([]uuid.UUID, 0, len(contracts))
	apprenticeIDs := make([]uuid.UUID, 0, len(contracts))
	for _, c := range contracts {
		ids = append(ids, c.ID)
		apprenticeIDs = append(apprenticeIDs, c.ApprenticeID)
	}

	milestones, err := s.milestones.ListByContracts(dbc, ids)
	if err != nil {
		return nil, nil, err
	}
	msByContract := make(map[uuid.UUID][]*types.Milestone, len(contracts))
	for _, m := range milestones {
		msByContract[m.ContractID] = append(msByContract[m.ContractID], m)
	}

	assessments, err := s.assessments.ListByContracts(dbc, ids)
	if err != nil {
		return nil, nil, err
	}
	hasAssessment := map[uuid.UUID]bool{}
	hasValidated := map[uuid.UUID]bool{}
	for _, a := range assessments {
		hasAssessment[a.ContractID] = true
		if a.Status == compliance.AssessmentValidated {
			hasValidated[a.ContractID] = true
		}
	}

	users, err := s.users.GetByIDs(dbc, apprenticeIDs)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
	}

	now := s.now().UTC()
	facts := make([]planner.ContractFacts, len(contracts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, c := range contracts {
		ms := msByContract[c.ID]
		if ms == nil {
			ms = []*types.Milestone{}
		}
		g.Go(func() error {
			score, err := s.reader.score(dbctx.Context{Ctx: gctx}, c, ms, now)
			if err != nil {
				return err
			}
			facts[i] = planner.ContractFacts{
				ContractID:             c.ID,
				ApprenticeID:           c.ApprenticeID,
				ApprenticeName:         names[c.ApprenticeID],
				Health:                 score,
				HasAssessment:          hasAssessment[c.ID],
				HasValidatedAssessment: hasValidated[c.ID],
				TsfValidated:           c.TsfStatus == compliance.TsfValidated,
				J45Overdue:             j45Overdue(ms, now),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn("governance fan-out failed", "contracts", len(contracts), "error", err)
		return nil, nil, err
	}
	return contracts, facts, nil
}

func j45Overdue(ms []*types.Milestone, now time.Time) bool {
	for _, m := range ms {
		if m.Type == compliance.MilestoneProbationReview && m.IsOverdue(now) {
			return true
		}
	}
	return false
}

package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
	"github.com/yungbote/qualiopi-backend/internal/observability"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type HealthService interface {
	ContractHealth(ctx context.Context, contractID uuid.UUID) (planner.HealthScore, error)
}

// healthReader loads the inputs of one contract's score. It is shared by the
// single-contract endpoint and the governance fan-out.
type healthReader struct {
	policy     planner.HealthPolicy
	milestones repos.MilestoneRepo
	attendance repos.AttendanceRepo
	activity   repos.ActivityProofRepo
	metrics    *observability.Metrics
}

// score computes c's health. ms may be preloaded; nil means fetch.
func (h healthReader) score(dbc dbctx.Context, c *types.Contract, ms []*types.Milestone, now time.Time) (planner.HealthScore, error) {
	if ms == nil {
		var err error
		ms, err = h.milestones.ListByContract(dbc, c.ID)
		if err != nil {
			return planner.HealthScore{}, err
		}
	}
	att, err := h.attendance.ListByContract(dbc, c.ID)
	if err != nil {
		return planner.HealthScore{}, err
	}
	last, err := h.activity.LastActivityAt(dbc, c.ApprenticeID)
	if err != nil {
		return planner.HealthScore{}, err
	}
	out := planner.ScoreHealth(h.policy, planner.HealthInputs{
		Now:          now,
		LastActivity: last,
		Milestones:   derefMilestones(ms),
		Attendance:   derefAttendance(att),
	})
	h.metrics.ObserveHealthScore(out.Status, out.Score)
	return out, nil
}

func derefMilestones(in []*types.Milestone) []types.Milestone {
	out := make([]types.Milestone, 0, len(in))
	for _, m := range in {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func derefAttendance(in []*types.AttendanceRecord) []types.AttendanceRecord {
	out := make([]types.AttendanceRecord, 0, len(in))
	for _, a := range in {
		if a != nil {
			out = append(out, *a)
		}
	}
	return out
}

type healthService struct {
	log       *logger.Logger
	contracts repos.ContractRepo
	reader    healthReader
	now       func() time.Time
}

type HealthServiceDeps struct {
	Contracts  repos.ContractRepo
	Milestones repos.MilestoneRepo
	Attendance repos.AttendanceRepo
	Activity   repos.ActivityProofRepo
	Policy     planner.HealthPolicy
	Metrics    *observability.Metrics
	Now        func() time.Time
}

func NewHealthService(baseLog *logger.Logger, deps HealthServiceDeps) HealthService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Policy == (planner.HealthPolicy{}) {
		deps.Policy = planner.DefaultHealthPolicy()
	}
	return &healthService{
		log:       baseLog.With("service", "HealthService"),
		contracts: deps.Contracts,
		now:       deps.Now,
		reader: healthReader{
			policy:     deps.Policy,
			milestones: deps.Milestones,
			attendance: deps.Attendance,
			activity:   deps.Activity,
			metrics:    deps.Metrics,
		},
	}
}

func (s *healthService) ContractHealth(ctx context.Context, contractID uuid.UUID) (planner.HealthScore, error) {
	const op = "HealthService.ContractHealth"
	dbc := dbctx.Context{Ctx: ctx}
	c, err := s.contracts.GetByID(dbc, contractID)
	if err != nil {
		return planner.HealthScore{}, err
	}
	if c == nil {
		return planner.HealthScore{}, notFoundErr(op, "contract not found")
	}
	return s.reader.score(dbc, c, nil, s.now().UTC())
}

package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, role, first, last string, tenantID *uuid.UUID) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s.%s.%s@example.test", first, last, uuid.NewString()[:8]),
		FirstName: first,
		LastName:  last,
		Role:      role,
		TenantID:  tenantID,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedFramework creates a framework with the given number of blocks, each
// holding compsPerBlock competencies of indicatorsPerComp indicators.
func SeedFramework(tb testing.TB, ctx context.Context, tx *gorm.DB, blocks, compsPerBlock, indicatorsPerComp int) *types.Framework {
	tb.Helper()
	fw := &types.Framework{ID: uuid.New(), Code: "RNCP" + uuid.NewString()[:5], Title: "Framework"}
	for b := 0; b < blocks; b++ {
		blk := types.Block{ID: uuid.New(), FrameworkID: fw.ID, OrderIndex: b, Title: fmt.Sprintf("Block %d", b+1)}
		for c := 0; c < compsPerBlock; c++ {
			comp := types.Competency{ID: uuid.New(), BlockID: blk.ID, OrderIndex: c, Description: fmt.Sprintf("C%d.%d", b+1, c+1)}
			for i := 0; i < indicatorsPerComp; i++ {
				comp.Indicators = append(comp.Indicators, types.Indicator{ID: uuid.New(), CompetencyID: comp.ID, OrderIndex: i, Description: fmt.Sprintf("I%d.%d.%d", b+1, c+1, i+1)})
			}
			blk.Competencies = append(blk.Competencies, comp)
		}
		fw.Blocks = append(fw.Blocks, blk)
	}
	if err := tx.WithContext(ctx).Create(fw).Error; err != nil {
		tb.Fatalf("seed framework: %v", err)
	}
	return fw
}

type ContractSeed struct {
	ApprenticeID uuid.UUID
	FrameworkID  uuid.UUID
	TutorID      *uuid.UUID
	TrainerID    *uuid.UUID
	TenantID     *uuid.UUID
	Start        time.Time
	End          time.Time
	Version      int
	Locked       bool
}

func SeedContract(tb testing.TB, ctx context.Context, tx *gorm.DB, s ContractSeed) *types.Contract {
	tb.Helper()
	if s.Start.IsZero() {
		s.Start = Date(2024, time.September, 1)
	}
	if s.End.IsZero() {
		s.End = Date(2026, time.August, 31)
	}
	c := &types.Contract{
		ID:           uuid.New(),
		ApprenticeID: s.ApprenticeID,
		FrameworkID:  s.FrameworkID,
		TutorID:      s.TutorID,
		TrainerID:    s.TrainerID,
		TenantID:     s.TenantID,
		StartDate:    s.Start,
		EndDate:      s.End,
		PeriodType:   compliance.PeriodSemester,
		Version:      s.Version,
		IsLocked:     s.Locked,
		TsfStatus:    compliance.TsfDraft,
	}
	if s.Locked {
		c.TsfStatus = compliance.TsfValidated
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contract: %v", err)
	}
	return c
}

// SeedEvaluations creates one evaluation per indicator of the framework.
func SeedEvaluations(tb testing.TB, ctx context.Context, tx *gorm.DB, contractID uuid.UUID, fw *types.Framework, status string) []*types.EvaluationRecord {
	tb.Helper()
	var rows []*types.EvaluationRecord
	for _, b := range fw.Blocks {
		for _, c := range b.Competencies {
			for _, i := range c.Indicators {
				rows = append(rows, &types.EvaluationRecord{ID: uuid.New(), ContractID: contractID, IndicatorID: i.ID, Status: status})
			}
		}
	}
	if len(rows) == 0 {
		return rows
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		tb.Fatalf("seed evaluations: %v", err)
	}
	return rows
}

func SeedMilestone(tb testing.TB, ctx context.Context, tx *gorm.DB, contractID uuid.UUID, typ string, due time.Time, status string) *types.Milestone {
	tb.Helper()
	m := &types.Milestone{ID: uuid.New(), ContractID: contractID, Type: typ, DueDate: due, Status: status}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed milestone: %v", err)
	}
	return m
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, apprenticeID uuid.UUID, at time.Time) *types.ActivityProof {
	tb.Helper()
	a := &types.ActivityProof{ID: uuid.New(), ApprenticeID: apprenticeID, Title: "proof", OccurredAt: at}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return a
}

func SeedAttendance(tb testing.TB, ctx context.Context, tx *gorm.DB, contractID uuid.UUID, date time.Time, hours float64, status string) *types.AttendanceRecord {
	tb.Helper()
	a := &types.AttendanceRecord{ID: uuid.New(), ContractID: contractID, Date: date, Hours: hours, Status: status}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attendance: %v", err)
	}
	return a
}

// SeedAssessment stores an initial assessment with one positioning per entry of levels.
func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, contractID uuid.UUID, status string, levels map[uuid.UUID]int) *types.InitialAssessment {
	tb.Helper()
	a := &types.InitialAssessment{ID: uuid.New(), ContractID: contractID, Status: status}
	for compID, lvl := range levels {
		a.Positionings = append(a.Positionings, types.Positioning{ID: uuid.New(), AssessmentID: a.ID, CompetencyID: compID, InitialLevel: lvl})
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return a
}

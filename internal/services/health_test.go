package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

func newHealthServiceForTest(st serviceStore, now time.Time) HealthService {
	return NewHealthService(st.log, HealthServiceDeps{
		Contracts:  st.set.Contracts,
		Milestones: st.set.Milestones,
		Attendance: st.set.Attendance,
		Activity:   st.set.Activity,
		Now:        fixedNow(now),
	})
}

func TestContractHealth_Healthy(t *testing.T) {
	st := newServiceStore(t)
	ctx := context.Background()
	now := fixtures.Date(2025, time.March, 1)
	fw := fixtures.SeedFramework(t, ctx, st.db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, st.db, compliance.RoleApprentice, "Lea", "Martin", nil)
	c := fixtures.SeedContract(t, ctx, st.db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})
	fixtures.SeedActivity(t, ctx, st.db, ap.ID, now.AddDate(0, 0, -3))
	fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneStartInterview, now.AddDate(0, 0, -20), compliance.MilestoneCompleted)

	got, err := newHealthServiceForTest(st, now).ContractHealth(ctx, c.ID)
	if err != nil {
		t.Fatalf("ContractHealth: %v", err)
	}
	if got.Score != 100 || got.Status != compliance.HealthGood || len(got.Reasons) != 0 {
		t.Fatalf("unexpected score: %+v", got)
	}
}

func TestContractHealth_Danger(t *testing.T) {
	st := newServiceStore(t)
	ctx := context.Background()
	now := fixtures.Date(2025, time.March, 1)
	fw := fixtures.SeedFramework(t, ctx, st.db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, st.db, compliance.RoleApprentice, "Tom", "Petit", nil)
	c := fixtures.SeedContract(t, ctx, st.db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})
	fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneStartInterview, now.AddDate(0, 0, -40), compliance.MilestonePending)
	fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneProbationReview, now.AddDate(0, 0, -5), compliance.MilestonePending)
	for i := 0; i < 8; i++ {
		fixtures.SeedAttendance(t, ctx, st.db, c.ID, now.AddDate(0, 0, -i-1), 7, compliance.AttendancePresent)
	}
	fixtures.SeedAttendance(t, ctx, st.db, c.ID, now.AddDate(0, 0, -10), 7, compliance.AttendanceAbsentUnjustified)
	fixtures.SeedAttendance(t, ctx, st.db, c.ID, now.AddDate(0, 0, -11), 7, compliance.AttendanceAbsentUnjustified)

	got, err := newHealthServiceForTest(st, now).ContractHealth(ctx, c.ID)
	if err != nil {
		t.Fatalf("ContractHealth: %v", err)
	}
	// 100 - 20 inactivity - 2*30 overdue - 10 absence
	if got.Score != 10 || got.Status != compliance.HealthDanger || len(got.Reasons) != 3 {
		t.Fatalf("unexpected score: %+v", got)
	}
}

func TestContractHealth_NotFound(t *testing.T) {
	st := newServiceStore(t)
	_, err := newHealthServiceForTest(st, time.Now()).ContractHealth(context.Background(), uuid.New())
	if domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

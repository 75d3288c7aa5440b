package aggregates

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

func TestSyncMilestones_CreatesOnlyMissingTypes(t *testing.T) {
	db, set, base := newTestStore(t)
	ctx := context.Background()
	agg := NewMilestoneAggregate(MilestoneAggregateDeps{
		Base:       base,
		Contracts:  set.Contracts,
		Milestones: set.Milestones,
		Audit:      set.Audit,
	})

	fw := fixtures.SeedFramework(t, ctx, db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, db, compliance.RoleApprentice, "Emma", "Durand", nil)
	c := fixtures.SeedContract(t, ctx, db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})
	custom := fixtures.Date(2024, time.September, 20)
	fixtures.SeedMilestone(t, ctx, db, c.ID, compliance.MilestoneStartInterview, custom, compliance.MilestonePending)

	res, err := agg.SyncMilestones(ctx, domainagg.SyncMilestonesInput{ContractID: c.ID})
	if err != nil {
		t.Fatalf("SyncMilestones: %v", err)
	}
	want := []string{
		compliance.MilestoneProbationReview,
		"SEMESTER_REVIEW_6",
		"SEMESTER_REVIEW_12",
		"SEMESTER_REVIEW_18",
	}
	if !reflect.DeepEqual(res.Created, want) || res.Existing != 1 {
		t.Fatalf("first sync: created=%v existing=%d", res.Created, res.Existing)
	}

	again, err := agg.SyncMilestones(ctx, domainagg.SyncMilestonesInput{ContractID: c.ID})
	if err != nil {
		t.Fatalf("second SyncMilestones: %v", err)
	}
	if len(again.Created) != 0 || again.Existing != 5 {
		t.Fatalf("second sync should be a no-op: %+v", again)
	}

	rows, err := set.Milestones.ListByContract(dbctx.Context{Ctx: ctx}, c.ID)
	if err != nil {
		t.Fatalf("ListByContract: %v", err)
	}
	for _, m := range rows {
		if m.Type == compliance.MilestoneStartInterview && !m.DueDate.Equal(custom) {
			t.Fatalf("existing milestone was overwritten: %s", m.DueDate)
		}
		if m.Type == compliance.MilestoneProbationReview && !m.DueDate.Equal(fixtures.Date(2024, time.October, 16)) {
			t.Fatalf("J+45 due date: %s", m.DueDate)
		}
	}

	if _, err := agg.SyncMilestones(ctx, domainagg.SyncMilestonesInput{ContractID: uuid.New()}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing contract: want not_found, got %v", err)
	}
}

func TestCompleteMilestone_IsIdempotent(t *testing.T) {
	db, set, base := newTestStore(t)
	ctx := context.Background()
	agg := NewMilestoneAggregate(MilestoneAggregateDeps{
		Base:       base,
		Contracts:  set.Contracts,
		Milestones: set.Milestones,
		Audit:      set.Audit,
	})

	fw := fixtures.SeedFramework(t, ctx, db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, db, compliance.RoleApprentice, "Jade", "Lefebvre", nil)
	c := fixtures.SeedContract(t, ctx, db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})
	m := fixtures.SeedMilestone(t, ctx, db, c.ID, compliance.MilestoneProbationReview, fixtures.Date(2024, time.October, 16), compliance.MilestonePending)

	at := time.Date(2024, time.October, 20, 14, 0, 0, 0, time.UTC)
	first, err := agg.CompleteMilestone(ctx, domainagg.CompleteMilestoneInput{MilestoneID: m.ID, CompletedAt: at})
	if err != nil {
		t.Fatalf("CompleteMilestone: %v", err)
	}
	if first.AlreadyCompleted || first.Status != compliance.MilestoneCompleted || !first.CompletedAt.Equal(at) {
		t.Fatalf("unexpected first result: %+v", first)
	}

	second, err := agg.CompleteMilestone(ctx, domainagg.CompleteMilestoneInput{MilestoneID: m.ID, CompletedAt: at.Add(48 * time.Hour)})
	if err != nil {
		t.Fatalf("second CompleteMilestone: %v", err)
	}
	if !second.AlreadyCompleted || !second.CompletedAt.Equal(at) {
		t.Fatalf("second completion should keep the original timestamp: %+v", second)
	}

	entries, err := set.Audit.ListByEntity(dbctx.Context{Ctx: ctx}, "milestone", m.ID.String())
	if err != nil || len(entries) != 1 {
		t.Fatalf("want exactly one audit entry, got %d (%v)", len(entries), err)
	}

	if _, err := agg.CompleteMilestone(ctx, domainagg.CompleteMilestoneInput{MilestoneID: uuid.New()}); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("missing milestone: want not_found, got %v", err)
	}
}

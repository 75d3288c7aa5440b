package aggregates

import (
	"context"
	"testing"
	"time"

	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

func TestRequireStatusAllowed(t *testing.T) {
	if err := RequireStatusAllowed("PENDING", compliance.MilestonePending, compliance.MilestoneCompleted); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireStatusAllowed("CANCELLED", compliance.MilestonePending); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRequireCASSuccess(t *testing.T) {
	if err := RequireCASSuccess(true, "ok"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := RequireCASSuccess(false, "stale"); !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateContractAtVersion(t *testing.T) {
	db, set, _ := newTestStore(t)
	ctx := context.Background()
	guard := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx}

	fw := fixtures.SeedFramework(t, ctx, db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, db, compliance.RoleApprentice, "Lina", "Girard", nil)
	c := fixtures.SeedContract(t, ctx, db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID, Version: 2})

	ok, err := guard.UpdateContractAtVersion(dbc, c.ID, 1, map[string]any{"version": 3})
	if err != nil || ok {
		t.Fatalf("stale version must not write: ok=%v err=%v", ok, err)
	}
	ok, err = guard.UpdateContractAtVersion(dbc, c.ID, 2, map[string]any{"version": 3})
	if err != nil || !ok {
		t.Fatalf("current version must write: ok=%v err=%v", ok, err)
	}
	stored, _ := set.Contracts.GetByID(dbc, c.ID)
	if stored.Version != 3 {
		t.Fatalf("version: want 3 got %d", stored.Version)
	}
}

func TestTransitionMilestone(t *testing.T) {
	db, set, _ := newTestStore(t)
	ctx := context.Background()
	guard := NewCASGuard(db)
	dbc := dbctx.Context{Ctx: ctx}

	fw := fixtures.SeedFramework(t, ctx, db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, db, compliance.RoleApprentice, "Yanis", "Lopez", nil)
	c := fixtures.SeedContract(t, ctx, db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})
	due := fixtures.Date(2024, time.October, 16)
	pending := fixtures.SeedMilestone(t, ctx, db, c.ID, compliance.MilestoneProbationReview, due, compliance.MilestonePending)
	done := fixtures.SeedMilestone(t, ctx, db, c.ID, compliance.MilestoneStartInterview, due, compliance.MilestoneCompleted)

	updates := map[string]any{"status": compliance.MilestoneCompleted}
	if ok, err := guard.TransitionMilestone(dbc, done.ID, []string{compliance.MilestonePending}, updates); err != nil || ok {
		t.Fatalf("completed milestone must not match: ok=%v err=%v", ok, err)
	}
	if ok, err := guard.TransitionMilestone(dbc, pending.ID, []string{compliance.MilestonePending}, updates); err != nil || !ok {
		t.Fatalf("pending milestone must transition: ok=%v err=%v", ok, err)
	}
	if ok, _ := guard.TransitionMilestone(dbc, pending.ID, []string{compliance.MilestonePending}, updates); ok {
		t.Fatalf("second transition must lose the compare-and-set")
	}
	stored, _ := set.Milestones.GetByID(dbc, pending.ID)
	if stored.Status != compliance.MilestoneCompleted {
		t.Fatalf("status: want COMPLETED got %s", stored.Status)
	}
	if _, err := guard.TransitionMilestone(dbc, pending.ID, nil, updates); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("empty source statuses: want validation, got %v", err)
	}
}

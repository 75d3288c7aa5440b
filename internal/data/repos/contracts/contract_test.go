package contracts

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

func TestContractRepo_ListFilter(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewContractRepo(db, testutil.Logger(t))

	tenant := uuid.New()
	trainer := testutil.SeedUser(t, ctx, tx, compliance.RoleTrainer, "Paul", "Trainer", &tenant)
	fwA := testutil.SeedFramework(t, ctx, tx, 1, 1, 1)
	fwB := testutil.SeedFramework(t, ctx, tx, 1, 1, 1)
	a1 := testutil.SeedUser(t, ctx, tx, compliance.RoleApprentice, "Ana", "One", &tenant)
	a2 := testutil.SeedUser(t, ctx, tx, compliance.RoleApprentice, "Ben", "Two", &tenant)
	a3 := testutil.SeedUser(t, ctx, tx, compliance.RoleApprentice, "Cid", "Three", nil)

	c1 := testutil.SeedContract(t, ctx, tx, testutil.ContractSeed{ApprenticeID: a1.ID, FrameworkID: fwA.ID, TrainerID: &trainer.ID, TenantID: &tenant})
	testutil.SeedContract(t, ctx, tx, testutil.ContractSeed{ApprenticeID: a2.ID, FrameworkID: fwB.ID, TenantID: &tenant})
	testutil.SeedContract(t, ctx, tx, testutil.ContractSeed{ApprenticeID: a3.ID, FrameworkID: fwA.ID})

	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	all, err := repo.List(dbc, Filter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List all: %d %v", len(all), err)
	}
	byFw, err := repo.List(dbc, Filter{FrameworkID: &fwA.ID})
	if err != nil || len(byFw) != 2 {
		t.Fatalf("List by framework: %d %v", len(byFw), err)
	}
	combined, err := repo.List(dbc, Filter{FrameworkID: &fwA.ID, TenantID: &tenant, TrainerID: &trainer.ID})
	if err != nil || len(combined) != 1 || combined[0].ID != c1.ID {
		t.Fatalf("List combined: %+v %v", combined, err)
	}
	none, err := repo.List(dbc, Filter{ApprenticeIDs: []uuid.UUID{}})
	if err != nil || len(none) != 0 {
		t.Fatalf("empty apprentice set must match nothing: %d %v", len(none), err)
	}
	locked, err := repo.LockByFilter(dbc, Filter{FrameworkID: &fwA.ID, ApprenticeIDs: []uuid.UUID{a1.ID, a2.ID}})
	if err != nil || len(locked) != 1 || locked[0].ID != c1.ID {
		t.Fatalf("LockByFilter: %+v %v", locked, err)
	}
}

func TestContractRepo_UpdateFieldsAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewContractRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	fw := testutil.SeedFramework(t, ctx, tx, 1, 1, 1)
	ap := testutil.SeedUser(t, ctx, tx, compliance.RoleApprentice, "Ana", "One", nil)
	c := testutil.SeedContract(t, ctx, tx, testutil.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})

	if err := repo.UpdateFields(dbc, c.ID, map[string]interface{}{"version": 5, "is_locked": true}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.LockByID(dbc, c.ID)
	if err != nil || got == nil {
		t.Fatalf("LockByID: %v %v", got, err)
	}
	if got.Version != 5 || !got.IsLocked {
		t.Fatalf("update not applied: %+v", got)
	}
	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("missing contract should be nil,nil: %v %v", missing, err)
	}
}

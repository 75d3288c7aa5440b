package framework

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

func TestFrameworkRepo_GetTreeOrdered(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewFrameworkRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	seeded := testutil.SeedFramework(t, ctx, tx, 3, 2, 2)
	fw, err := repo.GetTree(dbc, seeded.ID)
	if err != nil || fw == nil {
		t.Fatalf("GetTree: %v %v", fw, err)
	}
	if len(fw.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(fw.Blocks))
	}
	for i, b := range fw.Blocks {
		if b.OrderIndex != i {
			t.Fatalf("blocks out of order: %d at %d", b.OrderIndex, i)
		}
		if len(b.Competencies) != 2 || len(b.Competencies[1].Indicators) != 2 {
			t.Fatalf("incomplete tree under block %d", i)
		}
	}
	missing, err := repo.GetTree(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("missing framework should be nil,nil: %v %v", missing, err)
	}
}

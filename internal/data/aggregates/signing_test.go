package aggregates

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// failingSnapshots fails the n-th Create call.
type failingSnapshots struct {
	repos.SnapshotRepo
	failOn int
	calls  int
}

func (f *failingSnapshots) Create(dbc dbctx.Context, row *types.SnapshotReport) (*types.SnapshotReport, error) {
	f.calls++
	if f.calls == f.failOn {
		return nil, errors.New("snapshot storage unavailable")
	}
	return f.SnapshotRepo.Create(dbc, row)
}

type signingFixture struct {
	db          *gorm.DB
	set         repos.Set
	base        BaseDeps
	fw          *types.Framework
	validator   *types.User
	apprentices []uuid.UUID
	contracts   []*types.Contract
}

func newSigningFixture(t *testing.T, n int) signingFixture {
	t.Helper()
	db, set, base := newTestStore(t)
	ctx := context.Background()
	f := signingFixture{db: db, set: set, base: base}
	f.fw = fixtures.SeedFramework(t, ctx, db, 1, 1, 2)
	f.validator = fixtures.SeedUser(t, ctx, db, compliance.RoleTrainer, "Claire", "Fontaine", nil)
	for i := 0; i < n; i++ {
		ap := fixtures.SeedUser(t, ctx, db, compliance.RoleApprentice, "App", uuid.NewString()[:6], nil)
		c := fixtures.SeedContract(t, ctx, db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: f.fw.ID, Version: 1})
		f.apprentices = append(f.apprentices, ap.ID)
		f.contracts = append(f.contracts, c)
	}
	return f
}

func (f signingFixture) aggregate(snapshots repos.SnapshotRepo) domainagg.SigningAggregate {
	return NewSigningAggregate(SigningAggregateDeps{
		Base:        f.base,
		Contracts:   f.set.Contracts,
		Periods:     f.set.Periods,
		Evaluations: f.set.Evaluations,
		Snapshots:   snapshots,
		Audit:       f.set.Audit,
	})
}

func TestSignBatch_SignsAcquiredAndArchives(t *testing.T) {
	f := newSigningFixture(t, 2)
	ctx := context.Background()
	acquired := fixtures.SeedEvaluations(t, ctx, f.db, f.contracts[0].ID, f.fw, compliance.EvaluationAcquis)
	pending := fixtures.SeedEvaluations(t, ctx, f.db, f.contracts[1].ID, f.fw, compliance.EvaluationPending)

	signedAt := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	periods := []*types.Period{
		{ContractID: f.contracts[0].ID, Label: "Semestre 1", OrderIndex: 0, StartDate: fixtures.Date(2024, time.September, 1), EndDate: fixtures.Date(2025, time.March, 1)},
		{ContractID: f.contracts[0].ID, Label: "Semestre 2", OrderIndex: 1, StartDate: fixtures.Date(2025, time.March, 1), EndDate: fixtures.Date(2025, time.September, 1)},
	}
	if _, err := f.set.Periods.Create(dbctx.Context{Ctx: ctx}, periods); err != nil {
		t.Fatalf("seed periods: %v", err)
	}

	res, err := f.aggregate(f.set.Snapshots).SignBatch(ctx, domainagg.SignBatchInput{
		FrameworkID:   f.fw.ID,
		ApprenticeIDs: f.apprentices,
		ValidatorID:   f.validator.ID,
		ValidatorName: f.validator.FullName(),
		SignedAt:      signedAt,
		Timeout:       5 * time.Second,
	})
	if err != nil {
		t.Fatalf("SignBatch: %v", err)
	}
	if res.Signed != int64(len(acquired)) || res.Snapshots != 2 || res.AuditEntryID == uuid.Nil {
		t.Fatalf("unexpected result: %+v", res)
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows, _ := f.set.Evaluations.ListByContract(dbc, f.contracts[0].ID)
	for _, r := range rows {
		if !r.IsSigned || r.SignedAt == nil || r.ValidatorID == nil || *r.ValidatorID != f.validator.ID {
			t.Fatalf("evaluation not stamped: %+v", r)
		}
		if !strings.Contains(r.Comment, f.validator.FullName()) {
			t.Fatalf("comment should name the validator: %q", r.Comment)
		}
	}
	rows, _ = f.set.Evaluations.ListByContract(dbc, f.contracts[1].ID)
	if len(rows) != len(pending) {
		t.Fatalf("pending evaluations: %d", len(rows))
	}
	for _, r := range rows {
		if r.IsSigned {
			t.Fatalf("pending evaluation must stay unsigned")
		}
	}

	snaps, _ := f.set.Snapshots.ListByContract(dbc, f.contracts[0].ID)
	if len(snaps) != 1 || snaps[0].PeriodLabel != "Semestre 2" || len(snaps[0].VerificationHash) != 64 {
		t.Fatalf("snapshot for signed contract: %+v", snaps)
	}
	snaps, _ = f.set.Snapshots.ListByContract(dbc, f.contracts[1].ID)
	if len(snaps) != 1 || snaps[0].PeriodLabel != OutsidePeriodLabel {
		t.Fatalf("snapshot for contract without periods: %+v", snaps)
	}

	entries, _ := f.set.Audit.ListByAction(dbc, compliance.AuditBatchSign)
	if len(entries) != 1 || entries[0].EntityID != f.fw.ID.String() {
		t.Fatalf("batch audit entries: %+v", entries)
	}

	again, err := f.aggregate(f.set.Snapshots).SignBatch(ctx, domainagg.SignBatchInput{
		FrameworkID:   f.fw.ID,
		ApprenticeIDs: f.apprentices,
		ValidatorID:   f.validator.ID,
	})
	if err != nil || again.Signed != 0 {
		t.Fatalf("re-signing should touch nothing: %+v %v", again, err)
	}
}

func TestSignBatch_RollsBackWhenSnapshotFails(t *testing.T) {
	f := newSigningFixture(t, 3)
	ctx := context.Background()
	for _, c := range f.contracts {
		fixtures.SeedEvaluations(t, ctx, f.db, c.ID, f.fw, compliance.EvaluationAcquis)
	}
	hooks := &spyHooks{}
	f.base.Hooks = hooks

	_, err := f.aggregate(&failingSnapshots{SnapshotRepo: f.set.Snapshots, failOn: 3}).SignBatch(ctx, domainagg.SignBatchInput{
		FrameworkID:   f.fw.ID,
		ApprenticeIDs: f.apprentices,
		ValidatorID:   f.validator.ID,
		ValidatorName: f.validator.FullName(),
	})
	if err == nil {
		t.Fatalf("expected failure")
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status == "success" {
		t.Fatalf("failure should be observed once: %+v", hooks.Operations)
	}

	dbc := dbctx.Context{Ctx: ctx}
	for _, c := range f.contracts {
		rows, _ := f.set.Evaluations.ListByContract(dbc, c.ID)
		for _, r := range rows {
			if r.IsSigned {
				t.Fatalf("evaluation %s signed despite rollback", r.ID)
			}
		}
	}
	if n, _ := f.set.Snapshots.Count(dbc); n != 0 {
		t.Fatalf("snapshots survived rollback: %d", n)
	}
	if entries, _ := f.set.Audit.ListByAction(dbc, compliance.AuditBatchSign); len(entries) != 0 {
		t.Fatalf("audit entry survived rollback: %d", len(entries))
	}
}

func TestSignBatch_OverlappingBatchesSignOnce(t *testing.T) {
	f := newSigningFixture(t, 3)
	ctx := context.Background()
	var total int64
	for _, c := range f.contracts {
		total += int64(len(fixtures.SeedEvaluations(t, ctx, f.db, c.ID, f.fw, compliance.EvaluationAcquis)))
	}
	agg := f.aggregate(f.set.Snapshots)

	batches := [][]uuid.UUID{f.apprentices[:2], f.apprentices[1:]}
	results := make([]domainagg.SignBatchResult, len(batches))
	errs := make([]error, len(batches))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, batch := range batches {
		wg.Add(1)
		go func(i int, batch []uuid.UUID) {
			defer wg.Done()
			<-start
			results[i], errs[i] = agg.SignBatch(ctx, domainagg.SignBatchInput{
				FrameworkID:   f.fw.ID,
				ApprenticeIDs: batch,
				ValidatorID:   f.validator.ID,
				ValidatorName: f.validator.FullName(),
				Timeout:       10 * time.Second,
			})
		}(i, batch)
	}
	close(start)
	wg.Wait()

	var signed int64
	for i, err := range errs {
		if err != nil {
			t.Fatalf("batch %d: %v", i, err)
		}
		if results[i].Snapshots != 2 {
			t.Fatalf("batch %d: want 2 snapshots, got %d", i, results[i].Snapshots)
		}
		signed += results[i].Signed
	}
	if signed != total {
		t.Fatalf("evaluations signed across batches: want %d got %d", total, signed)
	}

	dbc := dbctx.Context{Ctx: ctx}
	for i, c := range f.contracts {
		rows, _ := f.set.Evaluations.ListByContract(dbc, c.ID)
		for _, r := range rows {
			if !r.IsSigned {
				t.Fatalf("contract %d: evaluation %s left unsigned", i, r.ID)
			}
		}
		// The shared apprentice is in both batches.
		want := 1
		if i == 1 {
			want = 2
		}
		snaps, _ := f.set.Snapshots.ListByContract(dbc, c.ID)
		if len(snaps) != want {
			t.Fatalf("contract %d: want %d snapshots, got %d", i, want, len(snaps))
		}
	}
	if entries, _ := f.set.Audit.ListByAction(dbc, compliance.AuditBatchSign); len(entries) != len(batches) {
		t.Fatalf("batch audit entries: want %d got %d", len(batches), len(entries))
	}
}

func TestSignBatch_RejectsEmptyOrUnknownSelection(t *testing.T) {
	f := newSigningFixture(t, 1)
	ctx := context.Background()
	agg := f.aggregate(f.set.Snapshots)

	_, err := agg.SignBatch(ctx, domainagg.SignBatchInput{FrameworkID: f.fw.ID, ValidatorID: f.validator.ID})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("empty apprentices: want validation, got %v", err)
	}
	_, err = agg.SignBatch(ctx, domainagg.SignBatchInput{FrameworkID: uuid.New(), ApprenticeIDs: f.apprentices, ValidatorID: f.validator.ID})
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("unknown framework: want not_found, got %v", err)
	}
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/qualiopi-backend/internal/data/aggregates"
	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/qualiopi-backend/internal/domain/aggregates"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

func newMilestoneServiceForTest(st serviceStore, notifier NotificationNotifier) MilestoneService {
	agg := aggregates.NewMilestoneAggregate(aggregates.MilestoneAggregateDeps{
		Base:       st.base,
		Contracts:  st.set.Contracts,
		Milestones: st.set.Milestones,
		Audit:      st.set.Audit,
	})
	return NewMilestoneService(st.log, MilestoneServiceDeps{
		Aggregate:     agg,
		Contracts:     st.set.Contracts,
		Milestones:    st.set.Milestones,
		Notifications: st.set.Notifications,
		Notifier:      notifier,
	})
}

func TestSweepMilestones_EscalatesOnceAndStaysIdempotent(t *testing.T) {
	st := newServiceStore(t)
	ctx := context.Background()
	now := fixtures.Date(2025, time.March, 1)
	fw := fixtures.SeedFramework(t, ctx, st.db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, st.db, compliance.RoleApprentice, "Lina", "Morel", nil)
	tutor := fixtures.SeedUser(t, ctx, st.db, compliance.RoleTutor, "Paul", "Girard", nil)
	trainer := fixtures.SeedUser(t, ctx, st.db, compliance.RoleTrainer, "Ines", "Faure", nil)
	c := fixtures.SeedContract(t, ctx, st.db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID, TutorID: &tutor.ID, TrainerID: &trainer.ID})

	probation := fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneProbationReview, now.AddDate(0, 0, -2), compliance.MilestonePending)
	fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneStartInterview, now.AddDate(0, 0, 3), compliance.MilestonePending)
	fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneSemesterPrefix+"6", now.AddDate(0, 2, 0), compliance.MilestonePending)
	fixtures.SeedMilestone(t, ctx, st.db, c.ID, compliance.MilestoneSemesterPrefix+"12", now.AddDate(0, 0, -30), compliance.MilestoneCompleted)

	rec := &recordingNotifier{}
	svc := newMilestoneServiceForTest(st, rec)

	res, err := svc.SweepMilestones(ctx, now)
	if err != nil {
		t.Fatalf("SweepMilestones: %v", err)
	}
	// tutor: probation overdue + start interview upcoming; trainer: J+45 escalation
	if res.ContractsScanned != 1 || res.NotificationsEmitted != 3 || rec.count() != 3 {
		t.Fatalf("unexpected first sweep: %+v published=%d", res, rec.count())
	}

	trainerRows, err := st.set.Notifications.ListByRecipient(dbctx.Context{Ctx: ctx}, trainer.ID, 10)
	if err != nil {
		t.Fatalf("list trainer notifications: %v", err)
	}
	if len(trainerRows) != 1 || trainerRows[0].Type != compliance.NotificationJ45Escalation || trainerRows[0].MilestoneID != probation.ID {
		t.Fatalf("unexpected trainer notifications: %+v", trainerRows)
	}

	res, err = svc.SweepMilestones(ctx, now.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.NotificationsEmitted != 0 || rec.count() != 3 {
		t.Fatalf("second sweep should emit nothing: %+v published=%d", res, rec.count())
	}
}

func TestMilestoneService_SyncAndComplete(t *testing.T) {
	st := newServiceStore(t)
	ctx := context.Background()
	fw := fixtures.SeedFramework(t, ctx, st.db, 1, 1, 1)
	ap := fixtures.SeedUser(t, ctx, st.db, compliance.RoleApprentice, "Hugo", "Lambert", nil)
	c := fixtures.SeedContract(t, ctx, st.db, fixtures.ContractSeed{ApprenticeID: ap.ID, FrameworkID: fw.ID})
	svc := newMilestoneServiceForTest(st, nil)

	synced, err := svc.SyncMilestones(ctx, c.ID)
	if err != nil {
		t.Fatalf("SyncMilestones: %v", err)
	}
	if len(synced.Created) == 0 {
		t.Fatalf("expected milestones to be created")
	}

	ms, err := st.set.Milestones.ListByContract(dbctx.Context{Ctx: ctx}, c.ID)
	if err != nil || len(ms) == 0 {
		t.Fatalf("list milestones: %v", err)
	}
	first, err := svc.CompleteMilestone(ctx, ms[0].ID, &ap.ID)
	if err != nil || first.AlreadyCompleted {
		t.Fatalf("CompleteMilestone: %+v %v", first, err)
	}
	again, err := svc.CompleteMilestone(ctx, ms[0].ID, &ap.ID)
	if err != nil || !again.AlreadyCompleted || !again.CompletedAt.Equal(first.CompletedAt) {
		t.Fatalf("second completion should be a no-op: %+v %v", again, err)
	}

	if _, err := svc.SyncMilestones(ctx, uuid.New()); domainagg.CodeOf(err) != domainagg.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

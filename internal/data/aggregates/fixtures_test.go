package aggregates

import (
	"testing"

	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	fixtures "github.com/yungbote/qualiopi-backend/internal/data/repos/testutil"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (*gorm.DB, repos.Set, BaseDeps) {
	t.Helper()
	db := fixtures.DB(t)
	log := fixtures.Logger(t)
	return db, repos.NewSet(db, log), BaseDeps{DB: db, Log: log}
}

func newPlanAggregateForTest(set repos.Set, base BaseDeps) *planAggregate {
	return NewPlanAggregate(PlanAggregateDeps{
		Base:         base,
		Contracts:    set.Contracts,
		Frameworks:   set.Frameworks,
		Periods:      set.Periods,
		PlanMappings: set.PlanMappings,
		Assessments:  set.Assessments,
		Audit:        set.Audit,
	}).(*planAggregate)
}

package compliance

import (
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

func TestBuildMappings_StatusAndCarriedSites(t *testing.T) {
	c1, c2, c3 := uuid.New(), uuid.New(), uuid.New()
	fw := &types.Framework{Blocks: []types.Block{
		{Title: "B2", OrderIndex: 2, Competencies: []types.Competency{{ID: c3, OrderIndex: 1, Description: "C3"}}},
		{Title: "B1", OrderIndex: 1, Competencies: []types.Competency{
			{ID: c2, OrderIndex: 2, Description: "C2"},
			{ID: c1, OrderIndex: 1, Description: "C1"},
		}},
	}}
	SortFramework(fw)
	levels := PositioningLevels([]types.Positioning{
		{CompetencyID: c1, InitialLevel: 2},
		{CompetencyID: c1, InitialLevel: 4},
		{CompetencyID: c2, InitialLevel: 2},
	})
	out := BuildMappings(fw.Blocks, PlanInputs{
		NumPeriods: 2,
		Levels:     levels,
		Sites:      map[uuid.UUID]types.TeachingSite{c3: compliance.TeachingSiteMixed},
	})
	if len(out) != 3 {
		t.Fatalf("expected one mapping per competency, got %d", len(out))
	}
	if out[0].CompetencyID != c1 || out[0].Status != compliance.MappingAcquis || out[0].PeriodIndex != 0 {
		t.Fatalf("unexpected first mapping %+v", out[0])
	}
	if out[1].CompetencyID != c2 || out[1].Status != compliance.MappingPending {
		t.Fatalf("unexpected second mapping %+v", out[1])
	}
	if out[2].CompetencyID != c3 || out[2].PeriodIndex != 1 || out[2].TeachingSite != compliance.TeachingSiteMixed {
		t.Fatalf("unexpected third mapping %+v", out[2])
	}
	if out[0].TeachingSite != compliance.TeachingSiteNone {
		t.Fatalf("default site must be NONE")
	}
}

func TestNextVersion(t *testing.T) {
	v, status, regen := NextVersion(types.Contract{Version: 3, IsLocked: true})
	if v != 4 || status != compliance.TsfValidated || !regen {
		t.Fatalf("locked v3 must become v4 VALIDATED, got %d %s %v", v, status, regen)
	}
	v, status, regen = NextVersion(types.Contract{Version: 2})
	if v != 1 || status != compliance.TsfDraft || regen {
		t.Fatalf("unlocked contract restarts at v1 DRAFT, got %d %s %v", v, status, regen)
	}
}

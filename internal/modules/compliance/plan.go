package compliance

import (
	"sort"

	"github.com/google/uuid"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

// AcquiredLevel is the minimum initial positioning level that marks a
// competency as already acquired.
const AcquiredLevel = 3

// MappingSpec is a plan mapping before persistence.
type MappingSpec struct {
	PeriodIndex     int
	CompetencyID    uuid.UUID
	Status          string
	TeachingSite    types.TeachingSite
	BlockLabel      string
	BlockOrder      int
	CompetencyLabel string
	CompetencyOrder int
}

// PlanInputs carries what mapping generation reads besides the framework.
type PlanInputs struct {
	NumPeriods int
	// Levels is the highest initial positioning level per competency.
	Levels map[uuid.UUID]int
	// Sites carries teaching sites forward from the previous version.
	Sites map[uuid.UUID]types.TeachingSite
}

// SortFramework orders blocks, competencies and indicators by OrderIndex in place.
func SortFramework(fw *types.Framework) {
	if fw == nil {
		return
	}
	sort.SliceStable(fw.Blocks, func(i, j int) bool { return fw.Blocks[i].OrderIndex < fw.Blocks[j].OrderIndex })
	for bi := range fw.Blocks {
		comps := fw.Blocks[bi].Competencies
		sort.SliceStable(comps, func(i, j int) bool { return comps[i].OrderIndex < comps[j].OrderIndex })
		for ci := range comps {
			inds := comps[ci].Indicators
			sort.SliceStable(inds, func(i, j int) bool { return inds[i].OrderIndex < inds[j].OrderIndex })
		}
	}
}

// BuildMappings assigns every competency of an ordered framework to a period.
func BuildMappings(blocks []types.Block, in PlanInputs) []MappingSpec {
	periodOf := DistributeBlocks(len(blocks), in.NumPeriods)
	out := make([]MappingSpec, 0, len(blocks)*4)
	for bi, b := range blocks {
		for _, c := range b.Competencies {
			status := compliance.MappingPending
			if lvl, ok := in.Levels[c.ID]; ok && lvl >= AcquiredLevel {
				status = compliance.MappingAcquis
			}
			site := compliance.TeachingSiteNone
			if s, ok := in.Sites[c.ID]; ok && s.Valid() {
				site = s
			}
			out = append(out, MappingSpec{
				PeriodIndex:     periodOf[bi],
				CompetencyID:    c.ID,
				Status:          status,
				TeachingSite:    site,
				BlockLabel:      b.Title,
				BlockOrder:      b.OrderIndex,
				CompetencyLabel: c.Description,
				CompetencyOrder: c.OrderIndex,
			})
		}
	}
	return out
}

// PositioningLevels keeps the highest level seen per competency.
func PositioningLevels(ps []types.Positioning) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(ps))
	for _, p := range ps {
		if cur, ok := out[p.CompetencyID]; !ok || p.InitialLevel > cur {
			out[p.CompetencyID] = p.InitialLevel
		}
	}
	return out
}

// NextVersion computes the version transition of a regeneration.
// Locked contracts bump the version and keep VALIDATED; anything else
// restarts at 1 as a DRAFT.
func NextVersion(c types.Contract) (version int, tsfStatus string, regenerated bool) {
	if c.IsLocked {
		cur := c.Version
		if cur < 1 {
			cur = 1
		}
		return cur + 1, compliance.TsfValidated, true
	}
	return 1, compliance.TsfDraft, false
}

package compliance

import (
	"sort"

	"github.com/google/uuid"
)

// ContractFacts is everything governance needs to know about one contract.
type ContractFacts struct {
	ContractID             uuid.UUID
	ApprenticeID           uuid.UUID
	ApprenticeName         string
	Health                 HealthScore
	HasAssessment          bool
	HasValidatedAssessment bool
	TsfValidated           bool
	J45Overdue             bool
}

type Funnel struct {
	Contracts   int `json:"contracts"`
	Assessments int `json:"assessments"`
	Tsfs        int `json:"tsfs"`
}

type KPIs struct {
	ActiveApprentices int     `json:"activeApprentices"`
	J7CompletionRate  float64 `json:"j7CompletionRate"`
	J45AlertCount     int     `json:"j45AlertCount"`
	GlobalRiskScore   float64 `json:"globalRiskScore"`
	Funnel            Funnel  `json:"funnel"`
}

type ContractHealth struct {
	ContractID     uuid.UUID `json:"contractId"`
	ApprenticeName string    `json:"apprenticeName"`
	Score          int       `json:"score"`
	Status         string    `json:"status"`
	Reasons        []string  `json:"reasons"`
}

// ComputeKPIs aggregates per-contract facts. activeApprentices comes from the
// user side and is the denominator of the J+7 rate. Empty input yields
// 0 apprentices, 0%, 100 risk score and an all-zero funnel.
func ComputeKPIs(activeApprentices int, facts []ContractFacts) KPIs {
	k := KPIs{ActiveApprentices: activeApprentices, GlobalRiskScore: 100}
	validated := 0
	total := 0
	for _, f := range facts {
		k.Funnel.Contracts++
		if f.HasAssessment {
			k.Funnel.Assessments++
		}
		if f.HasValidatedAssessment {
			validated++
		}
		if f.TsfValidated {
			k.Funnel.Tsfs++
		}
		if f.J45Overdue {
			k.J45AlertCount++
		}
		total += f.Health.Score
	}
	if activeApprentices > 0 {
		k.J7CompletionRate = 100 * float64(validated) / float64(activeApprentices)
	}
	if len(facts) > 0 {
		k.GlobalRiskScore = float64(total) / float64(len(facts))
	}
	return k
}

// HealthOverview ranks contracts worst first. Ties keep name order so the
// output is deterministic.
func HealthOverview(facts []ContractFacts) []ContractHealth {
	out := make([]ContractHealth, 0, len(facts))
	for _, f := range facts {
		reasons := f.Health.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		out = append(out, ContractHealth{
			ContractID:     f.ContractID,
			ApprenticeName: f.ApprenticeName,
			Score:          f.Health.Score,
			Status:         f.Health.Status,
			Reasons:        reasons,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score < out[j].Score
		}
		return out[i].ApprenticeName < out[j].ApprenticeName
	})
	return out
}

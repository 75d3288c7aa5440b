package compliance

import (
	"fmt"
	"time"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

// HealthPolicy holds the scoring weights and thresholds.
type HealthPolicy struct {
	InactivityDays       int     `yaml:"inactivity_days"`
	InactivityPenalty    int     `yaml:"inactivity_penalty"`
	OverduePenalty       int     `yaml:"overdue_penalty"`
	AbsenceRateThreshold float64 `yaml:"absence_rate_threshold"`
	AbsencePenalty       int     `yaml:"absence_penalty"`
	GoodAbove            int     `yaml:"good_above"`
	WarningAbove         int     `yaml:"warning_above"`
}

func DefaultHealthPolicy() HealthPolicy {
	return HealthPolicy{
		InactivityDays:       15,
		InactivityPenalty:    20,
		OverduePenalty:       30,
		AbsenceRateThreshold: 10,
		AbsencePenalty:       10,
		GoodAbove:            70,
		WarningAbove:         40,
	}
}

// HealthScore is derived on demand and never stored.
type HealthScore struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Status  string   `json:"status"`
}

type HealthInputs struct {
	Now          time.Time
	LastActivity *time.Time
	Milestones   []types.Milestone
	Attendance   []types.AttendanceRecord
}

// ScoreHealth starts at 100 and subtracts penalties for inactivity, overdue
// milestones and unjustified absence. The overdue penalty is not capped; only
// the final score is clamped at 0.
func ScoreHealth(p HealthPolicy, in HealthInputs) HealthScore {
	score := 100
	reasons := []string{}

	if in.LastActivity == nil {
		score -= p.InactivityPenalty
		reasons = append(reasons, "no activity recorded")
	} else if elapsed := in.Now.Sub(*in.LastActivity); elapsed > time.Duration(p.InactivityDays)*24*time.Hour {
		score -= p.InactivityPenalty
		reasons = append(reasons, fmt.Sprintf("no activity for %d days", int(elapsed.Hours()/24)))
	}

	if overdue := CountOverdue(in.Milestones, in.Now); overdue > 0 {
		score -= p.OverduePenalty * overdue
		reasons = append(reasons, fmt.Sprintf("%d overdue milestone(s)", overdue))
	}

	if rate, ok := UnjustifiedAbsenceRate(in.Attendance); ok && rate > p.AbsenceRateThreshold {
		score -= p.AbsencePenalty
		reasons = append(reasons, fmt.Sprintf("unjustified absence rate %.1f%%", rate))
	}

	if score < 0 {
		score = 0
	}
	return HealthScore{Score: score, Reasons: reasons, Status: p.Tier(score)}
}

func (p HealthPolicy) Tier(score int) string {
	switch {
	case score > p.GoodAbove:
		return compliance.HealthGood
	case score > p.WarningAbove:
		return compliance.HealthWarning
	default:
		return compliance.HealthDanger
	}
}

func CountOverdue(ms []types.Milestone, now time.Time) int {
	n := 0
	for _, m := range ms {
		if m.IsOverdue(now) {
			n++
		}
	}
	return n
}

// UnjustifiedAbsenceRate returns unjustified hours / total hours * 100.
// ok is false when no hours were logged.
func UnjustifiedAbsenceRate(recs []types.AttendanceRecord) (rate float64, ok bool) {
	var total, unjustified float64
	for _, r := range recs {
		total += r.Hours
		if r.Status == compliance.AttendanceAbsentUnjustified {
			unjustified += r.Hours
		}
	}
	if total <= 0 {
		return 0, false
	}
	return unjustified / total * 100, true
}

package compliance

import (
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

// MilestonePolicy holds the regulatory offsets. Defaults are J+7, J+45 and
// a review every 6 months.
type MilestonePolicy struct {
	StartInterviewDays  int `yaml:"start_interview_days"`
	ProbationReviewDays int `yaml:"probation_review_days"`
	ReviewEveryMonths   int `yaml:"review_every_months"`
}

func DefaultMilestonePolicy() MilestonePolicy {
	return MilestonePolicy{StartInterviewDays: 7, ProbationReviewDays: 45, ReviewEveryMonths: 6}
}

type MilestoneSpec struct {
	Type    string
	DueDate time.Time
}

// RequiredMilestones lists every milestone a contract must carry: the start
// interview, the probation review, then a semester review every
// ReviewEveryMonths while the due date is strictly before end.
func RequiredMilestones(p MilestonePolicy, start, end time.Time) []MilestoneSpec {
	out := []MilestoneSpec{
		{Type: compliance.MilestoneStartInterview, DueDate: AddDays(start, p.StartInterviewDays)},
		{Type: compliance.MilestoneProbationReview, DueDate: AddDays(start, p.ProbationReviewDays)},
	}
	step := p.ReviewEveryMonths
	if step <= 0 {
		return out
	}
	for months := step; ; months += step {
		due := AddMonths(start, months)
		if !due.Before(end) {
			break
		}
		out = append(out, MilestoneSpec{Type: SemesterReviewType(months), DueDate: due})
	}
	return out
}

// SemesterReviewType names the review due months after the contract start,
// e.g. SEMESTER_REVIEW_12.
func SemesterReviewType(months int) string {
	return compliance.MilestoneSemesterPrefix + strconv.Itoa(months)
}

// MissingMilestones filters required down to types not already present.
func MissingMilestones(required []MilestoneSpec, existingTypes []string) []MilestoneSpec {
	have := make(map[string]struct{}, len(existingTypes))
	for _, t := range existingTypes {
		have[strings.TrimSpace(t)] = struct{}{}
	}
	out := make([]MilestoneSpec, 0, len(required))
	for _, r := range required {
		if _, ok := have[r.Type]; ok {
			continue
		}
		have[r.Type] = struct{}{}
		out = append(out, r)
	}
	return out
}

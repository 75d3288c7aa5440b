package compliance

import (
	"testing"
	"time"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

var healthNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func recent() *time.Time {
	t := healthNow.AddDate(0, 0, -3)
	return &t
}

func overdueMilestones(n int) []types.Milestone {
	out := make([]types.Milestone, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.Milestone{Status: compliance.MilestonePending, DueDate: healthNow.AddDate(0, 0, -(i + 1))})
	}
	return out
}

func TestScoreHealth_CleanContract(t *testing.T) {
	got := ScoreHealth(DefaultHealthPolicy(), HealthInputs{
		Now:          healthNow,
		LastActivity: recent(),
		Milestones: []types.Milestone{
			{Status: compliance.MilestonePending, DueDate: healthNow.AddDate(0, 1, 0)},
			{Status: compliance.MilestoneCompleted, DueDate: healthNow.AddDate(0, -1, 0)},
		},
		Attendance: []types.AttendanceRecord{
			{Hours: 95, Status: compliance.AttendancePresent},
			{Hours: 5, Status: compliance.AttendanceAbsentUnjustified},
		},
	})
	if got.Score != 100 || len(got.Reasons) != 0 || got.Status != compliance.HealthGood {
		t.Fatalf("unexpected clean score: %+v", got)
	}
}

func TestScoreHealth_ThreeOverdueIsDanger(t *testing.T) {
	got := ScoreHealth(DefaultHealthPolicy(), HealthInputs{
		Now:          healthNow,
		LastActivity: recent(),
		Milestones:   overdueMilestones(3),
	})
	if got.Score != 10 || got.Status != compliance.HealthDanger {
		t.Fatalf("expected 10/DANGER, got %+v", got)
	}
	if len(got.Reasons) != 1 {
		t.Fatalf("expected one reason, got %v", got.Reasons)
	}
}

func TestScoreHealth_ClampsAtZero(t *testing.T) {
	got := ScoreHealth(DefaultHealthPolicy(), HealthInputs{Now: healthNow, Milestones: overdueMilestones(6)})
	if got.Score != 0 || got.Status != compliance.HealthDanger {
		t.Fatalf("expected clamp to 0, got %+v", got)
	}
	if len(got.Reasons) != 2 || got.Reasons[0] != "no activity recorded" {
		t.Fatalf("unexpected reasons %v", got.Reasons)
	}
}

func TestScoreHealth_StaleActivityAndAbsence(t *testing.T) {
	stale := healthNow.AddDate(0, 0, -20)
	got := ScoreHealth(DefaultHealthPolicy(), HealthInputs{
		Now:          healthNow,
		LastActivity: &stale,
		Attendance: []types.AttendanceRecord{
			{Hours: 80, Status: compliance.AttendancePresent},
			{Hours: 8, Status: compliance.AttendanceAbsentJustified},
			{Hours: 12, Status: compliance.AttendanceAbsentUnjustified},
		},
	})
	if got.Score != 70 || got.Status != compliance.HealthWarning {
		t.Fatalf("expected 70/WARNING, got %+v", got)
	}
	if got.Reasons[0] != "no activity for 20 days" {
		t.Fatalf("unexpected recency reason %q", got.Reasons[0])
	}
	if got.Reasons[1] != "unjustified absence rate 12.0%" {
		t.Fatalf("unexpected absence reason %q", got.Reasons[1])
	}
}

func TestScoreHealth_ExactlyFifteenDaysIsRecent(t *testing.T) {
	edge := healthNow.AddDate(0, 0, -15)
	got := ScoreHealth(DefaultHealthPolicy(), HealthInputs{Now: healthNow, LastActivity: &edge})
	if got.Score != 100 {
		t.Fatalf("15 days is within the window, got %+v", got)
	}
}

func TestHealthPolicy_Tier(t *testing.T) {
	p := DefaultHealthPolicy()
	cases := map[int]string{100: compliance.HealthGood, 71: compliance.HealthGood, 70: compliance.HealthWarning, 41: compliance.HealthWarning, 40: compliance.HealthDanger, 0: compliance.HealthDanger}
	for score, want := range cases {
		if got := p.Tier(score); got != want {
			t.Fatalf("Tier(%d) = %s, want %s", score, got, want)
		}
	}
}

package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseScoringPolicy_PartialKeepsDefaults(t *testing.T) {
	p, err := ParseScoringPolicy([]byte("health:\n  overdue_penalty: 25\nsweep:\n  reminder_window_days: 3\n"))
	if err != nil {
		t.Fatalf("ParseScoringPolicy: %v", err)
	}
	def := DefaultScoringPolicy()
	if p.Health.OverduePenalty != 25 || p.Sweep.ReminderWindowDays != 3 {
		t.Fatalf("overrides not applied: %+v", p)
	}
	if p.Health.InactivityPenalty != def.Health.InactivityPenalty || p.Milestones != def.Milestones {
		t.Fatalf("defaults lost: %+v", p)
	}
}

func TestParseScoringPolicy_Rejects(t *testing.T) {
	cases := map[string]string{
		"syntax":      "health: [",
		"tiers":       "health:\n  good_above: 30\n  warning_above: 60\n",
		"negativeDay": "milestones:\n  probation_review_days: -1\n",
	}
	for name, raw := range cases {
		if _, err := ParseScoringPolicy([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadScoringPolicy(t *testing.T) {
	p, err := LoadScoringPolicy("")
	if err != nil || p != DefaultScoringPolicy() {
		t.Fatalf("empty path should give defaults: %+v %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("milestones:\n  review_every_months: 4\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err = LoadScoringPolicy(path)
	if err != nil {
		t.Fatalf("LoadScoringPolicy: %v", err)
	}
	if p.Milestones.ReviewEveryMonths != 4 {
		t.Fatalf("expected 4, got %d", p.Milestones.ReviewEveryMonths)
	}

	if _, err := LoadScoringPolicy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

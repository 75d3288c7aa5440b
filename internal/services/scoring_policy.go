package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	planner "github.com/yungbote/qualiopi-backend/internal/modules/compliance"
)

// ScoringPolicy gathers every tunable threshold of the compliance rules.
// Fields left out of the YAML file keep their defaults.
type ScoringPolicy struct {
	Milestones planner.MilestonePolicy `yaml:"milestones"`
	Health     planner.HealthPolicy    `yaml:"health"`
	Sweep      planner.SweepPolicy     `yaml:"sweep"`
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		Milestones: planner.DefaultMilestonePolicy(),
		Health:     planner.DefaultHealthPolicy(),
		Sweep:      planner.DefaultSweepPolicy(),
	}
}

// LoadScoringPolicy reads a YAML policy file. An empty path returns defaults.
func LoadScoringPolicy(path string) (ScoringPolicy, error) {
	p := DefaultScoringPolicy()
	path = strings.TrimSpace(path)
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read scoring policy: %w", err)
	}
	return ParseScoringPolicy(raw)
}

func ParseScoringPolicy(raw []byte) (ScoringPolicy, error) {
	p := DefaultScoringPolicy()
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return DefaultScoringPolicy(), fmt.Errorf("parse scoring policy: %w", err)
	}
	if err := p.validate(); err != nil {
		return DefaultScoringPolicy(), err
	}
	return p, nil
}

func (p ScoringPolicy) validate() error {
	switch {
	case p.Milestones.StartInterviewDays < 0, p.Milestones.ProbationReviewDays < 0:
		return fmt.Errorf("scoring policy: milestone offsets must be >= 0")
	case p.Milestones.ReviewEveryMonths < 0:
		return fmt.Errorf("scoring policy: review_every_months must be >= 0")
	case p.Health.WarningAbove > p.Health.GoodAbove:
		return fmt.Errorf("scoring policy: warning_above must not exceed good_above")
	case p.Sweep.ReminderWindowDays < 0:
		return fmt.Errorf("scoring policy: reminder_window_days must be >= 0")
	}
	return nil
}

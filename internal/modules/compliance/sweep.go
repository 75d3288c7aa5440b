package compliance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

// SweepPolicy controls which milestones produce notifications.
type SweepPolicy struct {
	ReminderWindowDays int `yaml:"reminder_window_days"`
}

func DefaultSweepPolicy() SweepPolicy {
	return SweepPolicy{ReminderWindowDays: 7}
}

type NotificationSpec struct {
	RecipientID uuid.UUID
	Type        string
	MilestoneID uuid.UUID
	ContractID  uuid.UUID
	Title       string
	Content     string
}

// PlanContractSweep decides the notifications one contract's pending
// milestones call for at now. Upcoming and overdue reminders go to the tutor;
// an overdue probation review also escalates to the trainer when one is
// assigned. Contracts without the matching recipient emit nothing.
func PlanContractSweep(p SweepPolicy, now time.Time, c types.Contract, ms []types.Milestone) []NotificationSpec {
	window := time.Duration(p.ReminderWindowDays) * 24 * time.Hour
	var out []NotificationSpec
	for _, m := range ms {
		if m.Status != compliance.MilestonePending {
			continue
		}
		overdue := m.DueDate.Before(now)
		upcoming := !overdue && m.DueDate.Sub(now) <= window
		due := m.DueDate.Format("2006-01-02")

		if c.TutorID != nil && *c.TutorID != uuid.Nil {
			switch {
			case overdue:
				out = append(out, NotificationSpec{
					RecipientID: *c.TutorID,
					Type:        compliance.NotificationMilestoneOverdue,
					MilestoneID: m.ID,
					ContractID:  c.ID,
					Title:       fmt.Sprintf("%s overdue", m.Type),
					Content:     fmt.Sprintf("Milestone %s was due on %s and is still pending.", m.Type, due),
				})
			case upcoming:
				out = append(out, NotificationSpec{
					RecipientID: *c.TutorID,
					Type:        compliance.NotificationMilestoneUpcoming,
					MilestoneID: m.ID,
					ContractID:  c.ID,
					Title:       fmt.Sprintf("%s due soon", m.Type),
					Content:     fmt.Sprintf("Milestone %s is due on %s.", m.Type, due),
				})
			}
		}

		if overdue && m.Type == compliance.MilestoneProbationReview && c.TrainerID != nil && *c.TrainerID != uuid.Nil {
			out = append(out, NotificationSpec{
				RecipientID: *c.TrainerID,
				Type:        compliance.NotificationJ45Escalation,
				MilestoneID: m.ID,
				ContractID:  c.ID,
				Title:       "J+45 review overdue",
				Content:     fmt.Sprintf("The probation review due on %s has not been completed.", due),
			})
		}
	}
	return out
}

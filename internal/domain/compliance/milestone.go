package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Milestone is a regulatory checkpoint. At most one per (contract, type).
type Milestone struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID  uuid.UUID  `gorm:"type:uuid;column:contract_id;not null;index:idx_milestone_contract_type,unique,priority:1" json:"contract_id"`
	Type        string     `gorm:"column:type;not null;index:idx_milestone_contract_type,unique,priority:2" json:"type"`
	DueDate     time.Time  `gorm:"column:due_date;not null" json:"due_date"`
	Status      string     `gorm:"column:status;not null;index" json:"status"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Milestone) TableName() string { return "milestone" }

func (m *Milestone) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	if m.Status == "" {
		m.Status = MilestonePending
	}
	return nil
}

// IsOverdue reports whether a pending milestone's due date is before now.
func (m Milestone) IsOverdue(now time.Time) bool {
	return m.Status == MilestonePending && m.DueDate.Before(now)
}

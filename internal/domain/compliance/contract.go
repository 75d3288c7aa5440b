package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contract ties an apprentice to a framework over a date range and carries
// the training plan's version and lock state.
type Contract struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ApprenticeID uuid.UUID  `gorm:"type:uuid;column:apprentice_id;not null;index" json:"apprentice_id"`
	TutorID      *uuid.UUID `gorm:"type:uuid;column:tutor_id;index" json:"tutor_id,omitempty"`
	TrainerID    *uuid.UUID `gorm:"type:uuid;column:trainer_id;index" json:"trainer_id,omitempty"`
	FrameworkID  uuid.UUID  `gorm:"type:uuid;column:framework_id;not null;index" json:"framework_id"`
	TenantID     *uuid.UUID `gorm:"type:uuid;column:tenant_id;index" json:"tenant_id,omitempty"`

	StartDate  time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time  `gorm:"column:end_date;not null" json:"end_date"`
	PeriodType PeriodType `gorm:"column:period_type;not null" json:"period_type"`

	// Version is the plan version counter; 0 until the first generation.
	Version        int        `gorm:"column:version;not null" json:"version"`
	IsLocked       bool       `gorm:"column:is_locked;not null" json:"is_locked"`
	LockedAt       *time.Time `gorm:"column:locked_at" json:"locked_at,omitempty"`
	TutorSignature *string    `gorm:"column:tutor_signature;type:text" json:"tutor_signature,omitempty"`
	TsfStatus      string     `gorm:"column:tsf_status;not null;index" json:"tsf_status"`
	ChangeLog      *string    `gorm:"column:change_log;type:text" json:"change_log,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Contract) TableName() string { return "contract" }

func (c *Contract) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	if c.TsfStatus == "" {
		c.TsfStatus = TsfDraft
	}
	return nil
}

// Period is one time slice of a contract's plan.
type Period struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Label      string    `gorm:"column:label;not null" json:"label"`
	OrderIndex int       `gorm:"column:order_index;not null" json:"order_index"`
	StartDate  time.Time `gorm:"column:start_date;not null" json:"start_date"`
	EndDate    time.Time `gorm:"column:end_date;not null" json:"end_date"`
}

func (Period) TableName() string { return "period" }

func (p *Period) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PlanMapping assigns one competency to one period for one plan version.
type PlanMapping struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID   uuid.UUID    `gorm:"type:uuid;column:contract_id;not null;index:idx_plan_mapping_contract_version_comp,unique,priority:1" json:"contract_id"`
	Version      int          `gorm:"column:version;not null;index:idx_plan_mapping_contract_version_comp,unique,priority:2" json:"version"`
	CompetencyID uuid.UUID    `gorm:"type:uuid;column:competency_id;not null;index:idx_plan_mapping_contract_version_comp,unique,priority:3" json:"competency_id"`
	PeriodID     uuid.UUID    `gorm:"type:uuid;column:period_id;not null;index" json:"period_id"`
	Status       string       `gorm:"column:status;not null" json:"status"`
	TeachingSite TeachingSite `gorm:"column:teaching_site;not null" json:"teaching_site"`

	BlockLabel      string `gorm:"column:block_label;not null" json:"block_label"`
	BlockOrder      int    `gorm:"column:block_order;not null" json:"block_order"`
	CompetencyLabel string `gorm:"column:competency_label;type:text;not null" json:"competency_label"`
	CompetencyOrder int    `gorm:"column:competency_order;not null" json:"competency_order"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PlanMapping) TableName() string { return "plan_mapping" }

func (m *PlanMapping) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	if m.TeachingSite == "" {
		m.TeachingSite = TeachingSiteNone
	}
	return nil
}

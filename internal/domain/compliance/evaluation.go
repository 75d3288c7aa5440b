package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EvaluationRecord is the per (indicator, contract) evaluation status.
type EvaluationRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID  uuid.UUID  `gorm:"type:uuid;column:contract_id;not null;index:idx_evaluation_contract_indicator,unique,priority:1" json:"contract_id"`
	IndicatorID uuid.UUID  `gorm:"type:uuid;column:indicator_id;not null;index:idx_evaluation_contract_indicator,unique,priority:2" json:"indicator_id"`
	Status      string     `gorm:"column:status;not null;index" json:"status"`
	IsSigned    bool       `gorm:"column:is_signed;not null;index" json:"is_signed"`
	SignedAt    *time.Time `gorm:"column:signed_at" json:"signed_at,omitempty"`
	CheckedAt   *time.Time `gorm:"column:checked_at" json:"checked_at,omitempty"`
	Comment     string     `gorm:"column:comment;type:text" json:"comment"`
	ValidatorID *uuid.UUID `gorm:"type:uuid;column:validator_id" json:"validator_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (EvaluationRecord) TableName() string { return "evaluation_record" }

func (e *EvaluationRecord) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	if e.Status == "" {
		e.Status = EvaluationPending
	}
	return nil
}

type AttendanceRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID uuid.UUID `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Date       time.Time `gorm:"column:date;not null" json:"date"`
	Hours      float64   `gorm:"column:hours;not null" json:"hours"`
	Status     string    `gorm:"column:status;not null" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (AttendanceRecord) TableName() string { return "attendance_record" }

func (a *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// ActivityProof is evidence of apprentice activity; only its timestamp is
// read by health scoring.
type ActivityProof struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ApprenticeID uuid.UUID  `gorm:"type:uuid;column:apprentice_id;not null;index" json:"apprentice_id"`
	ContractID   *uuid.UUID `gorm:"type:uuid;column:contract_id;index" json:"contract_id,omitempty"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	OccurredAt   time.Time  `gorm:"column:occurred_at;not null;index" json:"occurred_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (ActivityProof) TableName() string { return "activity_proof" }

func (a *ActivityProof) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	ensureTime(&a.OccurredAt)
	return nil
}

// InitialAssessment is the J+7 positioning of the apprentice.
type InitialAssessment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID  uuid.UUID  `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Status      string     `gorm:"column:status;not null" json:"status"`
	ValidatedAt *time.Time `gorm:"column:validated_at" json:"validated_at,omitempty"`

	Positionings []Positioning `gorm:"foreignKey:AssessmentID" json:"positionings,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (InitialAssessment) TableName() string { return "initial_assessment" }

func (a *InitialAssessment) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	if a.Status == "" {
		a.Status = AssessmentDraft
	}
	return nil
}

type Positioning struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssessmentID uuid.UUID `gorm:"type:uuid;column:assessment_id;not null;index" json:"assessment_id"`
	CompetencyID uuid.UUID `gorm:"type:uuid;column:competency_id;not null;index" json:"competency_id"`
	InitialLevel int       `gorm:"column:initial_level;not null" json:"initial_level"`
}

func (Positioning) TableName() string { return "positioning" }

func (p *Positioning) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

package domain

import (
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
)

type (
	User              = compliance.User
	Framework         = compliance.Framework
	Block             = compliance.Block
	Competency        = compliance.Competency
	Indicator         = compliance.Indicator
	Contract          = compliance.Contract
	Period            = compliance.Period
	PlanMapping       = compliance.PlanMapping
	Milestone         = compliance.Milestone
	EvaluationRecord  = compliance.EvaluationRecord
	AttendanceRecord  = compliance.AttendanceRecord
	ActivityProof     = compliance.ActivityProof
	InitialAssessment = compliance.InitialAssessment
	Positioning       = compliance.Positioning
	AuditEntry        = compliance.AuditEntry
	SnapshotReport    = compliance.SnapshotReport
	Notification      = compliance.Notification

	PeriodType   = compliance.PeriodType
	TeachingSite = compliance.TeachingSite
)

// AllModels lists every persisted entity in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Framework{},
		&Block{},
		&Competency{},
		&Indicator{},
		&Contract{},
		&Period{},
		&PlanMapping{},
		&Milestone{},
		&EvaluationRecord{},
		&AttendanceRecord{},
		&ActivityProof{},
		&InitialAssessment{},
		&Positioning{},
		&AuditEntry{},
		&SnapshotReport{},
		&Notification{},
	}
}

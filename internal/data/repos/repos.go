package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/qualiopi-backend/internal/data/repos/audit"
	"github.com/yungbote/qualiopi-backend/internal/data/repos/contracts"
	"github.com/yungbote/qualiopi-backend/internal/data/repos/evaluation"
	"github.com/yungbote/qualiopi-backend/internal/data/repos/framework"
	"github.com/yungbote/qualiopi-backend/internal/data/repos/milestones"
	"github.com/yungbote/qualiopi-backend/internal/data/repos/user"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type FrameworkRepo = framework.FrameworkRepo

type ContractRepo = contracts.ContractRepo
type ContractFilter = contracts.Filter
type PeriodRepo = contracts.PeriodRepo
type PlanMappingRepo = contracts.PlanMappingRepo

type MilestoneRepo = milestones.MilestoneRepo
type NotificationRepo = milestones.NotificationRepo

type EvaluationRepo = evaluation.EvaluationRepo
type SignStamp = evaluation.SignStamp
type AttendanceRepo = evaluation.AttendanceRepo
type ActivityProofRepo = evaluation.ActivityProofRepo
type AssessmentRepo = evaluation.AssessmentRepo

type AuditRepo = audit.AuditRepo
type SnapshotRepo = audit.SnapshotRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewFrameworkRepo(db *gorm.DB, baseLog *logger.Logger) FrameworkRepo {
	return framework.NewFrameworkRepo(db, baseLog)
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return contracts.NewContractRepo(db, baseLog)
}
func NewPeriodRepo(db *gorm.DB, baseLog *logger.Logger) PeriodRepo {
	return contracts.NewPeriodRepo(db, baseLog)
}
func NewPlanMappingRepo(db *gorm.DB, baseLog *logger.Logger) PlanMappingRepo {
	return contracts.NewPlanMappingRepo(db, baseLog)
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return milestones.NewMilestoneRepo(db, baseLog)
}
func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return milestones.NewNotificationRepo(db, baseLog)
}

func NewEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationRepo {
	return evaluation.NewEvaluationRepo(db, baseLog)
}
func NewAttendanceRepo(db *gorm.DB, baseLog *logger.Logger) AttendanceRepo {
	return evaluation.NewAttendanceRepo(db, baseLog)
}
func NewActivityProofRepo(db *gorm.DB, baseLog *logger.Logger) ActivityProofRepo {
	return evaluation.NewActivityProofRepo(db, baseLog)
}
func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return evaluation.NewAssessmentRepo(db, baseLog)
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return audit.NewAuditRepo(db, baseLog)
}
func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return audit.NewSnapshotRepo(db, baseLog)
}

// Set bundles every repo so wiring code can build them in one call.
type Set struct {
	Users         UserRepo
	Frameworks    FrameworkRepo
	Contracts     ContractRepo
	Periods       PeriodRepo
	PlanMappings  PlanMappingRepo
	Milestones    MilestoneRepo
	Notifications NotificationRepo
	Evaluations   EvaluationRepo
	Attendance    AttendanceRepo
	Activity      ActivityProofRepo
	Assessments   AssessmentRepo
	Audit         AuditRepo
	Snapshots     SnapshotRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Users:         NewUserRepo(db, baseLog),
		Frameworks:    NewFrameworkRepo(db, baseLog),
		Contracts:     NewContractRepo(db, baseLog),
		Periods:       NewPeriodRepo(db, baseLog),
		PlanMappings:  NewPlanMappingRepo(db, baseLog),
		Milestones:    NewMilestoneRepo(db, baseLog),
		Notifications: NewNotificationRepo(db, baseLog),
		Evaluations:   NewEvaluationRepo(db, baseLog),
		Attendance:    NewAttendanceRepo(db, baseLog),
		Activity:      NewActivityProofRepo(db, baseLog),
		Assessments:   NewAssessmentRepo(db, baseLog),
		Audit:         NewAuditRepo(db, baseLog),
		Snapshots:     NewSnapshotRepo(db, baseLog),
	}
}

package compliance

// Roles supplied by the identity collaborator.
const (
	RoleApprentice = "APPRENTICE"
	RoleTutor      = "TUTOR"
	RoleTrainer    = "TRAINER"
	RoleAdmin      = "ADMIN"
)

// PeriodType controls how a contract's date range is cut into periods.
type PeriodType string

const (
	PeriodMonth     PeriodType = "MONTH"
	PeriodTrimester PeriodType = "TRIMESTER"
	PeriodSemester  PeriodType = "SEMESTER"
)

// Months returns the period length in months, or 0 for an unknown type.
func (p PeriodType) Months() int {
	switch p {
	case PeriodMonth:
		return 1
	case PeriodTrimester:
		return 3
	case PeriodSemester:
		return 6
	default:
		return 0
	}
}

func (p PeriodType) Valid() bool { return p.Months() > 0 }

const (
	TsfDraft     = "DRAFT"
	TsfValidated = "VALIDATED"
)

const (
	MappingPending = "PENDING"
	MappingAcquis  = "ACQUIS"
)

const (
	EvaluationPending   = "PENDING"
	EvaluationAcquis    = "ACQUIS"
	EvaluationNonAcquis = "NON_ACQUIS"
)

const (
	MilestonePending   = "PENDING"
	MilestoneCompleted = "COMPLETED"
)

// Mandatory milestone types. Semester reviews are SEMESTER_REVIEW_{months}.
const (
	MilestoneStartInterview  = "START_INTERVIEW"
	MilestoneProbationReview = "PROBATION_REVIEW"
	MilestoneSemesterPrefix  = "SEMESTER_REVIEW_"
)

const (
	AttendancePresent           = "PRESENT"
	AttendanceAbsentJustified   = "ABSENT_JUSTIFIED"
	AttendanceAbsentUnjustified = "ABSENT_UNJUSTIFIED"
)

const (
	AssessmentDraft     = "DRAFT"
	AssessmentValidated = "VALIDATED"
)

const (
	HealthGood    = "GOOD"
	HealthWarning = "WARNING"
	HealthDanger  = "DANGER"
)

// Audit actions appended alongside the mutation they describe.
const (
	AuditJourneyInitialized  = "JOURNEY_INITIALIZED"
	AuditTsfLocked           = "TSF_LOCKED"
	AuditMilestoneCompleted  = "MILESTONE_COMPLETED"
	AuditTeachingSiteChanged = "TEACHING_SITE_CHANGED"
	AuditBatchSign           = "BATCH_SIGN"
)

const (
	NotificationMilestoneUpcoming = "MILESTONE_UPCOMING"
	NotificationMilestoneOverdue  = "MILESTONE_OVERDUE"
	NotificationJ45Escalation     = "J45_ESCALATION"
)

const SnapshotBatchSign = "BATCH_SIGN"

package evaluation

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type AssessmentRepo interface {
	// Create stores assessments together with their positionings.
	Create(dbc dbctx.Context, rows []*types.InitialAssessment) ([]*types.InitialAssessment, error)
	ListByContracts(dbc dbctx.Context, contractIDs []uuid.UUID) ([]*types.InitialAssessment, error)
	// PositioningsForContract returns positionings across every assessment of the contract.
	PositioningsForContract(dbc dbctx.Context, contractID uuid.UUID) ([]types.Positioning, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return &assessmentRepo{db: db, log: baseLog.With("repo", "AssessmentRepo")}
}

func (r *assessmentRepo) Create(dbc dbctx.Context, rows []*types.InitialAssessment) ([]*types.InitialAssessment, error) {
	if len(rows) == 0 {
		return []*types.InitialAssessment{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assessmentRepo) ListByContracts(dbc dbctx.Context, contractIDs []uuid.UUID) ([]*types.InitialAssessment, error) {
	var out []*types.InitialAssessment
	if len(contractIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("contract_id IN ?", contractIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assessmentRepo) PositioningsForContract(dbc dbctx.Context, contractID uuid.UUID) ([]types.Positioning, error) {
	var out []types.Positioning
	if contractID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Select("positioning.*").
		Joins("JOIN initial_assessment ON initial_assessment.id = positioning.assessment_id").
		Where("initial_assessment.contract_id = ?", contractID).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

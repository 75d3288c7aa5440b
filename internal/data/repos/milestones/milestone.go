package milestones

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type MilestoneRepo interface {
	// CreateMissing inserts rows, skipping any (contract_id, type) already present.
	CreateMissing(dbc dbctx.Context, rows []*types.Milestone) (int64, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Milestone, error)

	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Milestone, error)
	ListByContracts(dbc dbctx.Context, contractIDs []uuid.UUID) ([]*types.Milestone, error)
	ListByStatus(dbc dbctx.Context, status string) ([]*types.Milestone, error)
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) CreateMissing(dbc dbctx.Context, rows []*types.Milestone) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_id"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *milestoneRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Milestone, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Milestone
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *milestoneRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Milestone, error) {
	if contractID == uuid.Nil {
		return []*types.Milestone{}, nil
	}
	return r.ListByContracts(dbc, []uuid.UUID{contractID})
}

func (r *milestoneRepo) ListByContracts(dbc dbctx.Context, contractIDs []uuid.UUID) ([]*types.Milestone, error) {
	var out []*types.Milestone
	if len(contractIDs) == 0 {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("contract_id IN ?", contractIDs).
		Order("due_date ASC, type ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *milestoneRepo) ListByStatus(dbc dbctx.Context, status string) ([]*types.Milestone, error) {
	var out []*types.Milestone
	err := dbc.DB(r.db).
		Where("status = ?", status).
		Order("contract_id ASC, due_date ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

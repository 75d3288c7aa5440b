package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/qualiopi-backend/internal/data/repos/lockutil"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type PlanMappingRepo interface {
	Create(dbc dbctx.Context, rows []*types.PlanMapping) ([]*types.PlanMapping, error)

	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PlanMapping, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PlanMapping, error)

	// ListByContractVersion orders by block then competency.
	ListByContractVersion(dbc dbctx.Context, contractID uuid.UUID, version int) ([]*types.PlanMapping, error)
	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.PlanMapping, error)

	DeleteByContract(dbc dbctx.Context, contractID uuid.UUID) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type planMappingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanMappingRepo(db *gorm.DB, baseLog *logger.Logger) PlanMappingRepo {
	return &planMappingRepo{db: db, log: baseLog.With("repo", "PlanMappingRepo")}
}

func (r *planMappingRepo) Create(dbc dbctx.Context, rows []*types.PlanMapping) ([]*types.PlanMapping, error) {
	if len(rows) == 0 {
		return []*types.PlanMapping{}, nil
	}
	if err := dbc.DB(r.db).CreateInBatches(&rows, 200).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *planMappingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.PlanMapping, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PlanMapping
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *planMappingRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.PlanMapping, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.PlanMapping
	if err := lockutil.ForUpdate(dbc.DB(r.db)).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *planMappingRepo) ListByContractVersion(dbc dbctx.Context, contractID uuid.UUID, version int) ([]*types.PlanMapping, error) {
	var out []*types.PlanMapping
	if contractID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("contract_id = ? AND version = ?", contractID, version).
		Order("block_order ASC, competency_order ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *planMappingRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.PlanMapping, error) {
	var out []*types.PlanMapping
	if contractID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("contract_id = ?", contractID).
		Order("version ASC, block_order ASC, competency_order ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *planMappingRepo) DeleteByContract(dbc dbctx.Context, contractID uuid.UUID) (int64, error) {
	if contractID == uuid.Nil {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("contract_id = ?", contractID).Delete(&types.PlanMapping{})
	return res.RowsAffected, res.Error
}

func (r *planMappingRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.PlanMapping{}).Where("id = ?", id).Updates(updates).Error
}

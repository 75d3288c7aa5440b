package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type PeriodRepo interface {
	Create(dbc dbctx.Context, rows []*types.Period) ([]*types.Period, error)
	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Period, error)
	DeleteByContract(dbc dbctx.Context, contractID uuid.UUID) (int64, error)
}

type periodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPeriodRepo(db *gorm.DB, baseLog *logger.Logger) PeriodRepo {
	return &periodRepo{db: db, log: baseLog.With("repo", "PeriodRepo")}
}

func (r *periodRepo) Create(dbc dbctx.Context, rows []*types.Period) ([]*types.Period, error) {
	if len(rows) == 0 {
		return []*types.Period{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *periodRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.Period, error) {
	var out []*types.Period
	if contractID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("contract_id = ?", contractID).
		Order("order_index ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *periodRepo) DeleteByContract(dbc dbctx.Context, contractID uuid.UUID) (int64, error) {
	if contractID == uuid.Nil {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("contract_id = ?", contractID).Delete(&types.Period{})
	return res.RowsAffected, res.Error
}

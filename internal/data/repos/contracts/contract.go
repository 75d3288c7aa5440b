package contracts

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/qualiopi-backend/internal/data/repos/lockutil"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// Filter is the closed set of contract filters. Nil fields are ignored and
// the rest combine with AND.
type Filter struct {
	FrameworkID   *uuid.UUID
	TrainerID     *uuid.UUID
	TenantID      *uuid.UUID
	ApprenticeIDs []uuid.UUID
}

type ContractRepo interface {
	Create(dbc dbctx.Context, rows []*types.Contract) ([]*types.Contract, error)

	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Contract, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)

	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error)
	LockByFilter(dbc dbctx.Context, f Filter) ([]*types.Contract, error)

	List(dbc dbctx.Context, f Filter) ([]*types.Contract, error)

	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (r *contractRepo) Create(dbc dbctx.Context, rows []*types.Contract) ([]*types.Contract, error) {
	if len(rows) == 0 {
		return []*types.Contract{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contractRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Contract, error) {
	var out []*types.Contract
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contractRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contractRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Contract, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Contract
	err := lockutil.ForUpdate(dbc.DB(r.db)).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *contractRepo) LockByFilter(dbc dbctx.Context, f Filter) ([]*types.Contract, error) {
	var out []*types.Contract
	q := applyFilter(lockutil.ForUpdate(dbc.DB(r.db)), f)
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contractRepo) List(dbc dbctx.Context, f Filter) ([]*types.Contract, error) {
	var out []*types.Contract
	if err := applyFilter(dbc.DB(r.db), f).Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contractRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Contract{}).Where("id = ?", id).Updates(updates).Error
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.FrameworkID != nil {
		q = q.Where("framework_id = ?", *f.FrameworkID)
	}
	if f.TrainerID != nil {
		q = q.Where("trainer_id = ?", *f.TrainerID)
	}
	if f.TenantID != nil {
		q = q.Where("tenant_id = ?", *f.TenantID)
	}
	if f.ApprenticeIDs != nil {
		q = q.Where("apprentice_id IN ?", f.ApprenticeIDs)
	}
	return q
}

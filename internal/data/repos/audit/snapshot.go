package audit

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// SnapshotRepo archives SnapshotReport rows for the document renderer.
type SnapshotRepo interface {
	Create(dbc dbctx.Context, row *types.SnapshotReport) (*types.SnapshotReport, error)
	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.SnapshotReport, error)
	Count(dbc dbctx.Context) (int64, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: baseLog.With("repo", "SnapshotRepo")}
}

func (r *snapshotRepo) Create(dbc dbctx.Context, row *types.SnapshotReport) (*types.SnapshotReport, error) {
	if row == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *snapshotRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.SnapshotReport, error) {
	var out []*types.SnapshotReport
	if contractID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("contract_id = ?", contractID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *snapshotRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.SnapshotReport{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

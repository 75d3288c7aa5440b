package evaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/qualiopi-backend/internal/data/repos/lockutil"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/domain/compliance"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// SignStamp is what a bulk signature writes onto each evaluation.
type SignStamp struct {
	SignedAt    time.Time
	Comment     string
	ValidatorID uuid.UUID
}

type EvaluationRepo interface {
	Create(dbc dbctx.Context, rows []*types.EvaluationRecord) ([]*types.EvaluationRecord, error)

	ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.EvaluationRecord, error)

	// LockSignable row-locks acquired, unsigned evaluations of the contracts
	// and returns them in id order.
	LockSignable(dbc dbctx.Context, contractIDs []uuid.UUID) ([]*types.EvaluationRecord, error)

	// SignByIDs flips the given rows to signed. Rows already signed are left
	// untouched so overlapping batches cannot sign twice.
	SignByIDs(dbc dbctx.Context, ids []uuid.UUID, stamp SignStamp) (int64, error)
}

type evaluationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationRepo {
	return &evaluationRepo{db: db, log: baseLog.With("repo", "EvaluationRepo")}
}

func (r *evaluationRepo) Create(dbc dbctx.Context, rows []*types.EvaluationRecord) ([]*types.EvaluationRecord, error) {
	if len(rows) == 0 {
		return []*types.EvaluationRecord{}, nil
	}
	if err := dbc.DB(r.db).CreateInBatches(&rows, 200).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *evaluationRepo) ListByContract(dbc dbctx.Context, contractID uuid.UUID) ([]*types.EvaluationRecord, error) {
	var out []*types.EvaluationRecord
	if contractID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("contract_id = ?", contractID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evaluationRepo) LockSignable(dbc dbctx.Context, contractIDs []uuid.UUID) ([]*types.EvaluationRecord, error) {
	var out []*types.EvaluationRecord
	if len(contractIDs) == 0 {
		return out, nil
	}
	err := lockutil.ForUpdate(dbc.DB(r.db)).
		Where("contract_id IN ? AND status = ? AND is_signed = ?", contractIDs, compliance.EvaluationAcquis, false).
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evaluationRepo) SignByIDs(dbc dbctx.Context, ids []uuid.UUID, stamp SignStamp) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.EvaluationRecord{}).
		Where("id IN ? AND is_signed = ?", ids, false).
		Updates(map[string]interface{}{
			"is_signed":    true,
			"signed_at":    stamp.SignedAt,
			"comment":      stamp.Comment,
			"validator_id": stamp.ValidatorID,
		})
	return res.RowsAffected, res.Error
}

package evaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type ActivityProofRepo interface {
	Create(dbc dbctx.Context, rows []*types.ActivityProof) ([]*types.ActivityProof, error)
	// LastActivityAt returns the most recent proof timestamp, or nil if none.
	LastActivityAt(dbc dbctx.Context, apprenticeID uuid.UUID) (*time.Time, error)
}

type activityProofRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityProofRepo(db *gorm.DB, baseLog *logger.Logger) ActivityProofRepo {
	return &activityProofRepo{db: db, log: baseLog.With("repo", "ActivityProofRepo")}
}

func (r *activityProofRepo) Create(dbc dbctx.Context, rows []*types.ActivityProof) ([]*types.ActivityProof, error) {
	if len(rows) == 0 {
		return []*types.ActivityProof{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// The latest row is fetched rather than MAX(occurred_at) so the driver can
// decode the column with its declared type.
func (r *activityProofRepo) LastActivityAt(dbc dbctx.Context, apprenticeID uuid.UUID) (*time.Time, error) {
	if apprenticeID == uuid.Nil {
		return nil, nil
	}
	var row types.ActivityProof
	err := dbc.DB(r.db).
		Where("apprentice_id = ?", apprenticeID).
		Order("occurred_at DESC").
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	at := row.OccurredAt.UTC()
	return &at, nil
}

package audit

import (
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// AuditRepo is an append-only sink.
type AuditRepo interface {
	Append(dbc dbctx.Context, entry *types.AuditEntry) (*types.AuditEntry, error)
	ListByEntity(dbc dbctx.Context, entityType, entityID string) ([]*types.AuditEntry, error)
	ListByAction(dbc dbctx.Context, action string) ([]*types.AuditEntry, error)
}

type auditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return &auditRepo{db: db, log: baseLog.With("repo", "AuditRepo")}
}

func (r *auditRepo) Append(dbc dbctx.Context, entry *types.AuditEntry) (*types.AuditEntry, error) {
	if entry == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *auditRepo) ListByEntity(dbc dbctx.Context, entityType, entityID string) ([]*types.AuditEntry, error) {
	var out []*types.AuditEntry
	err := dbc.DB(r.db).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *auditRepo) ListByAction(dbc dbctx.Context, action string) ([]*types.AuditEntry, error) {
	var out []*types.AuditEntry
	if err := dbc.DB(r.db).Where("action = ?", action).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package framework

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// FrameworkRepo reads competency frameworks. Create exists for the import
// collaborator and fixtures; the compliance core never mutates a framework.
type FrameworkRepo interface {
	Create(dbc dbctx.Context, fw *types.Framework) (*types.Framework, error)
	// GetTree loads blocks, competencies and indicators ordered by order_index.
	GetTree(dbc dbctx.Context, id uuid.UUID) (*types.Framework, error)
}

type frameworkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFrameworkRepo(db *gorm.DB, baseLog *logger.Logger) FrameworkRepo {
	return &frameworkRepo{db: db, log: baseLog.With("repo", "FrameworkRepo")}
}

func (r *frameworkRepo) Create(dbc dbctx.Context, fw *types.Framework) (*types.Framework, error) {
	if fw == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Create(fw).Error; err != nil {
		return nil, err
	}
	return fw, nil
}

func (r *frameworkRepo) GetTree(dbc dbctx.Context, id uuid.UUID) (*types.Framework, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	byOrder := func(q *gorm.DB) *gorm.DB { return q.Order("order_index ASC") }
	var fw types.Framework
	err := dbc.DB(r.db).
		Preload("Blocks", byOrder).
		Preload("Blocks.Competencies", byOrder).
		Preload("Blocks.Competencies.Indicators", byOrder).
		Where("id = ?", id).
		Limit(1).
		Find(&fw).Error
	if err != nil {
		return nil, err
	}
	if fw.ID == uuid.Nil {
		return nil, nil
	}
	return &fw, nil
}

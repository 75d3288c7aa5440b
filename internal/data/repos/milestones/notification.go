package milestones

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

type NotificationRepo interface {
	// CreateIfAbsent inserts the notification unless one already exists for
	// the same (recipient, type, milestone). It reports whether a row was written.
	CreateIfAbsent(dbc dbctx.Context, row *types.Notification) (bool, error)
	ListByRecipient(dbc dbctx.Context, recipientID uuid.UUID, limit int) ([]*types.Notification, error)
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) CreateIfAbsent(dbc dbctx.Context, row *types.Notification) (bool, error) {
	if row == nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipient_id"}, {Name: "type"}, {Name: "milestone_id"}},
			DoNothing: true,
		}).
		Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepo) ListByRecipient(dbc dbctx.Context, recipientID uuid.UUID, limit int) ([]*types.Notification, error) {
	var out []*types.Notification
	if recipientID == uuid.Nil {
		return out, nil
	}
	q := dbc.DB(r.db).Where("recipient_id = ?", recipientID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

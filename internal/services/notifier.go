package services

import (
	"context"

	redisbus "github.com/yungbote/qualiopi-backend/internal/clients/redis"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/logger"
)

// =========================
// Notification notifier
// =========================

// NotificationNotifier fans stored notifications out to live listeners.
// Delivery is best effort; the stored row is the record.
type NotificationNotifier interface {
	NotificationCreated(ctx context.Context, n *types.Notification)
}

type busNotifier struct {
	log *logger.Logger
	bus redisbus.NotificationBus
}

// NewNotificationNotifier returns a notifier that publishes on bus, or a
// no-op one when bus is nil.
func NewNotificationNotifier(log *logger.Logger, bus redisbus.NotificationBus) NotificationNotifier {
	if bus == nil {
		return noopNotifier{}
	}
	return &busNotifier{log: log.With("service", "NotificationNotifier"), bus: bus}
}

func (n *busNotifier) NotificationCreated(ctx context.Context, row *types.Notification) {
	if n == nil || row == nil {
		return
	}
	err := n.bus.Publish(ctx, redisbus.NotificationEvent{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		Type:        row.Type,
		ContractID:  row.ContractID,
		MilestoneID: row.MilestoneID,
		Title:       row.Title,
		Content:     row.Content,
		CreatedAt:   row.CreatedAt,
	})
	if err != nil {
		n.log.Warn("notification publish failed", "type", row.Type, "recipient_id", row.RecipientID.String(), "error", err)
	}
}

type noopNotifier struct{}

func (noopNotifier) NotificationCreated(context.Context, *types.Notification) {}

package aggregates

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/qualiopi-backend/internal/data/repos"
	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
	"gorm.io/datatypes"
)

// appendAudit writes one audit entry in the caller's transaction.
func appendAudit(dbc dbctx.Context, repo repos.AuditRepo, action, entityType, entityID string, actorID *uuid.UUID, at time.Time, details map[string]any) (*types.AuditEntry, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}
	entry := &types.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    actorID,
		Details:    datatypes.JSON(raw),
		CreatedAt:  at,
	}
	return repo.Append(dbc, entry)
}

func utcNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

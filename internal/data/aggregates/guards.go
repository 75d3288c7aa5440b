package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/qualiopi-backend/internal/domain"
	"github.com/yungbote/qualiopi-backend/internal/platform/dbctx"
)

// CASGuard applies compare-and-set updates to compliance rows. A false
// result means another writer moved the row first and nothing was written.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) conn(dbc dbctx.Context) (*gorm.DB, error) {
	if dbc.Tx != nil {
		return dbc.Tx.WithContext(dbc.Ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(dbc.Ctx), nil
	}
	return nil, ValidationError("missing db transaction context")
}

// UpdateContractAtVersion writes updates only while the contract still
// carries expectedVersion. Plan regeneration uses it so two writers can never
// both derive the next version from the same one.
func (g CASGuard) UpdateContractAtVersion(dbc dbctx.Context, contractID uuid.UUID, expectedVersion int, updates map[string]any) (bool, error) {
	db, err := g.conn(dbc)
	if err != nil {
		return false, err
	}
	if contractID == uuid.Nil {
		return false, ValidationError("contract id is required")
	}
	if expectedVersion < 0 {
		return false, ValidationError("expected version must be >= 0")
	}
	res := db.Model(&types.Contract{}).
		Where("id = ? AND version = ?", contractID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TransitionMilestone writes updates only while the milestone's status is one
// of from.
func (g CASGuard) TransitionMilestone(dbc dbctx.Context, milestoneID uuid.UUID, from []string, updates map[string]any) (bool, error) {
	db, err := g.conn(dbc)
	if err != nil {
		return false, err
	}
	if milestoneID == uuid.Nil {
		return false, ValidationError("milestone id is required")
	}
	if len(from) == 0 {
		return false, ValidationError("at least one source status is required")
	}
	res := db.Model(&types.Milestone{}).
		Where("id = ? AND status IN ?", milestoneID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RequireCASSuccess turns a lost compare-and-set into a conflict.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

// RequireStatusAllowed rejects a status outside allowed as a conflict.
func RequireStatusAllowed(current string, allowed ...string) error {
	current = strings.TrimSpace(current)
	if len(allowed) == 0 {
		return ValidationError("allowed statuses cannot be empty")
	}
	for _, s := range allowed {
		if strings.EqualFold(current, strings.TrimSpace(s)) {
			return nil
		}
	}
	return ConflictError("status transition not allowed")
}

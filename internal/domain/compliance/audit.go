package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEntry is append-only.
type AuditEntry struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Action     string         `gorm:"column:action;not null;index" json:"action"`
	EntityType string         `gorm:"column:entity_type;not null;index" json:"entity_type"`
	EntityID   string         `gorm:"column:entity_id;not null;index" json:"entity_id"`
	ActorID    *uuid.UUID     `gorm:"type:uuid;column:actor_id;index" json:"actor_id,omitempty"`
	Details    datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (AuditEntry) TableName() string { return "audit_entry" }

func (a *AuditEntry) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

// SnapshotReport is the archived state of a contract at signing time.
// Rendering it into a document happens elsewhere.
type SnapshotReport struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ContractID       uuid.UUID      `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Type             string         `gorm:"column:type;not null" json:"type"`
	PeriodLabel      string         `gorm:"column:period_label;not null" json:"period_label"`
	Data             datatypes.JSON `gorm:"column:data;type:jsonb" json:"data"`
	VerificationHash string         `gorm:"column:verification_hash;not null;index" json:"verification_hash"`
	AuthorID         uuid.UUID      `gorm:"type:uuid;column:author_id;not null" json:"author_id"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"created_at"`
}

func (SnapshotReport) TableName() string { return "snapshot_report" }

func (s *SnapshotReport) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Notification is one emitted sweep message. The unique index makes a
// repeated sweep a no-op for the same (recipient, type, milestone).
type Notification struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID      `gorm:"type:uuid;column:recipient_id;not null;index:idx_notification_dedupe,unique,priority:1" json:"recipient_id"`
	Type        string         `gorm:"column:type;not null;index:idx_notification_dedupe,unique,priority:2" json:"type"`
	MilestoneID uuid.UUID      `gorm:"type:uuid;column:milestone_id;not null;index:idx_notification_dedupe,unique,priority:3" json:"milestone_id"`
	ContractID  uuid.UUID      `gorm:"type:uuid;column:contract_id;not null;index" json:"contract_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Content     string         `gorm:"column:content;type:text;not null" json:"content"`
	Data        datatypes.JSON `gorm:"column:data;type:jsonb" json:"data,omitempty"`
	ReadAt      *time.Time     `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}

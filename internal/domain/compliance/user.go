package compliance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the slice of the identity collaborator's user the core reads:
// role, tenant and display name.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	FirstName string     `gorm:"column:first_name;not null" json:"first_name"`
	LastName  string     `gorm:"column:last_name;not null" json:"last_name"`
	Role      string     `gorm:"column:role;not null;index" json:"role"`
	TenantID  *uuid.UUID `gorm:"type:uuid;column:tenant_id;index" json:"tenant_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

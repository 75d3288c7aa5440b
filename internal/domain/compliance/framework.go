package compliance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Framework is a competency certification reference (blocks, competencies,
// indicators). It is owned by the import pipeline and only read here.
type Framework struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code     string     `gorm:"column:code;not null;index" json:"code"`
	Title    string     `gorm:"column:title;not null" json:"title"`
	TenantID *uuid.UUID `gorm:"type:uuid;column:tenant_id;index" json:"tenant_id,omitempty"`

	Blocks []Block `gorm:"foreignKey:FrameworkID" json:"blocks,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Framework) TableName() string { return "framework" }

func (f *Framework) BeforeCreate(*gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

type Block struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FrameworkID uuid.UUID `gorm:"type:uuid;column:framework_id;not null;index" json:"framework_id"`
	OrderIndex  int       `gorm:"column:order_index;not null" json:"order_index"`
	Title       string    `gorm:"column:title;not null" json:"title"`

	Competencies []Competency `gorm:"foreignKey:BlockID" json:"competencies,omitempty"`
}

func (Block) TableName() string { return "framework_block" }

func (b *Block) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

type Competency struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BlockID     uuid.UUID `gorm:"type:uuid;column:block_id;not null;index" json:"block_id"`
	OrderIndex  int       `gorm:"column:order_index;not null" json:"order_index"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`

	Indicators []Indicator `gorm:"foreignKey:CompetencyID" json:"indicators,omitempty"`
}

func (Competency) TableName() string { return "framework_competency" }

func (c *Competency) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Indicator struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompetencyID uuid.UUID `gorm:"type:uuid;column:competency_id;not null;index" json:"competency_id"`
	OrderIndex   int       `gorm:"column:order_index;not null" json:"order_index"`
	Description  string    `gorm:"column:description;type:text;not null" json:"description"`
}

func (Indicator) TableName() string { return "framework_indicator" }

func (i *Indicator) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

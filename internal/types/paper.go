package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Paper struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	User       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	TemplateID string         `gorm:"column:template_id" json:"template_id,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Questions []PaperQuestion `gorm:"foreignKey:PaperID;references:ID" json:"questions,omitempty"`
}

func (Paper) TableName() string {
	return "paper"
}

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionEmbedding caches the text embedding used for similarity search.
// Vector is a JSON array of float64; pgvector is deliberately not required
// so the sqlite fallback keeps working.
type QuestionEmbedding struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null;column:question_id" json:"question_id"`
	Model      string         `gorm:"column:model;not null" json:"model"`
	Vector     datatypes.JSON `gorm:"column:vector;type:jsonb;not null" json:"-"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuestionEmbedding) TableName() string {
	return "question_embedding"
}

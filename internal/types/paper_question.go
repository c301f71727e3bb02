package types

import (
	"time"

	"github.com/google/uuid"
)

// PaperQuestion pins a question to a position on a paper. Seq orders the
// question within the whole paper; Score is the printed point value.
type PaperQuestion struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PaperID    uuid.UUID `gorm:"type:uuid;index;not null;column:paper_id" json:"paper_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;index;not null;column:question_id" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	Seq        int       `gorm:"column:seq;not null" json:"seq"`
	Score      int       `gorm:"column:score" json:"score"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PaperQuestion) TableName() string {
	return "paper_question"
}

package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// QuestionReview records one moderation pass over an analyzed question.
type QuestionReview struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID  `gorm:"type:uuid;not null;index;column:question_id" json:"question_id"`
	ReviewerID *uuid.UUID `gorm:"type:uuid;column:reviewer_id" json:"reviewer_id,omitempty"`
	Status     string     `gorm:"not null;default:pending;column:status" json:"status"`
	Comment    string     `gorm:"type:text;column:comment" json:"comment,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuestionReview) TableName() string {
	return "question_reviews"
}

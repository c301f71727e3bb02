package types

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postgres assigns ids through uuid_generate_v4(); the sqlite fallback has
// no such function, so ids are filled in application code when missing.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error              { ensureID(&u.ID); return nil }
func (q *Question) BeforeCreate(*gorm.DB) error          { ensureID(&q.ID); return nil }
func (p *Paper) BeforeCreate(*gorm.DB) error             { ensureID(&p.ID); return nil }
func (pq *PaperQuestion) BeforeCreate(*gorm.DB) error    { ensureID(&pq.ID); return nil }
func (e *QuestionEmbedding) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }
func (r *QuestionReview) BeforeCreate(*gorm.DB) error    { ensureID(&r.ID); return nil }

package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/types"
)

type EmbeddingRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, emb *types.QuestionEmbedding) error
	GetByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.QuestionEmbedding, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.QuestionEmbedding, error)
	DeleteByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error
}

type embeddingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmbeddingRepo(db *gorm.DB, baseLog *logger.Logger) EmbeddingRepo {
	return &embeddingRepo{db: db, log: baseLog.With("repo", "EmbeddingRepo")}
}

func (er *embeddingRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return er.db
}

func (er *embeddingRepo) Upsert(ctx context.Context, tx *gorm.DB, emb *types.QuestionEmbedding) error {
	conn := er.conn(tx).WithContext(ctx)
	var existing types.QuestionEmbedding
	err := conn.Where("question_id = ?", emb.QuestionID).First(&existing).Error
	switch {
	case err == nil:
		existing.Model = emb.Model
		existing.Vector = emb.Vector
		return conn.Save(&existing).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return conn.Create(emb).Error
	default:
		return err
	}
}

func (er *embeddingRepo) GetByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) (*types.QuestionEmbedding, error) {
	var emb types.QuestionEmbedding
	if err := er.conn(tx).WithContext(ctx).Where("question_id = ?", questionID).First(&emb).Error; err != nil {
		return nil, err
	}
	return &emb, nil
}

func (er *embeddingRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.QuestionEmbedding, error) {
	var results []*types.QuestionEmbedding
	if err := er.conn(tx).WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *embeddingRepo) DeleteByQuestionID(ctx context.Context, tx *gorm.DB, questionID uuid.UUID) error {
	return er.conn(tx).WithContext(ctx).Where("question_id = ?", questionID).Delete(&types.QuestionEmbedding{}).Error
}

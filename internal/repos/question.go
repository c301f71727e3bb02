package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/types"
)

// QuestionFilter narrows List results; zero values mean no constraint.
type QuestionFilter struct {
	UserID       uuid.UUID
	QuestionType string
	Difficulty   string
	Keyword      string
	Limit        int
	Offset       int
}

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *types.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error)
	List(ctx context.Context, tx *gorm.DB, filter QuestionFilter) ([]*types.Question, int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (qr *questionRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return qr.db
}

func (qr *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error) {
	if err := qr.conn(tx).WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (qr *questionRepo) Update(ctx context.Context, tx *gorm.DB, question *types.Question) error {
	return qr.conn(tx).WithContext(ctx).Save(question).Error
}

func (qr *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error) {
	var question types.Question
	if err := qr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (qr *questionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error) {
	var results []*types.Question
	if len(ids) == 0 {
		return results, nil
	}
	if err := qr.conn(tx).WithContext(ctx).Where("id IN ?", ids).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) List(ctx context.Context, tx *gorm.DB, filter QuestionFilter) ([]*types.Question, int64, error) {
	q := qr.conn(tx).WithContext(ctx).Model(&types.Question{})
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.QuestionType != "" {
		q = q.Where("question_type = ?", filter.QuestionType)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Keyword != "" {
		q = q.Where("question_text LIKE ?", "%"+filter.Keyword+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var results []*types.Question
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (qr *questionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return qr.conn(tx).WithContext(ctx).Where("id = ?", id).Delete(&types.Question{}).Error
}

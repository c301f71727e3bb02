package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/types"
)

type PaperRepo interface {
	Create(ctx context.Context, tx *gorm.DB, paper *types.Paper) (*types.Paper, error)
	Update(ctx context.Context, tx *gorm.DB, paper *types.Paper) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Paper, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Paper, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	GetQuestions(ctx context.Context, tx *gorm.DB, paperID uuid.UUID) ([]types.PaperQuestion, error)
	ReplaceQuestions(ctx context.Context, tx *gorm.DB, paperID uuid.UUID, pqs []types.PaperQuestion) error
}

type paperRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaperRepo(db *gorm.DB, baseLog *logger.Logger) PaperRepo {
	return &paperRepo{db: db, log: baseLog.With("repo", "PaperRepo")}
}

func (pr *paperRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return pr.db
}

func (pr *paperRepo) Create(ctx context.Context, tx *gorm.DB, paper *types.Paper) (*types.Paper, error) {
	if err := pr.conn(tx).WithContext(ctx).Create(paper).Error; err != nil {
		return nil, err
	}
	return paper, nil
}

func (pr *paperRepo) Update(ctx context.Context, tx *gorm.DB, paper *types.Paper) error {
	return pr.conn(tx).WithContext(ctx).Save(paper).Error
}

func (pr *paperRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Paper, error) {
	var paper types.Paper
	if err := pr.conn(tx).WithContext(ctx).Where("id = ?", id).First(&paper).Error; err != nil {
		return nil, err
	}
	return &paper, nil
}

func (pr *paperRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Paper, error) {
	var results []*types.Paper
	if err := pr.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *paperRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return pr.conn(tx).WithContext(ctx).Where("id = ?", id).Delete(&types.Paper{}).Error
}

func (pr *paperRepo) GetQuestions(ctx context.Context, tx *gorm.DB, paperID uuid.UUID) ([]types.PaperQuestion, error) {
	var results []types.PaperQuestion
	if err := pr.conn(tx).WithContext(ctx).
		Where("paper_id = ?", paperID).
		Order("seq ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ReplaceQuestions swaps the paper's slot assignments in one transaction so
// a half-applied reorder can never be observed.
func (pr *paperRepo) ReplaceQuestions(ctx context.Context, tx *gorm.DB, paperID uuid.UUID, pqs []types.PaperQuestion) error {
	return pr.conn(tx).WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Where("paper_id = ?", paperID).Delete(&types.PaperQuestion{}).Error; err != nil {
			return err
		}
		if len(pqs) == 0 {
			return nil
		}
		for i := range pqs {
			pqs[i].PaperID = paperID
		}
		return txn.Create(&pqs).Error
	})
}

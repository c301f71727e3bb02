package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/templates"
	"github.com/T332932/for-dachaung/internal/types"
)

// SlotAssignment pins a question to a paper position.
type SlotAssignment struct {
	QuestionID uuid.UUID `json:"question_id"`
	Seq        int       `json:"seq"`
	Score      int       `json:"score"`
}

type PaperService interface {
	Create(ctx context.Context, userID uuid.UUID, title, templateID string) (*types.Paper, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Paper, []types.PaperQuestion, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Paper, error)
	AssignQuestions(ctx context.Context, paperID uuid.UUID, assignments []SlotAssignment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type paperService struct {
	db        *gorm.DB
	log       *logger.Logger
	paperRepo repos.PaperRepo
}

func NewPaperService(db *gorm.DB, log *logger.Logger, paperRepo repos.PaperRepo) PaperService {
	return &paperService{
		db:        db,
		log:       log.With("service", "PaperService"),
		paperRepo: paperRepo,
	}
}

func (s *paperService) Create(ctx context.Context, userID uuid.UUID, title, templateID string) (*types.Paper, error) {
	if templateID != "" {
		if _, err := templates.Get(templateID); err != nil {
			return nil, err
		}
	}
	paper := &types.Paper{UserID: userID, Title: title, TemplateID: templateID}
	if _, err := s.paperRepo.Create(ctx, nil, paper); err != nil {
		return nil, fmt.Errorf("create paper: %w", err)
	}
	s.log.Info("Paper created", "paper_id", paper.ID, "template", templateID)
	return paper, nil
}

func (s *paperService) Get(ctx context.Context, id uuid.UUID) (*types.Paper, []types.PaperQuestion, error) {
	paper, err := s.paperRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, nil, err
	}
	pqs, err := s.paperRepo.GetQuestions(ctx, nil, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load paper questions: %w", err)
	}
	return paper, pqs, nil
}

func (s *paperService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Paper, error) {
	return s.paperRepo.ListByUser(ctx, nil, userID)
}

func (s *paperService) AssignQuestions(ctx context.Context, paperID uuid.UUID, assignments []SlotAssignment) error {
	seen := map[int]bool{}
	pqs := make([]types.PaperQuestion, 0, len(assignments))
	for _, a := range assignments {
		if a.Seq <= 0 {
			return fmt.Errorf("slot seq must be positive, got %d", a.Seq)
		}
		if seen[a.Seq] {
			return fmt.Errorf("duplicate slot seq %d", a.Seq)
		}
		seen[a.Seq] = true
		pqs = append(pqs, types.PaperQuestion{
			QuestionID: a.QuestionID,
			Seq:        a.Seq,
			Score:      a.Score,
		})
	}
	if err := s.paperRepo.ReplaceQuestions(ctx, nil, paperID, pqs); err != nil {
		return fmt.Errorf("assign questions: %w", err)
	}
	s.log.Info("Paper questions assigned", "paper_id", paperID, "count", len(pqs))
	return nil
}

func (s *paperService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.paperRepo.Delete(ctx, nil, id)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/clients/llm"
	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
)

const askSystemPrompt = `你是一位数学辅导老师。根据检索到的相关题目和解析回答学生的问题，
步骤清晰，公式用 LaTeX。如果检索结果与问题无关，直接回答问题本身。`

const askTopK = 5

// RelatedQuestion is one retrieval hit returned alongside the answer.
type RelatedQuestion struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"questionText"`
	Similarity   float64   `json:"similarity"`
}

type AskResult struct {
	Answer           string            `json:"answer"`
	RelatedQuestions []RelatedQuestion `json:"relatedQuestions"`
	Sources          []uuid.UUID       `json:"sources"`
}

type AskService interface {
	// Ask retrieves similar stored questions and generates a grounded answer.
	Ask(ctx context.Context, question string) (*AskResult, error)
}

type askService struct {
	db           *gorm.DB
	log          *logger.Logger
	llmClient    llm.Client
	similarity   SimilarityService
	questionRepo repos.QuestionRepo
}

func NewAskService(
	db *gorm.DB,
	log *logger.Logger,
	llmClient llm.Client,
	similarity SimilarityService,
	questionRepo repos.QuestionRepo,
) AskService {
	return &askService{
		db:           db,
		log:          log.With("service", "AskService"),
		llmClient:    llmClient,
		similarity:   similarity,
		questionRepo: questionRepo,
	}
}

func (s *askService) Ask(ctx context.Context, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	matches, err := s.similarity.Search(ctx, question, askTopK)
	if err != nil {
		// Retrieval is best effort; an empty corpus or a failed embed call
		// still gets a direct answer.
		s.log.Warn("Retrieval failed, answering without context", "error", err)
		matches = nil
	}

	related := make([]RelatedQuestion, 0, len(matches))
	sources := make([]uuid.UUID, 0, len(matches))
	var contextBlock strings.Builder
	if len(matches) > 0 {
		ids := make([]uuid.UUID, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.QuestionID)
		}
		questions, err := s.questionRepo.GetByIDs(ctx, nil, ids)
		if err != nil {
			return nil, fmt.Errorf("load related questions: %w", err)
		}
		byID := make(map[uuid.UUID]string, len(questions))
		answers := make(map[uuid.UUID]string, len(questions))
		for _, q := range questions {
			byID[q.ID] = q.QuestionText
			answers[q.ID] = q.Answer
		}
		for i, m := range matches {
			text, ok := byID[m.QuestionID]
			if !ok {
				continue
			}
			related = append(related, RelatedQuestion{
				ID:           m.QuestionID,
				QuestionText: text,
				Similarity:   m.Score,
			})
			sources = append(sources, m.QuestionID)
			fmt.Fprintf(&contextBlock, "相关题目%d：%s\n", i+1, text)
			if ans := answers[m.QuestionID]; ans != "" {
				fmt.Fprintf(&contextBlock, "解析：%s\n", ans)
			}
		}
	}

	userPrompt := question
	if contextBlock.Len() > 0 {
		userPrompt = contextBlock.String() + "\n学生问题：" + question
	}
	answer, err := s.llmClient.GenerateText(ctx, askSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &AskResult{
		Answer:           answer,
		RelatedQuestions: related,
		Sources:          sources,
	}, nil
}

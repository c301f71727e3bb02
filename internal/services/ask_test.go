package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/types"
)

type fakeQuestionRepo struct {
	byID map[uuid.UUID]*types.Question
}

func (f *fakeQuestionRepo) Create(_ context.Context, _ *gorm.DB, q *types.Question) (*types.Question, error) {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	f.byID[q.ID] = q
	return q, nil
}

func (f *fakeQuestionRepo) Update(_ context.Context, _ *gorm.DB, q *types.Question) error {
	f.byID[q.ID] = q
	return nil
}

func (f *fakeQuestionRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Question, error) {
	if q, ok := f.byID[id]; ok {
		return q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Question, error) {
	var out []*types.Question
	for _, id := range ids {
		if q, ok := f.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) List(context.Context, *gorm.DB, repos.QuestionFilter) ([]*types.Question, int64, error) {
	return nil, 0, nil
}

func (f *fakeQuestionRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func TestAskGroundsAnswerInRetrievedQuestions(t *testing.T) {
	qid := uuid.New()
	questionRepo := &fakeQuestionRepo{byID: map[uuid.UUID]*types.Question{
		qid: {ID: qid, QuestionText: "求圆的面积", Answer: "面积为 $\\pi r^2$"},
	}}
	embRepo := &fakeEmbeddingRepo{rows: []*types.QuestionEmbedding{
		storedVector(t, qid, []float32{0, 0, 1}),
	}}
	llmClient := &fakeLLM{reply: "生成的回答"}
	similarity := NewSimilarityService(nil, testLogger(t), llmClient, embRepo)

	svc := NewAskService(nil, testLogger(t), llmClient, similarity, questionRepo)
	result, err := svc.Ask(context.Background(), "圆的面积怎么算")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if result.Answer != "生成的回答" {
		t.Fatalf("answer = %q", result.Answer)
	}
	if len(result.RelatedQuestions) != 1 || result.RelatedQuestions[0].ID != qid {
		t.Fatalf("related = %+v", result.RelatedQuestions)
	}
	if len(result.Sources) != 1 || result.Sources[0] != qid {
		t.Fatalf("sources = %+v", result.Sources)
	}
	if !strings.Contains(llmClient.lastPrompt, "求圆的面积") {
		t.Fatalf("retrieved question missing from prompt: %q", llmClient.lastPrompt)
	}
	if !strings.Contains(llmClient.lastPrompt, "圆的面积怎么算") {
		t.Fatalf("student question missing from prompt: %q", llmClient.lastPrompt)
	}
}

func TestAskWithEmptyCorpusStillAnswers(t *testing.T) {
	questionRepo := &fakeQuestionRepo{byID: map[uuid.UUID]*types.Question{}}
	llmClient := &fakeLLM{reply: "直接回答"}
	similarity := NewSimilarityService(nil, testLogger(t), llmClient, &fakeEmbeddingRepo{})

	svc := NewAskService(nil, testLogger(t), llmClient, similarity, questionRepo)
	result, err := svc.Ask(context.Background(), "什么是导数")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if result.Answer != "直接回答" {
		t.Fatalf("answer = %q", result.Answer)
	}
	if len(result.RelatedQuestions) != 0 {
		t.Fatalf("unexpected related questions: %+v", result.RelatedQuestions)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := NewAskService(nil, testLogger(t), &fakeLLM{}, nil, nil)
	if _, err := svc.Ask(context.Background(), "   "); err == nil {
		t.Fatalf("empty question accepted")
	}
}

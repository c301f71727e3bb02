package services

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/types"
)

type fakeLLM struct {
	vectors    map[string][]float32
	reply      string
	lastPrompt string
}

func (f *fakeLLM) AnalyzeImage(context.Context, []byte, string, string) (string, error) {
	return "", nil
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string, user string) (string, error) {
	f.lastPrompt = user
	return f.reply, nil
}

func (f *fakeLLM) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

type fakeEmbeddingRepo struct {
	rows []*types.QuestionEmbedding
}

func (f *fakeEmbeddingRepo) Upsert(_ context.Context, _ *gorm.DB, emb *types.QuestionEmbedding) error {
	f.rows = append(f.rows, emb)
	return nil
}

func (f *fakeEmbeddingRepo) GetByQuestionID(context.Context, *gorm.DB, uuid.UUID) (*types.QuestionEmbedding, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEmbeddingRepo) ListAll(context.Context, *gorm.DB) ([]*types.QuestionEmbedding, error) {
	return f.rows, nil
}

func (f *fakeEmbeddingRepo) DeleteByQuestionID(context.Context, *gorm.DB, uuid.UUID) error {
	return nil
}

func storedVector(t *testing.T, id uuid.UUID, vec []float32) *types.QuestionEmbedding {
	t.Helper()
	raw, err := json.Marshal(vec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &types.QuestionEmbedding{QuestionID: id, Vector: datatypes.JSON(raw)}
}

func TestCosine(t *testing.T) {
	if s, ok := cosine([]float32{1, 0}, []float32{1, 0}); !ok || math.Abs(s-1) > 1e-9 {
		t.Fatalf("identical vectors: %v %v", s, ok)
	}
	if s, ok := cosine([]float32{1, 0}, []float32{0, 1}); !ok || math.Abs(s) > 1e-9 {
		t.Fatalf("orthogonal vectors: %v %v", s, ok)
	}
	if _, ok := cosine([]float32{1, 0}, []float32{1}); ok {
		t.Fatalf("dimension mismatch accepted")
	}
	if _, ok := cosine([]float32{0, 0}, []float32{1, 0}); ok {
		t.Fatalf("zero vector accepted")
	}
}

func TestSimilaritySearchRanksByScore(t *testing.T) {
	near := uuid.New()
	far := uuid.New()
	repo := &fakeEmbeddingRepo{rows: []*types.QuestionEmbedding{
		storedVector(t, far, []float32{1, 0, 0}),
		storedVector(t, near, []float32{0, 0.1, 0.9}),
	}}
	llmClient := &fakeLLM{vectors: map[string][]float32{"query": {0, 0, 1}}}

	svc := NewSimilarityService(nil, testLogger(t), llmClient, repo)
	matches, err := svc.Search(context.Background(), "query", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("want 2 matches, got %d", len(matches))
	}
	if matches[0].QuestionID != near {
		t.Fatalf("ranking wrong: %+v", matches)
	}
	if matches[0].Score <= matches[1].Score {
		t.Fatalf("scores not descending: %+v", matches)
	}
}

func TestSimilaritySearchTopK(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	for i := 0; i < 5; i++ {
		repo.rows = append(repo.rows, storedVector(t, uuid.New(), []float32{0, 0, 1}))
	}
	svc := NewSimilarityService(nil, testLogger(t), &fakeLLM{}, repo)
	matches, err := svc.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("topK not applied: %d", len(matches))
	}
}

func TestSimilarityIndexQuestion(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	svc := NewSimilarityService(nil, testLogger(t), &fakeLLM{}, repo)
	q := &types.Question{ID: uuid.New(), QuestionText: "some question"}
	if err := svc.IndexQuestion(context.Background(), q); err != nil {
		t.Fatalf("IndexQuestion: %v", err)
	}
	if len(repo.rows) != 1 || repo.rows[0].QuestionID != q.ID {
		t.Fatalf("embedding not stored: %+v", repo.rows)
	}
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/clients/llm"
	"github.com/T332932/for-dachaung/internal/platform/envutil"
	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/types"
)

// Match is one similarity hit, scored by cosine similarity in [-1, 1].
type Match struct {
	QuestionID uuid.UUID `json:"question_id"`
	Score      float64   `json:"score"`
}

type SimilarityService interface {
	IndexQuestion(ctx context.Context, question *types.Question) error
	Search(ctx context.Context, queryText string, topK int) ([]Match, error)
}

type similarityService struct {
	db        *gorm.DB
	log       *logger.Logger
	llmClient llm.Client
	embRepo   repos.EmbeddingRepo
	model     string
}

func NewSimilarityService(db *gorm.DB, log *logger.Logger, llmClient llm.Client, embRepo repos.EmbeddingRepo) SimilarityService {
	return &similarityService{
		db:        db,
		log:       log.With("service", "SimilarityService"),
		llmClient: llmClient,
		embRepo:   embRepo,
		model:     envutil.String("EMBED_MODEL_LABEL", "default"),
	}
}

func (s *similarityService) IndexQuestion(ctx context.Context, question *types.Question) error {
	if question.QuestionText == "" {
		return nil
	}
	vectors, err := s.llmClient.Embed(ctx, []string{question.QuestionText})
	if err != nil {
		return fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("expected one embedding, got %d", len(vectors))
	}
	raw, err := json.Marshal(vectors[0])
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	return s.embRepo.Upsert(ctx, nil, &types.QuestionEmbedding{
		QuestionID: question.ID,
		Model:      s.model,
		Vector:     datatypes.JSON(raw),
	})
}

func (s *similarityService) Search(ctx context.Context, queryText string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}

	var query []float32
	var stored []*types.QuestionEmbedding

	// The query embedding is a network call and the candidate load is a DB
	// scan; neither depends on the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vectors, err := s.llmClient.Embed(gctx, []string{queryText})
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		if len(vectors) != 1 {
			return fmt.Errorf("expected one embedding, got %d", len(vectors))
		}
		query = vectors[0]
		return nil
	})
	g.Go(func() error {
		all, err := s.embRepo.ListAll(gctx, nil)
		if err != nil {
			return fmt.Errorf("load embeddings: %w", err)
		}
		stored = all
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(stored))
	for _, emb := range stored {
		var vec []float32
		if err := json.Unmarshal(emb.Vector, &vec); err != nil {
			s.log.Warn("Corrupt stored vector", "question_id", emb.QuestionID, "error", err)
			continue
		}
		score, ok := cosine(query, vec)
		if !ok {
			continue
		}
		matches = append(matches, Match{QuestionID: emb.QuestionID, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// cosine reports false for mismatched dimensions or zero vectors.
func cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/clients/llm"
	"github.com/T332932/for-dachaung/internal/extract"
	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/tikz"
	"github.com/T332932/for-dachaung/internal/types"
)

// analysisPrompt asks the vision model for one question as strict JSON. The
// SVG constraints match what the TikZ compiler supports.
const analysisPrompt = `请分析这道数学题，按以下 JSON 格式返回：
{
  "questionText": "题目完整文本（Markdown 格式，公式用 LaTeX）",
  "options": ["A. ...", "B. ..."],
  "answer": "详细解答过程（Markdown + LaTeX）",
  "hasGeometry": true/false,
  "geometrySvg": "如果有几何图，生成 SVG 代码",
  "knowledgePoints": ["知识点1", "知识点2"],
  "difficulty": "easy/medium/hard",
  "questionType": "choice/multi/fillblank/solve/proof",
  "confidence": 0.0-1.0
}
SVG 生成要求：
- 使用 <line>, <circle>, <ellipse>, <rect>, <polygon>, <path>, <text> 标签
- 虚线用 stroke-dasharray="5,5"
- 文本标注用 <text> 标签，内容为数学符号
- viewBox="0 0 400 400"，坐标准确
仅输出 JSON，不要额外说明。`

type AnalysisService interface {
	// AnalyzeImage runs the full pipeline synchronously and persists the
	// resulting question for the user.
	AnalyzeImage(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) (*types.Question, extract.QuestionRecord, error)

	// AnalyzeImageAsync returns a task id immediately; the pipeline runs in
	// the background and reports through the task service.
	AnalyzeImageAsync(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) (string, error)
}

type analysisService struct {
	db            *gorm.DB
	log           *logger.Logger
	llmClient     llm.Client
	questionRepo  repos.QuestionRepo
	tasks         TaskService
	embedder      SimilarityService
	asyncDeadline time.Duration
}

func NewAnalysisService(
	db *gorm.DB,
	log *logger.Logger,
	llmClient llm.Client,
	questionRepo repos.QuestionRepo,
	tasks TaskService,
	embedder SimilarityService,
) AnalysisService {
	return &analysisService{
		db:            db,
		log:           log.With("service", "AnalysisService"),
		llmClient:     llmClient,
		questionRepo:  questionRepo,
		tasks:         tasks,
		embedder:      embedder,
		asyncDeadline: 5 * time.Minute,
	}
}

func (s *analysisService) AnalyzeImage(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) (*types.Question, extract.QuestionRecord, error) {
	raw, err := s.llmClient.AnalyzeImage(ctx, image, mimeType, analysisPrompt)
	if err != nil {
		return nil, extract.QuestionRecord{}, fmt.Errorf("vision model: %w", err)
	}

	rec := extract.Extract(raw)
	if rec.ParseError != "" {
		s.log.Warn("Model output needed recovery", "parse_error", rec.ParseError)
	}

	question, err := s.persist(ctx, userID, rec)
	if err != nil {
		return nil, rec, err
	}

	if s.embedder != nil {
		if err := s.embedder.IndexQuestion(ctx, question); err != nil {
			// Search quality degrades but the question itself is saved.
			s.log.Warn("Embedding index failed", "question_id", question.ID, "error", err)
		}
	}
	return question, rec, nil
}

func (s *analysisService) persist(ctx context.Context, userID uuid.UUID, rec extract.QuestionRecord) (*types.Question, error) {
	question := &types.Question{
		UserID:       userID,
		QuestionText: rec.QuestionText,
		Answer:       rec.Answer,
		Explanation:  rec.Explanation,
		HasGeometry:  rec.HasGeometry,
		GeometrySVG:  rec.GeometrySVG,
		Difficulty:   rec.Difficulty,
		QuestionType: rec.QuestionType,
		Confidence:   rec.Confidence,
		ParseError:   rec.ParseError,
	}
	if len(rec.Options) > 0 {
		if raw, err := json.Marshal(rec.Options); err == nil {
			question.Options = datatypes.JSON(raw)
		}
	}
	if len(rec.KnowledgePoints) > 0 {
		if raw, err := json.Marshal(rec.KnowledgePoints); err == nil {
			question.KnowledgePoints = datatypes.JSON(raw)
		}
	}

	// Convert the figure once at ingest; export reads the stored result.
	if rec.HasGeometry && rec.GeometrySVG != "" {
		if block, ok := tikz.CompileSVG(rec.GeometrySVG); ok {
			question.TikzCode = block
		} else if png, err := tikz.RasterizeSVG(rec.GeometrySVG); err == nil {
			question.RasterPNG = png
		} else {
			s.log.Warn("Figure conversion failed", "error", err)
		}
	}

	if _, err := s.questionRepo.Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}
	s.log.Info("Question analyzed", "question_id", question.ID, "type", question.QuestionType)
	return question, nil
}

func (s *analysisService) AnalyzeImageAsync(ctx context.Context, userID uuid.UUID, image []byte, mimeType string) (string, error) {
	task, err := s.tasks.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), s.asyncDeadline)
		defer cancel()

		_ = s.tasks.SetProgress(bg, task.ID, 10)
		question, rec, err := s.AnalyzeImage(bg, userID, image, mimeType)
		if err != nil {
			s.log.Error("Async analysis failed", "task_id", task.ID, "error", err)
			_ = s.tasks.Fail(bg, task.ID, err.Error())
			return
		}
		_ = s.tasks.Complete(bg, task.ID, map[string]any{
			"questionId": question.ID,
			"record":     rec,
		})
	}()

	return task.ID, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/export"
	"github.com/T332932/for-dachaung/internal/extract"
	"github.com/T332932/for-dachaung/internal/platform/logger"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/templates"
	"github.com/T332932/for-dachaung/internal/types"
)

// ExportResult carries whichever artifact the format produced. LaTeX is
// always present; PDF only when compilation succeeded.
type ExportResult struct {
	LaTeX      string
	PDF        []byte
	DOCX       []byte
	Log        string
	Diagnostic string
}

type ExportService interface {
	// PaperLaTeX assembles without compiling.
	PaperLaTeX(ctx context.Context, paperID uuid.UUID, opts export.Options) (export.AssembledDoc, error)

	// PaperPDF assembles and compiles the exam paper.
	PaperPDF(ctx context.Context, paperID uuid.UUID, opts export.Options) (*ExportResult, error)

	// AnswerSheetPDF compiles the companion answer sheet.
	AnswerSheetPDF(ctx context.Context, paperID uuid.UUID) (*ExportResult, error)

	// PaperDOCX renders the Word export.
	PaperDOCX(ctx context.Context, paperID uuid.UUID, opts export.Options) (*ExportResult, error)

	// PreviewQuestion compiles a single analyzed record.
	PreviewQuestion(ctx context.Context, rec extract.QuestionRecord, opts export.Options) (*ExportResult, error)
}

type exportService struct {
	db           *gorm.DB
	log          *logger.Logger
	paperRepo    repos.PaperRepo
	questionRepo repos.QuestionRepo
}

func NewExportService(db *gorm.DB, log *logger.Logger, paperRepo repos.PaperRepo, questionRepo repos.QuestionRepo) ExportService {
	return &exportService{
		db:           db,
		log:          log.With("service", "ExportService"),
		paperRepo:    paperRepo,
		questionRepo: questionRepo,
	}
}

func (s *exportService) loadPaper(ctx context.Context, paperID uuid.UUID) (*types.Paper, []types.PaperQuestion, map[uuid.UUID]*types.Question, error) {
	paper, err := s.paperRepo.GetByID(ctx, nil, paperID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load paper: %w", err)
	}
	pqs, err := s.paperRepo.GetQuestions(ctx, nil, paperID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load paper questions: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(pqs))
	for _, pq := range pqs {
		ids = append(ids, pq.QuestionID)
	}
	questions, err := s.questionRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load questions: %w", err)
	}
	qmap := make(map[uuid.UUID]*types.Question, len(questions))
	for _, q := range questions {
		qmap[q.ID] = q
	}
	return paper, pqs, qmap, nil
}

func (s *exportService) assemble(ctx context.Context, paperID uuid.UUID, opts export.Options) (export.AssembledDoc, error) {
	paper, pqs, qmap, err := s.loadPaper(ctx, paperID)
	if err != nil {
		return export.AssembledDoc{}, err
	}
	if paper.TemplateID != "" {
		if tpl, err := templates.Get(paper.TemplateID); err == nil {
			return export.BuildTemplateLaTeX(paper, tpl, pqs, qmap, opts), nil
		}
		s.log.Warn("Unknown template on paper, using free layout", "paper_id", paperID, "template", paper.TemplateID)
	}
	return export.BuildPaperLaTeX(paper, pqs, qmap, opts), nil
}

func (s *exportService) PaperLaTeX(ctx context.Context, paperID uuid.UUID, opts export.Options) (export.AssembledDoc, error) {
	return s.assemble(ctx, paperID, opts)
}

func (s *exportService) compile(ctx context.Context, doc export.AssembledDoc) (*ExportResult, error) {
	res, err := export.CompilePDF(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := &ExportResult{LaTeX: doc.LaTeX, Log: res.Log, Diagnostic: res.Diagnostic}
	if res.OK {
		out.PDF = res.PDF
	}
	return out, nil
}

func (s *exportService) PaperPDF(ctx context.Context, paperID uuid.UUID, opts export.Options) (*ExportResult, error) {
	doc, err := s.assemble(ctx, paperID, opts)
	if err != nil {
		return nil, err
	}
	return s.compile(ctx, doc)
}

func (s *exportService) AnswerSheetPDF(ctx context.Context, paperID uuid.UUID) (*ExportResult, error) {
	paper, pqs, qmap, err := s.loadPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	return s.compile(ctx, export.BuildAnswerSheetLaTeX(paper, pqs, qmap))
}

func (s *exportService) PaperDOCX(ctx context.Context, paperID uuid.UUID, opts export.Options) (*ExportResult, error) {
	paper, pqs, qmap, err := s.loadPaper(ctx, paperID)
	if err != nil {
		return nil, err
	}
	data, err := export.BuildDOCX(paper, pqs, qmap, opts)
	if err != nil {
		return nil, fmt.Errorf("build docx: %w", err)
	}
	return &ExportResult{DOCX: data}, nil
}

func (s *exportService) PreviewQuestion(ctx context.Context, rec extract.QuestionRecord, opts export.Options) (*ExportResult, error) {
	return s.compile(ctx, export.BuildSingleQuestionLaTeX(rec, opts))
}

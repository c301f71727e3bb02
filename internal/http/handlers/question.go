package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/http/middleware"
	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/services"
)

// maxUploadBytes caps analyzed images at 10 MiB.
const maxUploadBytes = 10 << 20

type QuestionHandler struct {
	analysisService   services.AnalysisService
	similarityService services.SimilarityService
	questionRepo      repos.QuestionRepo
}

func NewQuestionHandler(
	analysisService services.AnalysisService,
	similarityService services.SimilarityService,
	questionRepo repos.QuestionRepo,
) *QuestionHandler {
	return &QuestionHandler{
		analysisService:   analysisService,
		similarityService: similarityService,
		questionRepo:      questionRepo,
	}
}

func readUpload(c *gin.Context) ([]byte, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, "", fmt.Errorf("missing file field: %w", err)
	}
	if fileHeader.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("file too large: %d bytes", fileHeader.Size)
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}
	return data, mimeType, nil
}

func (h *QuestionHandler) Analyze(c *gin.Context) {
	image, mimeType, err := readUpload(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload", err)
		return
	}

	question, rec, err := h.analysisService.AnalyzeImage(c.Request.Context(), middleware.UserID(c), image, mimeType)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"question": question,
		"record":   rec,
	})
}

func (h *QuestionHandler) AnalyzeAsync(c *gin.Context) {
	image, mimeType, err := readUpload(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_upload", err)
		return
	}

	taskID, err := h.analysisService.AnalyzeImageAsync(c.Request.Context(), middleware.UserID(c), image, mimeType)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"task_id": taskID})
}

func (h *QuestionHandler) List(c *gin.Context) {
	filter := repos.QuestionFilter{
		UserID:       middleware.UserID(c),
		QuestionType: c.Query("question_type"),
		Difficulty:   c.Query("difficulty"),
		Keyword:      c.Query("keyword"),
		Limit:        20,
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil && v > 0 && v <= 100 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v > 0 {
		filter.Offset = v
	}

	items, total, err := h.questionRepo.List(c.Request.Context(), nil, filter)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"items": items,
		"total": total,
	})
}

func (h *QuestionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	question, err := h.questionRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	response.RespondOK(c, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.questionRepo.Delete(c.Request.Context(), nil, id); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": id})
}

func (h *QuestionHandler) Search(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
		TopK  int    `json:"top_k"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	matches, err := h.similarityService.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"matches": matches})
}

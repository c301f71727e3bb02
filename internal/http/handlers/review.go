package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/http/middleware"
	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/repos"
	"github.com/T332932/for-dachaung/internal/types"
)

type ReviewHandler struct {
	reviewRepo   repos.ReviewRepo
	questionRepo repos.QuestionRepo
}

func NewReviewHandler(reviewRepo repos.ReviewRepo, questionRepo repos.QuestionRepo) *ReviewHandler {
	return &ReviewHandler{reviewRepo: reviewRepo, questionRepo: questionRepo}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		QuestionID uuid.UUID `json:"question_id" binding:"required"`
		Status     string    `json:"status"`
		Comment    string    `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	switch req.Status {
	case "":
		req.Status = types.ReviewPending
	case types.ReviewPending, types.ReviewApproved, types.ReviewRejected:
	default:
		response.RespondError(c, http.StatusBadRequest, "invalid_status", errors.New("status must be pending, approved or rejected"))
		return
	}

	if _, err := h.questionRepo.GetByID(c.Request.Context(), nil, req.QuestionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}

	reviewerID := middleware.UserID(c)
	review := &types.QuestionReview{
		QuestionID: req.QuestionID,
		ReviewerID: &reviewerID,
		Status:     req.Status,
		Comment:    req.Comment,
	}
	if _, err := h.reviewRepo.Create(c.Request.Context(), nil, review); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "create_failed", err)
		return
	}
	response.RespondOK(c, review)
}

func (h *ReviewHandler) ListByQuestion(c *gin.Context) {
	questionID, err := uuid.Parse(c.Query("question_id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	reviews, err := h.reviewRepo.ListByQuestion(c.Request.Context(), nil, questionID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"items": reviews})
}

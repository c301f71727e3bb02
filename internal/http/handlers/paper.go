package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/T332932/for-dachaung/internal/http/middleware"
	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/services"
	"github.com/T332932/for-dachaung/internal/types"
)

type PaperHandler struct {
	paperService services.PaperService
}

func NewPaperHandler(paperService services.PaperService) *PaperHandler {
	return &PaperHandler{paperService: paperService}
}

// ownedPaper loads the paper and rejects access by anyone but its owner.
func (h *PaperHandler) ownedPaper(c *gin.Context) (*types.Paper, []types.PaperQuestion, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return nil, nil, false
	}
	paper, pqs, err := h.paperService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.RespondError(c, http.StatusNotFound, "not_found", err)
			return nil, nil, false
		}
		response.RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return nil, nil, false
	}
	if paper.UserID != middleware.UserID(c) {
		response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("paper belongs to another user"))
		return nil, nil, false
	}
	return paper, pqs, true
}

func (h *PaperHandler) Create(c *gin.Context) {
	var req struct {
		Title      string `json:"title" binding:"required"`
		TemplateID string `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	paper, err := h.paperService.Create(c.Request.Context(), middleware.UserID(c), req.Title, req.TemplateID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	response.RespondOK(c, paper)
}

func (h *PaperHandler) List(c *gin.Context) {
	papers, err := h.paperService.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"items": papers})
}

func (h *PaperHandler) Get(c *gin.Context) {
	paper, pqs, ok := h.ownedPaper(c)
	if !ok {
		return
	}
	response.RespondOK(c, gin.H{
		"paper":     paper,
		"questions": pqs,
	})
}

func (h *PaperHandler) AssignQuestions(c *gin.Context) {
	paper, _, ok := h.ownedPaper(c)
	if !ok {
		return
	}

	var req struct {
		Assignments []services.SlotAssignment `json:"assignments" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if err := h.paperService.AssignQuestions(c.Request.Context(), paper.ID, req.Assignments); err != nil {
		response.RespondError(c, http.StatusBadRequest, "assign_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assigned": len(req.Assignments)})
}

func (h *PaperHandler) Delete(c *gin.Context) {
	paper, _, ok := h.ownedPaper(c)
	if !ok {
		return
	}
	if err := h.paperService.Delete(c.Request.Context(), paper.ID); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": paper.ID})
}

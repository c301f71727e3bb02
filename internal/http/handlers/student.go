package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/services"
)

type StudentHandler struct {
	askService services.AskService
}

func NewStudentHandler(askService services.AskService) *StudentHandler {
	return &StudentHandler{askService: askService}
}

func (h *StudentHandler) Ask(c *gin.Context) {
	var req struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	result, err := h.askService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "ask_failed", err)
		return
	}
	response.RespondOK(c, result)
}

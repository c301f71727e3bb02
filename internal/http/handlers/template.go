package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/templates"
)

type TemplateHandler struct{}

func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

func (h *TemplateHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"items": templates.List()})
}

func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := templates.Get(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	response.RespondOK(c, tpl)
}

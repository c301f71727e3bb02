package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/T332932/for-dachaung/internal/export"
	"github.com/T332932/for-dachaung/internal/extract"
	"github.com/T332932/for-dachaung/internal/http/middleware"
	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/services"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type ExportHandler struct {
	exportService services.ExportService
	paperService  services.PaperService
}

func NewExportHandler(exportService services.ExportService, paperService services.PaperService) *ExportHandler {
	return &ExportHandler{exportService: exportService, paperService: paperService}
}

func exportOptions(c *gin.Context) export.Options {
	parse := func(name string) bool {
		v, err := strconv.ParseBool(c.DefaultQuery(name, "false"))
		return err == nil && v
	}
	return export.Options{
		IncludeAnswer:      parse("include_answer"),
		IncludeExplanation: parse("include_explanation"),
	}
}

// ownedPaperID resolves the :id param and enforces paper ownership.
func (h *ExportHandler) ownedPaperID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	paper, _, err := h.paperService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return uuid.Nil, false
	}
	if paper.UserID != middleware.UserID(c) {
		response.RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("paper belongs to another user"))
		return uuid.Nil, false
	}
	return id, true
}

func respondCompiled(c *gin.Context, res *services.ExportResult, filename string) {
	if len(res.PDF) > 0 {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", res.PDF)
		return
	}
	// Compilation failed or no engine: hand back the source and diagnostics
	// so the caller can compile elsewhere.
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"latex":      res.LaTeX,
		"log":        res.Log,
		"diagnostic": res.Diagnostic,
	})
}

func (h *ExportHandler) PaperLaTeX(c *gin.Context) {
	id, ok := h.ownedPaperID(c)
	if !ok {
		return
	}
	doc, err := h.exportService.PaperLaTeX(c.Request.Context(), id, exportOptions(c))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	attachments := make([]string, 0, len(doc.Attachments))
	for _, a := range doc.Attachments {
		attachments = append(attachments, a.Name)
	}
	response.RespondOK(c, gin.H{
		"latex":       doc.LaTeX,
		"attachments": attachments,
	})
}

func (h *ExportHandler) PaperPDF(c *gin.Context) {
	id, ok := h.ownedPaperID(c)
	if !ok {
		return
	}
	res, err := h.exportService.PaperPDF(c.Request.Context(), id, exportOptions(c))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	respondCompiled(c, res, "paper.pdf")
}

func (h *ExportHandler) AnswerSheetPDF(c *gin.Context) {
	id, ok := h.ownedPaperID(c)
	if !ok {
		return
	}
	res, err := h.exportService.AnswerSheetPDF(c.Request.Context(), id)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	respondCompiled(c, res, "answers.pdf")
}

func (h *ExportHandler) PaperDOCX(c *gin.Context) {
	id, ok := h.ownedPaperID(c)
	if !ok {
		return
	}
	res, err := h.exportService.PaperDOCX(c.Request.Context(), id, exportOptions(c))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "export_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="paper.docx"`)
	c.Data(http.StatusOK, docxContentType, res.DOCX)
}

func (h *ExportHandler) PreviewQuestion(c *gin.Context) {
	var rec extract.QuestionRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.exportService.PreviewQuestion(c.Request.Context(), rec, exportOptions(c))
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "preview_failed", err)
		return
	}
	respondCompiled(c, res, "preview.pdf")
}

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/services"
)

type CaptchaHandler struct {
	captchaService services.CaptchaService
}

func NewCaptchaHandler(captchaService services.CaptchaService) *CaptchaHandler {
	return &CaptchaHandler{captchaService: captchaService}
}

func (h *CaptchaHandler) Generate(c *gin.Context) {
	id, png, err := h.captchaService.Generate(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "captcha_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"captcha_id": id,
		"image":      "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

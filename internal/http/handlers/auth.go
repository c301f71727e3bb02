package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T332932/for-dachaung/internal/http/response"
	"github.com/T332932/for-dachaung/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Password    string `json:"password" binding:"required"`
		Role        string `json:"role"`
		CaptchaID   string `json:"captcha_id" binding:"required"`
		CaptchaCode string `json:"captcha_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password, req.Role, req.CaptchaID, req.CaptchaCode)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCaptchaRejected):
			response.RespondError(c, http.StatusBadRequest, "captcha_rejected", err)
		case errors.Is(err, services.ErrInvalidRole):
			response.RespondError(c, http.StatusBadRequest, "invalid_role", err)
		case errors.Is(err, services.ErrUsernameTaken):
			response.RespondError(c, http.StatusConflict, "username_taken", err)
		default:
			response.RespondError(c, http.StatusInternalServerError, "register_failed", err)
		}
		return
	}

	response.RespondOK(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.RespondError(c, http.StatusUnauthorized, "invalid_credentials", err)
			return
		}
		response.RespondError(c, http.StatusInternalServerError, "login_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.authService.AccessTTL().Seconds()),
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

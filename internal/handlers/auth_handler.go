package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/middleware"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/hotelsuite/pms-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth   *services.AuthService
	logger *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// LogoutRequest represents the logout request body
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	LogoutAll    bool   `json:"logout_all"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req, utils.GetRealIP(c), utils.GetUserAgent(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, utils.GetRealIP(c), utils.GetUserAgent(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout (protected)
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// Empty body is allowed
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	if !req.LogoutAll && req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "refresh_token is required unless logout_all is set",
			Field:   "refresh_token",
		})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), actorFrom(c), req.RefreshToken, req.LogoutAll); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetMe handles GET /api/v1/auth/me (protected)
func (h *AuthHandler) GetMe(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	user, err := h.auth.Me(c.Request.Context(), userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

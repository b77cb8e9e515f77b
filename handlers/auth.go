package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"glsalliance/models"
	"glsalliance/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves sign-in, sign-out and the OTP password reset.
type AuthHandler struct {
	Svc auth.SessionService
}

func NewAuthHandler(svc auth.SessionService) *AuthHandler {
	return &AuthHandler{Svc: svc}
}

// LoginHandler accepts JSON or form-encoded credentials.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" form:"email"`
		Password string `json:"password" form:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		logger.Error("Invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sess, err := h.Svc.Login(c.Request.Context(), sessionID(c), req.Email, req.Password)
	if err != nil {
		logger.Warn("Login failed", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// LogoutHandler always succeeds; local state is cleared even when the
// backend cannot be reached.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	logger := getLogger(c)
	if err := h.Svc.Logout(c.Request.Context(), sessionID(c)); err != nil {
		logger.Error("Failed to clear auth session", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Session{})
}

// SessionHandler bootstraps the browser: it refreshes the cached user from
// the backend and returns the resulting snapshot.
func (h *AuthHandler) SessionHandler(c *gin.Context) {
	sess, err := h.Svc.Refresh(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) RequestOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" form:"email" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	h.passThrough(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.Svc.RequestPasswordOTP(ctx, req.Email)
	})
}

func (h *AuthHandler) VerifyOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" form:"email" binding:"required"`
		OTP   string `json:"otp" form:"otp" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and OTP are required"})
		return
	}
	h.passThrough(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.Svc.VerifyPasswordOTP(ctx, sessionID(c), req.Email, req.OTP)
	})
}

func (h *AuthHandler) ChangePasswordHandler(c *gin.Context) {
	var req struct {
		Password             string `json:"password" form:"password" binding:"required"`
		PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password and confirmation are required"})
		return
	}
	h.passThrough(c, func(ctx context.Context) (json.RawMessage, error) {
		return h.Svc.ChangePassword(ctx, sessionID(c), req.Password, req.PasswordConfirmation)
	})
}

// passThrough relays the backend's own answer to the browser.
func (h *AuthHandler) passThrough(c *gin.Context, call func(ctx context.Context) (json.RawMessage, error)) {
	out, err := call(c.Request.Context())
	if err != nil {
		getLogger(c).Warn("Password reset step failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

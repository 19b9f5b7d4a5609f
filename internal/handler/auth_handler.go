package handler

import (
	"mime/multipart"
	"net/http"

	"fashion-shop/internal/middleware"
	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles account and session endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger.With().Str("handler", "auth").Logger(),
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusCreated, "account created", resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "logged in", resp)
}

// Refresh handles POST /api/auth/refresh-token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "token refreshed", resp)
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logout
// is an acknowledgement; the client discards its tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "logged out", nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	user, err := h.authService.GetProfile(c.Request.Context(), principal.UserID)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", user)
}

// UpdateProfile handles PUT /api/auth/me.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req model.UpdateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "profile updated", user)
}

// UpdateAvatar handles PUT /api/auth/me/avatar.
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		fail(c, model.NewValidationError("avatar file is required"), h.logger)
		return
	}

	uploads, cleanup, err := imageUploads([]*multipart.FileHeader{file})
	if err != nil {
		fail(c, err, h.logger)
		return
	}
	defer cleanup()

	user, err := h.authService.UpdateAvatar(c.Request.Context(), principal.UserID, uploads[0])
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "avatar updated", user)
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req model.ChangePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), principal.UserID, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "password changed", nil)
}

package handler

import (
	"net/http"
	"strconv"

	"fashion-shop/internal/middleware"
	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// UserHandler handles admin account management endpoints.
type UserHandler struct {
	userService service.UserService
	logger      zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.With().Str("handler", "user").Logger(),
	}
}

// List handles GET /api/admin/users.
func (h *UserHandler) List(c *gin.Context) {
	filter := model.UserFilter{
		Search: c.Query("search"),
		Role:   model.Role(c.Query("role")),
		Page:   intQuery(c, "page"),
		Limit:  intQuery(c, "limit"),
	}
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, model.NewValidationError("invalid active filter"), h.logger)
			return
		}
		filter.Active = &v
	}

	users, pagination, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respondPage(c, users, pagination)
}

// Get handles GET /api/admin/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", user)
}

// SetRoles handles PUT /api/admin/users/:id/roles.
func (h *UserHandler) SetRoles(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req struct {
		Roles []model.Role `json:"roles"`
	}
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	user, err := h.userService.SetRoles(c.Request.Context(), id, req.Roles)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "roles updated", user)
}

// SetActive handles PUT /api/admin/users/:id/active.
func (h *UserHandler) SetActive(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	if err := h.userService.SetActive(c.Request.Context(), id, req.Active); err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "account state updated", nil)
}

// Delete handles DELETE /api/admin/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), principal, id); err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "user deleted", nil)
}

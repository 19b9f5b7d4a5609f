package handler

import (
	"net/http"
	"time"

	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles reporting endpoints.
type AdminHandler struct {
	adminService service.AdminService
	logger       zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger.With().Str("handler", "admin").Logger(),
	}
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", stats)
}

// Statistics handles GET /api/admin/statistics.
func (h *AdminHandler) Statistics(c *gin.Context) {
	var r model.StatsRange
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail(c, model.NewValidationError("invalid from date, expected YYYY-MM-DD"), h.logger)
			return
		}
		r.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fail(c, model.NewValidationError("invalid to date, expected YYYY-MM-DD"), h.logger)
			return
		}
		// Include the whole end day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		r.To = &end
	}

	stats, err := h.adminService.Statistics(c.Request.Context(), r)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", stats)
}

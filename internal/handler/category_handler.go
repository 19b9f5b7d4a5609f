package handler

import (
	"mime/multipart"
	"net/http"

	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category endpoints.
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(categoryService service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories. Staff see inactive categories too.
func (h *CategoryHandler) List(c *gin.Context) {
	activeOnly := c.Query("all") != "true"

	categories, err := h.categoryService.List(c.Request.Context(), activeOnly)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", categories)
}

// Get handles GET /api/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", category)
}

// Create handles POST /api/categories (multipart, image optional).
func (h *CategoryHandler) Create(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, model.NewValidationError("invalid request: %s", err.Error()), h.logger)
		return
	}

	var upload *service.ImageUpload
	if file, err := c.FormFile("image"); err == nil {
		uploads, cleanup, err := imageUploads([]*multipart.FileHeader{file})
		if err != nil {
			fail(c, err, h.logger)
			return
		}
		defer cleanup()
		upload = &uploads[0]
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req, upload)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusCreated, "category created", category)
}

// Update handles PUT /api/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req model.UpdateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "category updated", category)
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "category deleted", nil)
}

package handler

import (
	"net/http"
	"strconv"

	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue endpoints.
type ProductHandler struct {
	productService service.ProductService
	logger         zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	products, pagination, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respondPage(c, products, pagination)
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", product)
}

// Create handles POST /api/products (multipart).
func (h *ProductHandler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, model.NewValidationError("invalid request: %s", err.Error()), h.logger)
		return
	}

	uploads, cleanup, err := h.formImages(c)
	if err != nil {
		fail(c, err, h.logger)
		return
	}
	defer cleanup()

	product, err := h.productService.Create(c.Request.Context(), &req, uploads)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusCreated, "product created", product)
}

// Update handles PUT /api/products/:id (multipart).
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, model.NewValidationError("invalid request: %s", err.Error()), h.logger)
		return
	}

	uploads, cleanup, err := h.formImages(c)
	if err != nil {
		fail(c, err, h.logger)
		return
	}
	defer cleanup()

	product, err := h.productService.Update(c.Request.Context(), id, &req, uploads)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "product updated", product)
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "product deleted", nil)
}

// formImages extracts the optional "images" multipart files.
func (h *ProductHandler) formImages(c *gin.Context) ([]service.ImageUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// A JSON body without files is fine.
		return nil, func() {}, nil
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, func() {}, nil
	}
	return imageUploads(files)
}

func parseProductFilter(c *gin.Context) (model.ProductFilter, error) {
	filter := model.ProductFilter{
		Search: c.Query("search"),
		Brand:  c.Query("brand"),
		SortBy: c.Query("sort"),
		Page:   intQuery(c, "page"),
		Limit:  intQuery(c, "limit"),
	}

	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, model.NewValidationError("invalid category filter")
		}
		filter.CategoryID = &id
	}
	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, model.NewValidationError("invalid minPrice filter")
		}
		filter.MinPrice = &v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, model.NewValidationError("invalid maxPrice filter")
		}
		filter.MaxPrice = &v
	}
	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, model.NewValidationError("invalid featured filter")
		}
		filter.Featured = &v
	}
	if raw := c.Query("inStock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, model.NewValidationError("invalid inStock filter")
		}
		filter.InStock = v
	}

	return filter, nil
}

// intQuery parses an integer query parameter, treating junk as absent.
func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

package handler

import (
	"net/http"

	"fashion-shop/internal/middleware"
	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CartHandler handles the caller's cart endpoints.
type CartHandler struct {
	cartService service.CartService
	logger      zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	cart, err := h.cartService.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req model.AddCartItemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), principal.UserID, &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "item added", cart)
}

// UpdateItem handles PUT /api/cart/items/:id.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	itemID, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req model.UpdateCartItemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), principal.UserID, itemID, &req)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "item updated", cart)
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	itemID, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), principal.UserID, itemID)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "item removed", cart)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	if err := h.cartService.Clear(c.Request.Context(), principal.UserID); err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "cart cleared", nil)
}

package handler

import (
	"net/http"

	"fashion-shop/internal/middleware"
	"fashion-shop/internal/model"
	"fashion-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order lifecycle endpoints.
type OrderHandler struct {
	orderService service.OrderService
	logger       zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/orders.
func (h *OrderHandler) Checkout(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req model.CheckoutRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), principal, &req)
	middleware.RecordOrderOperation("checkout", err == nil)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusCreated, "order created", order)
}

// ListMine handles GET /api/orders.
func (h *OrderHandler) ListMine(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	orders, pagination, err := h.orderService.ListMine(c.Request.Context(), principal.UserID,
		intQuery(c, "page"), intQuery(c, "limit"))
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respondPage(c, orders, pagination)
}

// GetMine handles GET /api/orders/:id.
func (h *OrderHandler) GetMine(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	orderID, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	order, err := h.orderService.GetMine(c.Request.Context(), principal.UserID, orderID)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", order)
}

// Cancel handles PUT /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	orderID, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req model.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := bindJSON(c, &req); err != nil {
			fail(c, err, h.logger)
			return
		}
	}

	order, err := h.orderService.Cancel(c.Request.Context(), principal, orderID, &req)
	middleware.RecordOrderOperation("cancel", err == nil)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "order cancelled", order)
}

// List handles GET /api/admin/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter := model.OrderFilter{
		Status:        model.OrderStatus(c.Query("status")),
		PaymentStatus: model.PaymentStatus(c.Query("paymentStatus")),
		Search:        c.Query("search"),
		Page:          intQuery(c, "page"),
		Limit:         intQuery(c, "limit"),
	}

	orders, pagination, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respondPage(c, orders, pagination)
}

// Get handles GET /api/admin/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), orderID)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "", order)
}

// SetStatus handles PUT /api/admin/orders/:id/status.
func (h *OrderHandler) SetStatus(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	orderID, err := pathUUID(c, "id")
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	var req model.UpdateOrderStatusRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err, h.logger)
		return
	}

	order, err := h.orderService.SetStatus(c.Request.Context(), principal, orderID, &req)
	middleware.RecordOrderOperation("set_status", err == nil)
	if err != nil {
		fail(c, err, h.logger)
		return
	}

	respond(c, http.StatusOK, "order status updated", order)
}

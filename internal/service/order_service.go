package service

import (
	"context"
	"fmt"
	"time"

	"fashion-shop/internal/config"
	"fashion-shop/internal/mail"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultOrderPageLimit = 10

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	publisher   mail.Publisher
	pricing     config.OrderConfig
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	publisher mail.Publisher,
	pricing config.OrderConfig,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		publisher:   publisher,
		pricing:     pricing,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Checkout validates the request, reserves stock and creates the order in
// one transaction. Stock is decremented with a conditional update, so two
// concurrent checkouts can never oversell a product.
func (s *orderService) Checkout(ctx context.Context, principal model.Principal, req *model.CheckoutRequest) (*model.Order, error) {
	if err := s.validateCheckout(req); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()

	seq, err := s.orderRepo.NextOrderNumber(ctx, tx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to draw order number")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order := &model.Order{
		ID:            uuid.New(),
		OrderNumber:   model.FormatOrderNumber(seq, now),
		UserID:        principal.UserID,
		Shipping:      req.ShippingAddress,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: model.PaymentPending,
		Status:        model.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	var subtotal float64
	for _, line := range req.Items {
		productID, parseErr := uuid.Parse(line.ProductID)
		if parseErr != nil {
			err = model.NewValidationError("invalid product id: %s", line.ProductID)
			return nil, err
		}

		var name string
		var price float64
		name, price, err = s.productRepo.ReserveStock(ctx, tx, productID, line.Quantity)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("product_id", productID.String()).
				Int("quantity", line.Quantity).
				Msg("stock reservation failed")
			return nil, err
		}

		lineSubtotal := price * float64(line.Quantity)
		subtotal += lineSubtotal
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: &productID,
			Name:      name,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			Price:     price,
			Subtotal:  lineSubtotal,
		})
	}

	order.Subtotal = subtotal
	order.ShippingFee = s.shippingFee(subtotal)
	order.Total = order.Subtotal + order.ShippingFee - order.Discount
	order.Items = items

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	actorID := principal.UserID
	created := model.StatusChange{
		Status:    model.StatusPending,
		Note:      "order created",
		ActorID:   &actorID,
		CreatedAt: now,
	}
	if err = s.orderRepo.AppendStatusHistory(ctx, tx, order.ID, created); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to append status history")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.StatusHistory = []model.StatusChange{created}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// The order is committed; cart cleanup and mail are best effort.
	if err := s.cartRepo.DeleteByUserID(ctx, principal.UserID); err != nil {
		s.logger.Error().Err(err).Str("user_id", principal.UserID.String()).Msg("failed to clear cart after checkout")
	}

	event := mail.NewOrderConfirmationEvent(principal.Email, principal.FullName, order.OrderNumber, order.Total)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to publish order confirmation event")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(items)).
		Float64("total", order.Total).
		Msg("order created")
	return order, nil
}

// ListMine retrieves the caller's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, *model.Pagination, error) {
	page, limit = model.NormalizePage(page, limit, defaultOrderPageLimit)

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, model.NewPagination(total, page, limit), nil
}

// GetMine retrieves one of the caller's orders. Ownership is part of the
// lookup so a non-owner cannot tell the order exists.
func (s *orderService) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("order not found")
	}
	return order, nil
}

// Cancel cancels a pending order owned by the caller and restores stock.
func (s *orderService) Cancel(ctx context.Context, principal model.Principal, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var order *model.Order
	order, err = s.orderRepo.GetForUpdate(ctx, tx, orderID, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		err = model.NewNotFoundError("order not found")
		return nil, err
	}

	if order.Status != model.StatusPending {
		err = model.NewDomainError(model.KindInvalidState,
			"order %s cannot be cancelled from status %s", order.OrderNumber, order.Status)
		return nil, err
	}

	reason := req.Reason
	if reason == "" {
		reason = "cancelled by customer"
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.StatusCancelled, reason); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	actorID := principal.UserID
	change := model.StatusChange{
		Status:    model.StatusCancelled,
		Note:      reason,
		ActorID:   &actorID,
		CreatedAt: time.Now(),
	}
	if err = s.orderRepo.AppendStatusHistory(ctx, tx, order.ID, change); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	var items []model.OrderItem
	items, err = s.orderRepo.ListItems(ctx, tx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		if err = s.productRepo.RestoreStock(ctx, tx, *item.ProductID, item.Quantity); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID.String()).
				Msg("failed to restore stock")
			return nil, fmt.Errorf("failed to cancel order: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order cancelled")
	return s.GetMine(ctx, principal.UserID, order.ID)
}

// List retrieves orders for the admin listing.
func (s *orderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, *model.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, model.NewValidationError("unknown order status: %s", filter.Status)
	}
	filter.Page, filter.Limit = model.NormalizePage(filter.Page, filter.Limit, defaultOrderPageLimit)

	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, model.NewPagination(total, filter.Page, filter.Limit), nil
}

// GetByID retrieves any order by ID for staff.
func (s *orderService) GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.NewNotFoundError("order not found")
	}
	return order, nil
}

// SetStatus applies an admin status transition with a history entry.
// Moving to delivered also marks the order paid and stamps the delivery
// time in the same statement.
func (s *orderService) SetStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, req *model.UpdateOrderStatusRequest) (*model.Order, error) {
	if !req.Status.Valid() {
		return nil, model.NewValidationError("unknown order status: %s", req.Status)
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var order *model.Order
	order, err = s.orderRepo.GetForUpdate(ctx, tx, orderID, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		err = model.NewNotFoundError("order not found")
		return nil, err
	}

	// A same-status transition is allowed; it still leaves a history entry.
	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, req.Status, ""); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	actorID := actor.UserID
	change := model.StatusChange{
		Status:    req.Status,
		Note:      req.Note,
		ActorID:   &actorID,
		CreatedAt: time.Now(),
	}
	if err = s.orderRepo.AppendStatusHistory(ctx, tx, order.ID, change); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("from", string(order.Status)).
		Str("to", string(req.Status)).
		Str("actor_id", actor.UserID.String()).
		Msg("order status updated")
	return s.GetByID(ctx, order.ID)
}

// shippingFee applies the flat fee below the free-shipping threshold.
func (s *orderService) shippingFee(subtotal float64) float64 {
	if subtotal > s.pricing.FreeShippingThreshold {
		return 0
	}
	return s.pricing.ShippingFlatFee
}

func (s *orderService) validateCheckout(req *model.CheckoutRequest) error {
	if len(req.Items) == 0 {
		return model.NewValidationError("order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewValidationError("item %d: product id is required", i)
		}
		if item.Quantity < 1 {
			return model.NewValidationError("item %d: quantity must be at least 1", i)
		}
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		return err
	}
	if !req.PaymentMethod.Valid() {
		return model.NewValidationError("unknown payment method: %s", req.PaymentMethod)
	}
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// Get retrieves the caller's cart, creating an empty one on first use.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		cart, err = s.cartRepo.Create(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
	}
	return cart, nil
}

// AddItem adds a line, merging quantity into an existing line with the
// same product and variant.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.Cart, error) {
	if req.Quantity < 1 {
		return nil, model.NewValidationError("quantity must be at least 1")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, model.NewValidationError("invalid product id")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.NewNotFoundError("product not found")
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindItem(ctx, cart.ID, productID, req.Size, req.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}

	quantity := req.Quantity
	if existing != nil {
		quantity += existing.Quantity
	}
	if quantity > product.Stock {
		return nil, model.NewInsufficientStockError(product.Name, product.Stock)
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(ctx, existing.ID, quantity); err != nil {
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
	} else {
		item := &model.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Size:      req.Size,
			Color:     req.Color,
			Price:     product.Price,
			CreatedAt: time.Now(),
		}
		if err := s.cartRepo.AddItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to add cart line: %w", err)
		}
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("cart line upserted")
	return s.Get(ctx, userID)
}

// UpdateItem sets a line's quantity directly.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *model.UpdateCartItemRequest) (*model.Cart, error) {
	if req.Quantity < 1 {
		return nil, model.NewValidationError("quantity must be at least 1")
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}
	if item == nil {
		return nil, model.NewNotFoundError("cart item not found")
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.NewNotFoundError("product not found")
	}
	if req.Quantity > product.Stock {
		return nil, model.NewInsufficientStockError(product.Name, product.Stock)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, itemID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return s.Get(ctx, userID)
}

// RemoveItem deletes one line.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}
	if item == nil {
		return nil, model.NewNotFoundError("cart item not found")
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, fmt.Errorf("failed to remove cart line: %w", err)
	}

	return s.Get(ctx, userID)
}

// Clear removes every line.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

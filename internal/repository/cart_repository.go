package repository

import (
	"context"
	"fmt"
	"time"

	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUserID retrieves the user's cart with its items.
func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.stock,
			ci.quantity, ci.size, ci.color, ci.price, ci.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at, ci.id
	`, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID,
			&item.ProductName, &item.ProductStock, &item.Quantity,
			&item.Size, &item.Color, &item.Price, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	cart.ComputeTotal()
	return &cart, nil
}

// Create inserts an empty cart for the user.
func (r *cartRepository) Create(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	now := time.Now()
	cart := &model.Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []model.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
	`, cart.ID, cart.UserID, now)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to create cart")
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	r.logger.Debug().Str("cart_id", cart.ID.String()).Msg("cart created")
	return cart, nil
}

// GetItem retrieves one line of a cart.
func (r *cartRepository) GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error) {
	return r.findItem(ctx, `
		SELECT id, cart_id, product_id, quantity, size, color, price, created_at
		FROM cart_items
		WHERE cart_id = $1 AND id = $2
	`, cartID, itemID)
}

// FindItem retrieves the line matching product and variant.
func (r *cartRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*model.CartItem, error) {
	return r.findItem(ctx, `
		SELECT id, cart_id, product_id, quantity, size, color, price, created_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2 AND size = $3 AND color = $4
	`, cartID, productID, size, color)
}

func (r *cartRepository) findItem(ctx context.Context, query string, args ...any) (*model.CartItem, error) {
	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
		&item.Size, &item.Color, &item.Price, &item.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query cart item")
		return nil, fmt.Errorf("failed to query cart item: %w", err)
	}
	return &item, nil
}

// AddItem appends a new line to the cart.
func (r *cartRepository) AddItem(ctx context.Context, item *model.CartItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, size, color, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, item.ID, item.CartID, item.ProductID, item.Quantity, item.Size,
		item.Color, item.Price, item.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", item.CartID.String()).Msg("failed to add cart item")
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	r.touch(ctx, item.CartID)
	return nil
}

// UpdateItemQuantity sets a line's quantity directly.
func (r *cartRepository) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2 WHERE id = $1`, itemID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to update cart item")
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("cart item %s not found", itemID)
	}
	return nil
}

// RemoveItem deletes one line from the cart.
func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", itemID.String()).Msg("failed to remove cart item")
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("cart item %s not found", itemID)
	}

	r.touch(ctx, cartID)
	return nil
}

// Clear removes every line from the cart.
func (r *cartRepository) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cartID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.touch(ctx, cartID)
	return nil
}

// DeleteByUserID drops the user's cart entirely.
func (r *cartRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to delete cart")
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (r *cartRepository) touch(ctx context.Context, cartID uuid.UUID) {
	if _, err := r.pool.Exec(ctx,
		`UPDATE carts SET updated_at = NOW() WHERE id = $1`, cartID); err != nil {
		r.logger.Warn().Err(err).Str("cart_id", cartID.String()).Msg("failed to touch cart")
	}
}

package repository

import (
	"context"

	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	// Create inserts a new user with the given role set.
	Create(ctx context.Context, user *model.User, roles []model.Role) error

	// GetByID retrieves a user with their roles, or nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail retrieves a user with their roles, or nil if absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// List retrieves users matching the filter with a total count.
	List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error)

	// UpdateProfile persists full name, phone, address and avatar fields.
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateLastLogin stamps the last successful login time.
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	// SetRoles replaces the user's role set.
	SetRoles(ctx context.Context, id uuid.UUID, roles []model.Role) error

	// SetActive toggles the account's active flag.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Delete removes a user account.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves active products matching the filter with a total count.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int64, error)

	// GetByID retrieves a single product, or nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// IncrementViews atomically bumps the product's view counter.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update persists all mutable product fields.
	Update(ctx context.Context, p *model.Product) error

	// UpdateImages replaces the product's stored image set.
	UpdateImages(ctx context.Context, id uuid.UUID, images []model.Image) error

	// Delete removes a product.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReserveStock performs the atomic conditional decrement for a checkout
	// line: stock -= qty and sold_count += qty only if stock >= qty. It
	// returns the product's name and unit price as read in the same
	// statement. A missing product yields a NotFound domain error; an
	// insufficient stock level yields an InsufficientStock domain error
	// naming the product and the available quantity.
	ReserveStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (name string, price float64, err error)

	// RestoreStock compensates a reservation: stock += qty, sold_count -= qty.
	RestoreStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// List retrieves categories ordered by sort order then name.
	List(ctx context.Context, activeOnly bool) ([]model.Category, error)

	// GetByID retrieves a single category, or nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// Create inserts a new category.
	Create(ctx context.Context, c *model.Category) error

	// Update persists mutable category fields.
	Update(ctx context.Context, c *model.Category) error

	// Delete removes a category. Deletion is rejected with a Conflict
	// domain error while products still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetByUserID retrieves the user's cart with its items, or nil if the
	// user has no cart yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// Create inserts an empty cart for the user.
	Create(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// GetItem retrieves one line of a cart, or nil if absent.
	GetItem(ctx context.Context, cartID, itemID uuid.UUID) (*model.CartItem, error)

	// FindItem retrieves the line matching product and variant, or nil.
	FindItem(ctx context.Context, cartID, productID uuid.UUID, size, color string) (*model.CartItem, error)

	// AddItem appends a new line to the cart.
	AddItem(ctx context.Context, item *model.CartItem) error

	// UpdateItemQuantity sets a line's quantity directly.
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// RemoveItem deletes one line from the cart.
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) error

	// Clear removes every line from the cart.
	Clear(ctx context.Context, cartID uuid.UUID) error

	// DeleteByUserID drops the user's cart entirely. Used after checkout.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// NextOrderNumber draws the next value from the order number sequence.
	NextOrderNumber(ctx context.Context, tx pgx.Tx) (int64, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order item snapshots within the transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// AppendStatusHistory appends one entry to the order's status history.
	AppendStatusHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, change model.StatusChange) error

	// GetByID retrieves an order with items and history, or nil if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByIDForUser retrieves an order only if it belongs to the user, or
	// nil otherwise. Ownership is part of the lookup filter so a non-owner
	// cannot learn the order exists.
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)

	// GetForUpdate locks and retrieves an order row inside a transaction.
	// A zero userID skips the ownership filter.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*model.Order, error)

	// ListItems retrieves an order's item snapshots inside a transaction.
	ListItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	// UpdateStatus persists a status transition. When the new status is
	// delivered, payment status flips to paid and the delivery time is
	// stamped in the same statement.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, cancelReason string) error

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error)

	// List retrieves orders matching the admin filter.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, int64, error)
}

// StatsRepository defines read-only aggregate queries for reporting.
type StatsRepository interface {
	// Dashboard computes the admin dashboard rollups.
	Dashboard(ctx context.Context) (*model.DashboardStats, error)

	// Statistics computes grouped order statistics in an optional range.
	Statistics(ctx context.Context, r model.StatsRange) (*model.Statistics, error)
}

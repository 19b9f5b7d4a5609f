// Package service implements the business rules on top of the repository
// layer. Services validate input, enforce ownership and state machines,
// and orchestrate transactions; handlers stay thin.
package service

import (
	"context"
	"io"

	"fashion-shop/internal/model"

	"github.com/google/uuid"
)

// ImageUpload is one multipart file handed down from a handler.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AuthService defines account and session operations.
type AuthService interface {
	// Signup registers a new account and issues a token pair.
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)

	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.AuthResponse, error)

	// GetProfile returns the caller's account.
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)

	// UpdateProfile updates the caller's profile fields.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)

	// UpdateAvatar stores a new avatar image and replaces the old one.
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload ImageUpload) (*model.User, error)

	// ChangePassword verifies the current password and sets a new one.
	ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error
}

// UserService defines admin-only account management.
type UserService interface {
	// List retrieves users matching the filter.
	List(ctx context.Context, filter model.UserFilter) ([]model.User, *model.Pagination, error)

	// GetByID retrieves one user.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// SetRoles replaces a user's role set.
	SetRoles(ctx context.Context, id uuid.UUID, roles []model.Role) (*model.User, error)

	// SetActive activates or deactivates an account.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// Delete removes an account. An admin cannot delete themselves.
	Delete(ctx context.Context, actor model.Principal, id uuid.UUID) error
}

// ProductService defines catalogue operations.
type ProductService interface {
	// List retrieves active products matching the filter.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, *model.Pagination, error)

	// GetByID retrieves one product and bumps its view counter.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a product with its uploaded images.
	Create(ctx context.Context, req *model.CreateProductRequest, uploads []ImageUpload) (*model.Product, error)

	// Update applies partial updates; new uploads replace stored images.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest, uploads []ImageUpload) (*model.Product, error)

	// Delete removes a product and its stored images.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService defines category operations.
type CategoryService interface {
	// List retrieves categories; activeOnly hides disabled ones.
	List(ctx context.Context, activeOnly bool) ([]model.Category, error)

	// GetByID retrieves one category.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error)

	// Create inserts a category with an optional image.
	Create(ctx context.Context, req *model.CreateCategoryRequest, upload *ImageUpload) (*model.Category, error)

	// Update applies partial updates.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error)

	// Delete removes a category that no product references.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartService defines operations on the caller's cart.
type CartService interface {
	// Get retrieves the caller's cart, creating an empty one on first use.
	Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds a line, merging quantity into an existing line with the
	// same product and variant.
	AddItem(ctx context.Context, userID uuid.UUID, req *model.AddCartItemRequest) (*model.Cart, error)

	// UpdateItem sets a line's quantity directly.
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req *model.UpdateCartItemRequest) (*model.Cart, error)

	// RemoveItem deletes one line.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.Cart, error)

	// Clear removes every line.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// OrderService defines checkout and order lifecycle operations.
type OrderService interface {
	// Checkout validates the request, reserves stock and creates the order
	// in one transaction.
	Checkout(ctx context.Context, principal model.Principal, req *model.CheckoutRequest) (*model.Order, error)

	// ListMine retrieves the caller's orders, newest first.
	ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, *model.Pagination, error)

	// GetMine retrieves one of the caller's orders. A non-owner lookup
	// reports not found.
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)

	// Cancel cancels a pending order owned by the caller and restores stock.
	Cancel(ctx context.Context, principal model.Principal, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.Order, error)

	// List retrieves orders for the admin listing.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, *model.Pagination, error)

	// GetByID retrieves any order by ID for staff.
	GetByID(ctx context.Context, orderID uuid.UUID) (*model.Order, error)

	// SetStatus applies an admin status transition with a history entry.
	SetStatus(ctx context.Context, actor model.Principal, orderID uuid.UUID, req *model.UpdateOrderStatusRequest) (*model.Order, error)
}

// AdminService defines reporting aggregates.
type AdminService interface {
	// Dashboard returns the admin dashboard rollups.
	Dashboard(ctx context.Context) (*model.DashboardStats, error)

	// Statistics returns grouped order statistics for an optional range.
	Statistics(ctx context.Context, r model.StatsRange) (*model.Statistics, error)
}

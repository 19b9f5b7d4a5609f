package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds a user's pending line items. One cart per user, created
// lazily on first add.
type Cart struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"userId" db:"user_id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// ComputeTotal recomputes the cart total from its line items.
func (c *Cart) ComputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalAmount = total
}

// CartItem is one (product, quantity, variant) line in a cart. Price is
// captured at add time, not re-derived from the product.
type CartItem struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CartID       uuid.UUID `json:"-" db:"cart_id"`
	ProductID    uuid.UUID `json:"productId" db:"product_id"`
	ProductName  string    `json:"productName,omitempty"`
	ProductStock int       `json:"productStock,omitempty"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Size         string    `json:"size,omitempty" db:"size"`
	Color        string    `json:"color,omitempty" db:"color"`
	Price        float64   `json:"price" db:"price"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// AddCartItemRequest is the payload for adding a line to the cart.
type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// UpdateCartItemRequest sets a line's quantity directly.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

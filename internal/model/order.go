package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is an order's fulfilment state.
type OrderStatus string

// Order statuses.
const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipping   OrderStatus = "shipping"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

// Valid reports whether s is a recognised order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipping,
		StatusDelivered, StatusCancelled, StatusReturned:
		return true
	}
	return false
}

// PaymentMethod is how the order will be paid. Payment methods are labels
// only; there is no gateway integration.
type PaymentMethod string

// Payment methods.
const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentEWallet      PaymentMethod = "e_wallet"
)

// Valid reports whether m is a recognised payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentCreditCard, PaymentEWallet:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

// Payment statuses.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// ShippingAddress is the delivery destination for an order.
type ShippingAddress struct {
	FullName string `json:"fullName" db:"shipping_name"`
	Phone    string `json:"phone" db:"shipping_phone"`
	Street   string `json:"street" db:"shipping_street"`
	City     string `json:"city" db:"shipping_city"`
	Note     string `json:"note,omitempty" db:"shipping_note"`
}

// Validate checks that all required address fields are present.
func (a ShippingAddress) Validate() error {
	switch {
	case a.FullName == "":
		return NewValidationError("shipping address: recipient name is required")
	case a.Phone == "":
		return NewValidationError("shipping address: phone is required")
	case a.Street == "":
		return NewValidationError("shipping address: street is required")
	case a.City == "":
		return NewValidationError("shipping address: city is required")
	}
	return nil
}

// OrderItem is an immutable snapshot of one ordered line. The product
// reference may be cleared if the product is later deleted; the snapshot
// fields keep historical orders intact.
type OrderItem struct {
	ID        uuid.UUID  `json:"-" db:"id"`
	OrderID   uuid.UUID  `json:"-" db:"order_id"`
	ProductID *uuid.UUID `json:"productId,omitempty" db:"product_id"`
	Name      string     `json:"name" db:"name"`
	Quantity  int        `json:"quantity" db:"quantity"`
	Size      string     `json:"size,omitempty" db:"size"`
	Color     string     `json:"color,omitempty" db:"color"`
	Price     float64    `json:"price" db:"price"`
	Subtotal  float64    `json:"subtotal" db:"subtotal"`
}

// StatusChange is one entry of an order's append-only status history.
type StatusChange struct {
	Status    OrderStatus `json:"status" db:"status"`
	Note      string      `json:"note,omitempty" db:"note"`
	ActorID   *uuid.UUID  `json:"actorId,omitempty" db:"actor_id"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// Order represents a persisted customer order.
type Order struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	OrderNumber   string          `json:"orderNumber" db:"order_number"`
	UserID        uuid.UUID       `json:"userId" db:"user_id"`
	Items         []OrderItem     `json:"items"`
	Shipping      ShippingAddress `json:"shippingAddress"`
	PaymentMethod PaymentMethod   `json:"paymentMethod" db:"payment_method"`
	PaymentStatus PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	Status        OrderStatus     `json:"status" db:"status"`
	Subtotal      float64         `json:"subtotal" db:"subtotal"`
	ShippingFee   float64         `json:"shippingFee" db:"shipping_fee"`
	Discount      float64         `json:"discount" db:"discount"`
	Total         float64         `json:"total" db:"total"`
	StatusHistory []StatusChange  `json:"statusHistory"`
	CancelReason  string          `json:"cancelReason,omitempty" db:"cancel_reason"`
	DeliveredAt   *time.Time      `json:"deliveredAt,omitempty" db:"delivered_at"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}

// FormatOrderNumber builds the display order number from a sequence value
// and the creation date. The sequence makes numbers collision-free by
// construction.
func FormatOrderNumber(seq int64, t time.Time) string {
	return fmt.Sprintf("ORD%04d%02d%06d", t.Year(), int(t.Month()), seq)
}

// CheckoutItem is one requested line of a checkout.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CheckoutRequest is the payload for order creation.
type CheckoutRequest struct {
	Items           []CheckoutItem  `json:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
}

// CancelOrderRequest optionally carries the customer's cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// UpdateOrderStatusRequest is the admin payload for a status transition.
type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status"`
	Note   string      `json:"note"`
}

// OrderFilter selects orders for the admin listing.
type OrderFilter struct {
	Status        OrderStatus
	PaymentStatus PaymentStatus
	Search        string
	Page          int
	Limit         int
}

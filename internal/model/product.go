package model

import (
	"time"

	"github.com/google/uuid"
)

// Image is a stored product or avatar image.
type Image struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Product represents a catalogue item.
type Product struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Slug         string     `json:"slug" db:"slug"`
	Description  string     `json:"description" db:"description"`
	Price        float64    `json:"price" db:"price"`
	ComparePrice *float64   `json:"comparePrice,omitempty" db:"compare_price"`
	Brand        string     `json:"brand,omitempty" db:"brand"`
	SKU          string     `json:"sku,omitempty" db:"sku"`
	CategoryID   uuid.UUID  `json:"categoryId" db:"category_id"`
	CategoryName string     `json:"categoryName,omitempty"`
	Stock        int        `json:"stock" db:"stock"`
	SoldCount    int        `json:"soldCount" db:"sold_count"`
	Views        int64      `json:"views" db:"views"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	IsFeatured   bool       `json:"isFeatured" db:"is_featured"`
	Images       []Image    `json:"images"`
	Tags         []string   `json:"tags,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Sort orders accepted by the product listing.
const (
	SortNewest     = "newest"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortName       = "name"
	SortBestseller = "bestseller"
)

// ProductFilter selects and orders products for the public listing.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Brand      string
	MinPrice   *float64
	MaxPrice   *float64
	Featured   *bool
	InStock    bool
	SortBy     string
	Page       int
	Limit      int
}

// CreateProductRequest is the payload for product creation.
type CreateProductRequest struct {
	Name         string   `json:"name" form:"name"`
	Description  string   `json:"description" form:"description"`
	Price        float64  `json:"price" form:"price"`
	ComparePrice *float64 `json:"comparePrice" form:"comparePrice"`
	Brand        string   `json:"brand" form:"brand"`
	CategoryID   string   `json:"categoryId" form:"categoryId"`
	Stock        int      `json:"stock" form:"stock"`
	Tags         []string `json:"tags" form:"tags"`
	IsFeatured   bool     `json:"isFeatured" form:"isFeatured"`
}

// UpdateProductRequest is the payload for product updates. Nil fields are
// left unchanged.
type UpdateProductRequest struct {
	Name         *string  `json:"name" form:"name"`
	Description  *string  `json:"description" form:"description"`
	Price        *float64 `json:"price" form:"price"`
	ComparePrice *float64 `json:"comparePrice" form:"comparePrice"`
	Brand        *string  `json:"brand" form:"brand"`
	CategoryID   *string  `json:"categoryId" form:"categoryId"`
	Stock        *int     `json:"stock" form:"stock"`
	Tags         []string `json:"tags" form:"tags"`
	IsActive     *bool    `json:"isActive" form:"isActive"`
	IsFeatured   *bool    `json:"isFeatured" form:"isFeatured"`
}

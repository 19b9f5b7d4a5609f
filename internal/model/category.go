package model

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Slug        string     `json:"slug" db:"slug"`
	Description string     `json:"description,omitempty" db:"description"`
	ParentID    *uuid.UUID `json:"parentId,omitempty" db:"parent_id"`
	ImageURL    string     `json:"imageUrl,omitempty" db:"image_url"`
	ImageKey    string     `json:"-" db:"image_key"`
	SortOrder   int        `json:"sortOrder" db:"sort_order"`
	IsActive    bool       `json:"isActive" db:"is_active"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// CreateCategoryRequest is the payload for category creation.
type CreateCategoryRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	ParentID    string `json:"parentId" form:"parentId"`
	SortOrder   int    `json:"sortOrder" form:"sortOrder"`
}

// UpdateCategoryRequest is the payload for category updates.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
	SortOrder   *int    `json:"sortOrder" form:"sortOrder"`
	IsActive    *bool   `json:"isActive" form:"isActive"`
}

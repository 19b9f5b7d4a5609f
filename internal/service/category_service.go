package service

import (
	"context"
	"fmt"
	"time"

	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	store        storage.Store
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	store storage.Store,
	logger zerolog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		store:        store,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

// List retrieves categories; activeOnly hides disabled ones.
func (s *categoryService) List(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	categories, err := s.categoryRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// GetByID retrieves one category.
func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.NewNotFoundError("category not found")
	}
	return category, nil
}

// Create inserts a category with an optional image.
func (s *categoryService) Create(ctx context.Context, req *model.CreateCategoryRequest, upload *ImageUpload) (*model.Category, error) {
	if req.Name == "" {
		return nil, model.NewValidationError("category name is required")
	}

	category := &model.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        model.Slugify(req.Name),
		Description: req.Description,
		SortOrder:   req.SortOrder,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, model.NewValidationError("invalid parent category id")
		}
		parent, err := s.categoryRepo.GetByID(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up parent category: %w", err)
		}
		if parent == nil {
			return nil, model.NewValidationError("parent category does not exist")
		}
		category.ParentID = &parentID
	}

	if upload != nil {
		key := storage.NewKey("categories/", upload.Filename)
		url, err := s.store.Put(ctx, key, upload.ContentType, upload.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to store category image: %w", err)
		}
		category.ImageKey = key
		category.ImageURL = url
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if category.ImageKey != "" {
			if delErr := s.store.Delete(ctx, category.ImageKey); delErr != nil {
				s.logger.Error().Err(delErr).Str("key", category.ImageKey).Msg("failed to delete orphaned category image")
			}
		}
		return nil, err
	}

	s.logger.Info().Str("category_id", category.ID.String()).Str("slug", category.Slug).Msg("category created")
	return category, nil
}

// Update applies partial updates.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCategoryRequest) (*model.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, model.NewValidationError("category name cannot be empty")
		}
		category.Name = *req.Name
		category.Slug = model.Slugify(*req.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete removes a category that no product references.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	if category.ImageKey != "" {
		if err := s.store.Delete(ctx, category.ImageKey); err != nil {
			s.logger.Error().Err(err).Str("key", category.ImageKey).Msg("failed to delete category image")
		}
	}

	s.logger.Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}

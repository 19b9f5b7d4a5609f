package service

import (
	"context"
	"fmt"
	"time"

	"fashion-shop/internal/config"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"
	"fashion-shop/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultProductPageLimit = 12

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	store        storage.Store
	upload       config.UploadConfig
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	store storage.Store,
	upload config.UploadConfig,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		store:        store,
		upload:       upload,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves active products matching the filter.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, *model.Pagination, error) {
	filter.Page, filter.Limit = model.NormalizePage(filter.Page, filter.Limit, defaultProductPageLimit)

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, model.NewPagination(total, filter.Page, filter.Limit), nil
}

// GetByID retrieves one product and bumps its view counter.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFoundError("product not found")
	}

	if err := s.productRepo.IncrementViews(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to bump view counter")
	} else {
		product.Views++
	}

	return product, nil
}

// Create inserts a product with its uploaded images.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest, uploads []ImageUpload) (*model.Product, error) {
	if err := s.validateCreate(req); err != nil {
		return nil, err
	}
	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, model.NewValidationError("invalid category id")
	}
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if category == nil {
		return nil, model.NewValidationError("category does not exist")
	}

	images, err := s.storeUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:           uuid.New(),
		Name:         req.Name,
		Slug:         model.Slugify(req.Name),
		Description:  req.Description,
		Price:        req.Price,
		ComparePrice: req.ComparePrice,
		Brand:        req.Brand,
		CategoryID:   categoryID,
		Stock:        req.Stock,
		IsActive:     true,
		IsFeatured:   req.IsFeatured,
		Images:       images,
		Tags:         req.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.deleteImages(ctx, images)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("slug", product.Slug).Msg("product created")
	return product, nil
}

// Update applies partial updates; new uploads replace stored images.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest, uploads []ImageUpload) (*model.Product, error) {
	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.NewNotFoundError("product not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, model.NewValidationError("product name cannot be empty")
		}
		product.Name = *req.Name
		product.Slug = model.Slugify(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, model.NewValidationError("price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.ComparePrice != nil {
		product.ComparePrice = req.ComparePrice
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, model.NewValidationError("invalid category id")
		}
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up category: %w", err)
		}
		if category == nil {
			return nil, model.NewValidationError("category does not exist")
		}
		product.CategoryID = categoryID
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, model.NewValidationError("stock cannot be negative")
		}
		product.Stock = *req.Stock
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	var oldImages []model.Image
	if len(uploads) > 0 {
		images, err := s.storeUploads(ctx, uploads)
		if err != nil {
			return nil, err
		}
		oldImages = product.Images
		product.Images = images
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if len(uploads) > 0 {
			s.deleteImages(ctx, product.Images)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// Old images are removed only after the update is durable.
	s.deleteImages(ctx, oldImages)

	s.logger.Info().Str("product_id", id.String()).Msg("product updated")
	return product, nil
}

// Delete removes a product and its stored images.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return model.NewNotFoundError("product not found")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.deleteImages(ctx, product.Images)

	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *productService) validateCreate(req *model.CreateProductRequest) error {
	switch {
	case req.Name == "":
		return model.NewValidationError("product name is required")
	case req.Price < 0:
		return model.NewValidationError("price cannot be negative")
	case req.Stock < 0:
		return model.NewValidationError("stock cannot be negative")
	case req.CategoryID == "":
		return model.NewValidationError("category is required")
	}
	return nil
}

func (s *productService) validateUploads(uploads []ImageUpload) error {
	if len(uploads) > s.upload.MaxFiles {
		return model.NewValidationError("at most %d images are allowed", s.upload.MaxFiles)
	}
	for _, u := range uploads {
		if !s.upload.AllowsType(u.ContentType) {
			return model.NewValidationError("unsupported image type: %s", u.ContentType)
		}
		if u.Size > s.upload.MaxFileSize {
			return model.NewValidationError("image %s exceeds the %d byte limit", u.Filename, s.upload.MaxFileSize)
		}
	}
	return nil
}

func (s *productService) storeUploads(ctx context.Context, uploads []ImageUpload) ([]model.Image, error) {
	images := make([]model.Image, 0, len(uploads))
	for _, u := range uploads {
		key := storage.NewKey("products/", u.Filename)
		url, err := s.store.Put(ctx, key, u.ContentType, u.Body)
		if err != nil {
			s.deleteImages(ctx, images)
			return nil, fmt.Errorf("failed to store image %s: %w", u.Filename, err)
		}
		images = append(images, model.Image{Key: key, URL: url})
	}
	return images, nil
}

func (s *productService) deleteImages(ctx context.Context, images []model.Image) {
	for _, img := range images {
		if img.Key == "" {
			continue
		}
		if err := s.store.Delete(ctx, img.Key); err != nil {
			s.logger.Error().Err(err).Str("key", img.Key).Msg("failed to delete stored image")
		}
	}
}

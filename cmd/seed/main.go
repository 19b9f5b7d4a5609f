// Command seed populates a development database with an admin account,
// a handful of categories and a small catalogue. Running it twice is
// safe: existing rows are detected by email or slug and skipped.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fashion-shop/internal/config"
	"fashion-shop/internal/database"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@fashionshop.dev"
	adminPassword = "admin123"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger).With().Str("component", "seed").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	users := repository.NewUserRepository(pool, logger)
	categories := repository.NewCategoryRepository(pool, logger)
	products := repository.NewProductRepository(pool, logger)

	if err := seedAdmin(ctx, users, logger); err != nil {
		return err
	}
	if err := seedCatalogue(ctx, categories, products, logger); err != nil {
		return err
	}

	logger.Info().Msg("seed completed")
	return nil
}

func seedAdmin(ctx context.Context, users repository.UserRepository, logger zerolog.Logger) error {
	existing, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}
	if existing != nil {
		logger.Info().Str("email", adminEmail).Msg("admin account already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now()
	admin := &model.User{
		ID:           uuid.New(),
		FullName:     "Shop Admin",
		Email:        adminEmail,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin, []model.Role{model.RoleUser, model.RoleAdmin}); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info().Str("email", adminEmail).Msg("admin account created")
	return nil
}

func seedCatalogue(ctx context.Context, categories repository.CategoryRepository, products repository.ProductRepository, logger zerolog.Logger) error {
	existing, err := categories.List(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}
	bySlug := make(map[string]model.Category, len(existing))
	for _, c := range existing {
		bySlug[c.Slug] = c
	}

	wanted := []model.Category{
		{Name: "Men", Description: "Menswear", SortOrder: 1, IsActive: true},
		{Name: "Women", Description: "Womenswear", SortOrder: 2, IsActive: true},
		{Name: "Accessories", Description: "Bags, belts and more", SortOrder: 3, IsActive: true},
	}
	for i := range wanted {
		c := &wanted[i]
		c.Slug = model.Slugify(c.Name)
		if have, ok := bySlug[c.Slug]; ok {
			wanted[i] = have
			continue
		}
		c.ID = uuid.New()
		c.CreatedAt = time.Now()
		if err := categories.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create category %s: %w", c.Name, err)
		}
		bySlug[c.Slug] = *c
		logger.Info().Str("category", c.Name).Msg("category created")
	}

	samples := []model.Product{
		{
			Name:        "Linen Summer Shirt",
			Description: "Lightweight linen shirt in natural tones.",
			Price:       320000,
			Brand:       "Atelier",
			CategoryID:  bySlug["men"].ID,
			Stock:       25,
			IsActive:    true,
			IsFeatured:  true,
		},
		{
			Name:        "Pleated Midi Skirt",
			Description: "Soft pleats, mid-length, machine washable.",
			Price:       450000,
			Brand:       "Atelier",
			CategoryID:  bySlug["women"].ID,
			Stock:       18,
			IsActive:    true,
		},
		{
			Name:        "Leather Belt",
			Description: "Full-grain leather with brass buckle.",
			Price:       180000,
			Brand:       "Harness",
			CategoryID:  bySlug["accessories"].ID,
			Stock:       40,
			IsActive:    true,
		},
	}

	catalogue, _, err := products.List(ctx, model.ProductFilter{Page: 1, Limit: 100})
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	haveSlug := make(map[string]bool, len(catalogue))
	for _, p := range catalogue {
		haveSlug[p.Slug] = true
	}

	for i := range samples {
		p := &samples[i]
		p.Slug = model.Slugify(p.Name)
		if haveSlug[p.Slug] {
			continue
		}
		p.ID = uuid.New()
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
		if err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create product %s: %w", p.Name, err)
		}
		logger.Info().Str("product", p.Name).Msg("product created")
	}

	return nil
}

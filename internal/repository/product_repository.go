package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `
	p.id, p.name, p.slug, p.description, p.price, p.compare_price, p.brand,
	p.sku, p.category_id, c.name, p.stock, p.sold_count, p.views,
	p.is_active, p.is_featured, p.images, p.tags, p.created_at, p.updated_at
`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var imagesJSON []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.ComparePrice,
		&p.Brand, &p.SKU, &p.CategoryID, &p.CategoryName, &p.Stock,
		&p.SoldCount, &p.Views, &p.IsActive, &p.IsFeatured, &imagesJSON,
		&p.Tags, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		return nil, fmt.Errorf("failed to decode product images: %w", err)
	}
	if p.Images == nil {
		p.Images = []model.Image{}
	}
	return &p, nil
}

// List retrieves active products matching the filter with a total count.
func (r *productRepository) List(ctx context.Context, f model.ProductFilter) ([]model.Product, int64, error) {
	where := []string{"p.is_active"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.CategoryID != nil {
		where = append(where, "p.category_id = "+arg(*f.CategoryID))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(p.name ILIKE "+p+" OR p.description ILIKE "+p+")")
	}
	if f.Brand != "" {
		where = append(where, "p.brand ILIKE "+arg("%"+f.Brand+"%"))
	}
	if f.MinPrice != nil {
		where = append(where, "p.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "p.price <= "+arg(*f.MaxPrice))
	}
	if f.Featured != nil {
		where = append(where, "p.is_featured = "+arg(*f.Featured))
	}
	if f.InStock {
		where = append(where, "p.stock > 0")
	}

	whereClause := strings.Join(where, " AND ")

	var orderBy string
	switch f.SortBy {
	case model.SortPriceAsc:
		orderBy = "p.price ASC"
	case model.SortPriceDesc:
		orderBy = "p.price DESC"
	case model.SortName:
		orderBy = "p.name ASC"
	case model.SortBestseller:
		orderBy = "p.sold_count DESC"
	default:
		orderBy = "p.created_at DESC"
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM products p WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := "SELECT " + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE ` + whereClause + `
		ORDER BY ` + orderBy + `
		LIMIT ` + arg(f.Limit) + " OFFSET " + arg((f.Page-1)*f.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := "SELECT " + productColumns + `
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// IncrementViews atomically bumps the product's view counter.
func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to increment views")
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		INSERT INTO products (
			id, name, slug, description, price, compare_price, brand, sku,
			category_id, stock, sold_count, views, is_active, is_featured,
			images, tags, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, $11, $12, $13, $14, $15, $15)
	`

	_, err = r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.ComparePrice,
		p.Brand, p.SKU, p.CategoryID, p.Stock, p.IsActive, p.IsFeatured,
		imagesJSON, p.Tags, p.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID.String()).Msg("product created")
	return nil
}

// Update persists all mutable product fields.
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5,
			compare_price = $6, brand = $7, category_id = $8, stock = $9,
			is_active = $10, is_featured = $11, tags = $12, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.ComparePrice,
		p.Brand, p.CategoryID, p.Stock, p.IsActive, p.IsFeatured, p.Tags,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("product %s not found", p.ID)
	}

	return nil
}

// UpdateImages replaces the product's stored image set.
func (r *productRepository) UpdateImages(ctx context.Context, id uuid.UUID, images []model.Image) error {
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`UPDATE products SET images = $2, updated_at = NOW() WHERE id = $1`,
		id, imagesJSON,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update images")
		return fmt.Errorf("failed to update product images: %w", err)
	}
	return nil
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("product %s not found", id)
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

// ReserveStock performs the atomic conditional decrement for a checkout
// line. The sufficiency check and the decrement are a single statement, so
// two concurrent checkouts can never both pass a stale check.
func (r *productRepository) ReserveStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (string, float64, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, sold_count = sold_count + $2, updated_at = NOW()
		WHERE id = $1 AND is_active AND stock >= $2
		RETURNING name, price
	`

	var name string
	var price float64
	err := tx.QueryRow(ctx, query, id, qty).Scan(&name, &price)
	if err == nil {
		return name, price, nil
	}
	if err != pgx.ErrNoRows {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to reserve stock")
		return "", 0, fmt.Errorf("failed to reserve stock: %w", err)
	}

	// No row updated: distinguish a missing product from an insufficient
	// stock level.
	var available int
	err = tx.QueryRow(ctx,
		`SELECT name, stock FROM products WHERE id = $1 AND is_active`, id,
	).Scan(&name, &available)
	if err == pgx.ErrNoRows {
		return "", 0, model.NewNotFoundError("product %s not found", id)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to inspect stock")
		return "", 0, fmt.Errorf("failed to inspect stock: %w", err)
	}

	r.logger.Warn().
		Str("product_id", id.String()).
		Int("requested", qty).
		Int("available", available).
		Msg("insufficient stock")

	return "", 0, model.NewInsufficientStockError(name, available)
}

// RestoreStock compensates a reservation after a cancellation.
func (r *productRepository) RestoreStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) error {
	_, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2, sold_count = GREATEST(sold_count - $2, 0), updated_at = NOW()
		WHERE id = $1
	`, id, qty)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to restore stock")
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

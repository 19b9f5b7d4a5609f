package integration

import (
	"context"
	"testing"
	"time"

	"fashion-shop/internal/database"
	"fashion-shop/internal/model"
	"fashion-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB truncates all data tables between test cases.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	_, err := pool.Exec(ctx, `
		TRUNCATE order_status_history, order_items, orders,
			cart_items, carts, products, categories,
			user_roles, users
		CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// SeedUser inserts an active user account and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email string, roles ...model.Role) *model.User {
	t.Helper()

	if len(roles) == 0 {
		roles = []model.Role{model.RoleUser}
	}
	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "$2a$04$notarealhashbutirrelevanthere",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	repo := repository.NewUserRepository(pool, zerolog.Nop())
	if err := repo.Create(context.Background(), user, roles); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

// SeedCategory inserts an active category and returns it.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name string) *model.Category {
	t.Helper()

	category := &model.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      model.Slugify(name),
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	repo := repository.NewCategoryRepository(pool, zerolog.Nop())
	if err := repo.Create(context.Background(), category); err != nil {
		t.Fatalf("failed to seed category %s: %v", name, err)
	}
	return category
}

// SeedProduct inserts an active product with the given stock and price.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, name string, price float64, stock int) *model.Product {
	t.Helper()

	now := time.Now()
	product := &model.Product{
		ID:         uuid.New(),
		Name:       name,
		Slug:       model.Slugify(name),
		Price:      price,
		CategoryID: categoryID,
		Stock:      stock,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	repo := repository.NewProductRepository(pool, zerolog.Nop())
	if err := repo.Create(context.Background(), product); err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return product
}

// testAddress returns a complete shipping address for checkout payloads.
func testAddress() model.ShippingAddress {
	return model.ShippingAddress{
		FullName: "Test User",
		Phone:    "0123456789",
		Street:   "1 Test Street",
		City:     "Testville",
	}
}

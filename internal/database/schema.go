package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the full database DDL. Statements are idempotent so Migrate can
// run on every startup.
const Schema = `
CREATE TABLE IF NOT EXISTS roles (
	id SERIAL PRIMARY KEY,
	name VARCHAR(30) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

INSERT INTO roles (name, description) VALUES
	('user', 'Regular customer'),
	('moderator', 'Catalogue manager'),
	('admin', 'Full administrative access')
ON CONFLICT (name) DO NOTHING;

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	full_name VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	phone VARCHAR(20) NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	avatar_key TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	last_login TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_roles (
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role_id INT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, role_id)
);

CREATE TABLE IF NOT EXISTS categories (
	id UUID PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	slug VARCHAR(120) NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	parent_id UUID REFERENCES categories(id) ON DELETE SET NULL,
	image_url TEXT NOT NULL DEFAULT '',
	image_key TEXT NOT NULL DEFAULT '',
	sort_order INT NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	slug VARCHAR(220) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	compare_price NUMERIC(12, 2) CHECK (compare_price >= 0),
	brand VARCHAR(100) NOT NULL DEFAULT '',
	sku VARCHAR(60) NOT NULL DEFAULT '',
	category_id UUID NOT NULL REFERENCES categories(id),
	stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
	sold_count INT NOT NULL DEFAULT 0,
	views BIGINT NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	images JSONB NOT NULL DEFAULT '[]',
	tags TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products (category_id, is_active);
CREATE INDEX IF NOT EXISTS idx_products_price ON products (price);
CREATE INDEX IF NOT EXISTS idx_products_created ON products (created_at DESC);

CREATE TABLE IF NOT EXISTS carts (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS cart_items (
	id UUID PRIMARY KEY,
	cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
	product_id UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	quantity INT NOT NULL CHECK (quantity >= 1),
	size VARCHAR(30) NOT NULL DEFAULT '',
	color VARCHAR(30) NOT NULL DEFAULT '',
	price NUMERIC(12, 2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE SEQUENCE IF NOT EXISTS order_numbers;

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	order_number VARCHAR(30) NOT NULL UNIQUE,
	user_id UUID NOT NULL REFERENCES users(id),
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	payment_method VARCHAR(20) NOT NULL,
	payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	subtotal NUMERIC(14, 2) NOT NULL,
	shipping_fee NUMERIC(12, 2) NOT NULL DEFAULT 0,
	discount NUMERIC(12, 2) NOT NULL DEFAULT 0,
	total NUMERIC(14, 2) NOT NULL,
	shipping_name VARCHAR(100) NOT NULL,
	shipping_phone VARCHAR(20) NOT NULL,
	shipping_street VARCHAR(255) NOT NULL,
	shipping_city VARCHAR(100) NOT NULL,
	shipping_note TEXT NOT NULL DEFAULT '',
	cancel_reason TEXT NOT NULL DEFAULT '',
	delivered_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_user ON orders (user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);

CREATE TABLE IF NOT EXISTS order_items (
	id UUID PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id UUID REFERENCES products(id) ON DELETE SET NULL,
	name VARCHAR(200) NOT NULL,
	quantity INT NOT NULL CHECK (quantity >= 1),
	size VARCHAR(30) NOT NULL DEFAULT '',
	color VARCHAR(30) NOT NULL DEFAULT '',
	price NUMERIC(12, 2) NOT NULL,
	subtotal NUMERIC(14, 2) NOT NULL,
	position INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS order_status_history (
	id BIGSERIAL PRIMARY KEY,
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	status VARCHAR(20) NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	actor_id UUID REFERENCES users(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_history_order ON order_status_history (order_id, id);
`

// Migrate applies the schema to the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

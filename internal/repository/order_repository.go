package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"fashion-shop/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `
	id, order_number, user_id, status, payment_method, payment_status,
	subtotal, shipping_fee, discount, total, shipping_name, shipping_phone,
	shipping_street, shipping_city, shipping_note, cancel_reason,
	delivered_at, created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentMethod,
		&o.PaymentStatus, &o.Subtotal, &o.ShippingFee, &o.Discount, &o.Total,
		&o.Shipping.FullName, &o.Shipping.Phone, &o.Shipping.Street,
		&o.Shipping.City, &o.Shipping.Note, &o.CancelReason, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// NextOrderNumber draws the next value from the order number sequence.
func (r *orderRepository) NextOrderNumber(ctx context.Context, tx pgx.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('order_numbers')`).Scan(&seq); err != nil {
		r.logger.Error().Err(err).Msg("failed to draw order number")
		return 0, fmt.Errorf("failed to draw order number: %w", err)
	}
	return seq, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, order_number, user_id, status, payment_method, payment_status,
			subtotal, shipping_fee, discount, total, shipping_name,
			shipping_phone, shipping_street, shipping_city, shipping_note,
			cancel_reason, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, '', $16, $16)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.UserID, order.Status,
		order.PaymentMethod, order.PaymentStatus, order.Subtotal,
		order.ShippingFee, order.Discount, order.Total,
		order.Shipping.FullName, order.Shipping.Phone, order.Shipping.Street,
		order.Shipping.City, order.Shipping.Note, order.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created")

	return nil
}

// CreateOrderItems inserts order item snapshots within the transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	// position preserves the caller-supplied line order across re-reads.
	query := `
		INSERT INTO order_items (id, order_id, product_id, name, quantity, size, color, price, subtotal, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name,
			item.Quantity, item.Size, item.Color, item.Price, item.Subtotal, i)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// AppendStatusHistory appends one entry to the order's status history.
// History rows are only ever inserted, never updated or deleted.
func (r *orderRepository) AppendStatusHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, change model.StatusChange) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, note, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, orderID, change.Status, change.Note, change.ActorID, change.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to append status history")
		return fmt.Errorf("failed to append status history: %w", err)
	}
	return nil
}

// GetByID retrieves an order with items and history, or nil if absent.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDForUser retrieves an order only if it belongs to the user.
func (r *orderRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	return r.getOne(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`,
		id, userID)
}

func (r *orderRepository) getOne(ctx context.Context, query string, args ...any) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := r.attachDetails(ctx, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// GetForUpdate locks and retrieves an order row inside a transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id, userID uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	args := []any{id}
	if userID != uuid.Nil {
		query += ` AND user_id = $2`
		args = append(args, userID)
	}
	query += ` FOR UPDATE`

	order, err := scanOrder(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}
	return order, nil
}

// ListItems retrieves an order's item snapshots inside a transaction.
func (r *orderRepository) ListItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_id, product_id, name, quantity, size, color, price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]model.OrderItem, error) {
	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.Size, &item.Color, &item.Price, &item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

// UpdateStatus persists a status transition. Delivered flips payment to
// paid and stamps the delivery time in the same statement, so the two
// effects are never observed apart.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus, cancelReason string) error {
	// cancel_reason is only written when a cancellation carries a reason;
	// other transitions must not erase the customer's stored reason.
	var tag pgconn.CommandTag
	var err error
	switch {
	case status == model.StatusDelivered:
		tag, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, payment_status = 'paid', delivered_at = NOW(),
				updated_at = NOW()
			WHERE id = $1
		`, id, status)
	case status == model.StatusCancelled && cancelReason != "":
		tag, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, cancel_reason = $3, updated_at = NOW()
			WHERE id = $1
		`, id, status, cancelReason)
	default:
		tag, err = tx.Exec(ctx, `
			UPDATE orders
			SET status = $2, updated_at = NOW()
			WHERE id = $1
		`, id, status)
	}
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("order %s not found", id)
	}

	return nil
}

// ListByUser retrieves the user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Order, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listPage(ctx, query, total, userID, limit, (page-1)*limit)
}

// List retrieves orders matching the admin filter.
func (r *orderRepository) List(ctx context.Context, f model.OrderFilter) ([]model.Order, int64, error) {
	where := []string{"TRUE"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if f.PaymentStatus != "" {
		where = append(where, "payment_status = "+arg(f.PaymentStatus))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, "(order_number ILIKE "+p+" OR shipping_name ILIKE "+p+")")
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders WHERE "+whereClause, args...).Scan(&total)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := "SELECT " + orderColumns + `
		FROM orders
		WHERE ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT ` + arg(f.Limit) + " OFFSET " + arg((f.Page-1)*f.Limit)

	return r.listPage(ctx, query, total, args...)
}

func (r *orderRepository) listPage(ctx context.Context, query string, total int64, args ...any) ([]model.Order, int64, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	var refs []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	for i := range orders {
		refs = append(refs, &orders[i])
	}
	if err := r.attachDetails(ctx, refs); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// attachDetails loads items and status history for the given orders in two
// queries, avoiding per-order round trips.
func (r *orderRepository) attachDetails(ctx context.Context, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*model.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []model.OrderItem{}
		o.StatusHistory = []model.StatusChange{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, quantity, size, color, price, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	items, err := collectItems(rows)
	rows.Close()
	if err != nil {
		return err
	}
	for _, item := range items {
		if o := byID[item.OrderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}

	rows, err = r.pool.Query(ctx, `
		SELECT order_id, status, note, actor_id, created_at
		FROM order_status_history
		WHERE order_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query status history")
		return fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var change model.StatusChange
		if err := rows.Scan(&orderID, &change.Status, &change.Note, &change.ActorID, &change.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan status history: %w", err)
		}
		if o := byID[orderID]; o != nil {
			o.StatusHistory = append(o.StatusHistory, change)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating status history: %w", err)
	}

	return nil
}

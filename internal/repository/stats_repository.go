package repository

import (
	"context"
	"fmt"

	"fashion-shop/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// statsRepository implements the StatsRepository interface using PostgreSQL.
type statsRepository struct {
	pool   *pgxpool.Pool
	orders OrderRepository
	logger zerolog.Logger
}

// NewStatsRepository creates a new PostgreSQL-backed stats repository. It
// reuses the order repository for the recent-orders listing.
func NewStatsRepository(pool *pgxpool.Pool, orders OrderRepository, logger zerolog.Logger) StatsRepository {
	return &statsRepository{
		pool:   pool,
		orders: orders,
		logger: logger.With().Str("repository", "stats").Logger(),
	}
}

// Dashboard computes the admin dashboard rollups.
func (r *statsRepository) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{
		TopProducts:    []model.ProductSales{},
		MonthlyRevenue: []model.MonthlyRevenue{},
	}

	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total), 0) FROM orders
				WHERE status = 'delivered' AND payment_status = 'paid'),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending')
	`).Scan(
		&stats.Overview.TotalUsers,
		&stats.Overview.TotalProducts,
		&stats.Overview.TotalOrders,
		&stats.Overview.TotalRevenue,
		&stats.Overview.PendingOrders,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to compute overview")
		return nil, fmt.Errorf("failed to compute overview: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, sold_count
		FROM products
		ORDER BY sold_count DESC
		LIMIT 5
	`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top products")
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	for rows.Next() {
		var p model.ProductSales
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SoldCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		stats.TopProducts = append(stats.TopProducts, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	recent, _, err := r.orders.List(ctx, model.OrderFilter{Page: 1, Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	stats.RecentOrders = recent

	rows, err = r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM created_at)::INT,
			EXTRACT(MONTH FROM created_at)::INT,
			COALESCE(SUM(total), 0), COUNT(*)
		FROM orders
		WHERE created_at >= NOW() - INTERVAL '6 months'
			AND status = 'delivered' AND payment_status = 'paid'
		GROUP BY 1, 2
		ORDER BY 1, 2
	`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query monthly revenue")
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m model.MonthlyRevenue
		if err := rows.Scan(&m.Year, &m.Month, &m.Revenue, &m.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		stats.MonthlyRevenue = append(stats.MonthlyRevenue, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly revenue: %w", err)
	}

	return stats, nil
}

// Statistics computes grouped order statistics in an optional range.
func (r *statsRepository) Statistics(ctx context.Context, rng model.StatsRange) (*model.Statistics, error) {
	stats := &model.Statistics{
		OrdersByStatus:  []model.StatusCount{},
		OrdersByPayment: []model.PaymentCount{},
		TopCustomers:    []model.CustomerSpend{},
	}

	// A nil bound is open-ended.
	rangeClause := `($1::timestamptz IS NULL OR o.created_at >= $1)
		AND ($2::timestamptz IS NULL OR o.created_at <= $2)`

	rows, err := r.pool.Query(ctx, `
		SELECT o.status, COUNT(*)
		FROM orders o
		WHERE `+rangeClause+`
		GROUP BY o.status
		ORDER BY o.status
	`, rng.From, rng.To)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders by status")
		return nil, fmt.Errorf("failed to query orders by status: %w", err)
	}
	for rows.Next() {
		var c model.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.OrdersByStatus = append(stats.OrdersByStatus, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT o.payment_method, COUNT(*)
		FROM orders o
		WHERE `+rangeClause+`
		GROUP BY o.payment_method
		ORDER BY o.payment_method
	`, rng.From, rng.To)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders by payment method")
		return nil, fmt.Errorf("failed to query orders by payment method: %w", err)
	}
	for rows.Next() {
		var c model.PaymentCount
		if err := rows.Scan(&c.PaymentMethod, &c.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan payment count: %w", err)
		}
		stats.OrdersByPayment = append(stats.OrdersByPayment, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment counts: %w", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT o.user_id, u.full_name, u.email, COUNT(*), SUM(o.total)
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'delivered' AND `+rangeClause+`
		GROUP BY o.user_id, u.full_name, u.email
		ORDER BY SUM(o.total) DESC
		LIMIT 10
	`, rng.From, rng.To)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query top customers")
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.CustomerSpend
		if err := rows.Scan(&c.UserID, &c.FullName, &c.Email, &c.TotalOrders, &c.TotalSpent); err != nil {
			return nil, fmt.Errorf("failed to scan top customer: %w", err)
		}
		stats.TopCustomers = append(stats.TopCustomers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top customers: %w", err)
	}

	return stats, nil
}

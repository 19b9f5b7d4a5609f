package model

import (
	"time"

	"github.com/google/uuid"
)

// DashboardOverview holds the headline counters for the admin dashboard.
type DashboardOverview struct {
	TotalUsers    int64   `json:"totalUsers"`
	TotalProducts int64   `json:"totalProducts"`
	TotalOrders   int64   `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int64   `json:"pendingOrders"`
}

// ProductSales is a top-selling product summary.
type ProductSales struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	SoldCount int       `json:"soldCount"`
}

// MonthlyRevenue is delivered-and-paid revenue grouped by calendar month.
type MonthlyRevenue struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int64   `json:"orders"`
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	Overview       DashboardOverview `json:"overview"`
	TopProducts    []ProductSales    `json:"topProducts"`
	RecentOrders   []Order           `json:"recentOrders"`
	MonthlyRevenue []MonthlyRevenue  `json:"monthlyRevenue"`
}

// StatusCount is an order count grouped by status.
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int64       `json:"count"`
}

// PaymentCount is an order count grouped by payment method.
type PaymentCount struct {
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Count         int64         `json:"count"`
}

// CustomerSpend is a top-customer summary over delivered orders.
type CustomerSpend struct {
	UserID      uuid.UUID `json:"userId"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	TotalOrders int64     `json:"totalOrders"`
	TotalSpent  float64   `json:"totalSpent"`
}

// Statistics is the detailed admin statistics payload.
type Statistics struct {
	OrdersByStatus  []StatusCount   `json:"ordersByStatus"`
	OrdersByPayment []PaymentCount  `json:"ordersByPayment"`
	TopCustomers    []CustomerSpend `json:"topCustomers"`
}

// StatsRange optionally bounds statistics by order creation time.
type StatsRange struct {
	From *time.Time
	To   *time.Time
}

// Package report holds the read models behind the admin analytics dashboards.
// They are produced by plain GROUP BY queries over orders, users and products.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySales aggregates paid orders of one calendar day
type DailySales struct {
	Date              string          `json:"date"`
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int64           `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// ProductSales ranks a product by units sold in paid orders
type ProductSales struct {
	ProductID     uuid.UUID       `json:"productId"`
	Name          string          `json:"name"`
	Image         string          `json:"image"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// SalesSummary totals paid orders over a window
type SalesSummary struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalOrders       int64           `json:"totalOrders"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// DailyUsers counts sign-ups of one calendar day
type DailyUsers struct {
	Date     string `json:"date"`
	NewUsers int64  `json:"newUsers"`
}

// RetentionBucket counts customers that placed exactly Orders orders
type RetentionBucket struct {
	Orders    int64 `json:"orders"`
	Customers int64 `json:"customers"`
}

// CategoryStats summarises the products of one category
type CategoryStats struct {
	Category     string          `json:"category"`
	Count        int64           `json:"count"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	TotalValue   decimal.Decimal `json:"totalValue"`
}

// BrandStats summarises the products of one brand
type BrandStats struct {
	Brand         string  `json:"brand"`
	Count         int64   `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// DailyFunnel counts orders of one calendar day by progress
type DailyFunnel struct {
	Date            string `json:"date"`
	TotalOrders     int64  `json:"totalOrders"`
	PaidOrders      int64  `json:"paidOrders"`
	DeliveredOrders int64  `json:"deliveredOrders"`
}

// OrderCounts counts all orders by progress
type OrderCounts struct {
	Total     int64 `json:"totalOrders"`
	Paid      int64 `json:"paidOrders"`
	Delivered int64 `json:"deliveredOrders"`
	// Pending counts paid orders that are not delivered yet
	Pending int64 `json:"pendingOrders"`
}

// StockCounts counts products by stock level
type StockCounts struct {
	Total      int64 `json:"totalProducts"`
	LowStock   int64 `json:"lowStockProducts"`
	OutOfStock int64 `json:"outOfStockProducts"`
}

// Window is a half-open time range [From, To)
type Window struct {
	From time.Time
	To   time.Time
}

// LastDays returns the window covering the n days before now
func LastDays(now time.Time, n int) Window {
	return Window{From: now.AddDate(0, 0, -n), To: now}
}

// Since returns the window from t to the far future
func Since(t time.Time) Window {
	return Window{From: t, To: t.AddDate(100, 0, 0)}
}

// AnalyticsRepository runs the aggregate queries of the dashboards
type AnalyticsRepository interface {
	// DailySales groups paid orders created in w by day, oldest first.
	DailySales(ctx context.Context, w Window) ([]DailySales, error)

	// TopProducts ranks products by quantity sold in paid orders created in w.
	TopProducts(ctx context.Context, w Window, limit int) ([]ProductSales, error)

	// SalesSummary totals paid orders created in w.
	SalesSummary(ctx context.Context, w Window) (SalesSummary, error)

	// UserGrowth groups sign-ups by day, oldest first.
	UserGrowth(ctx context.Context) ([]DailyUsers, error)

	// CustomerRetention groups customers by their number of orders.
	CustomerRetention(ctx context.Context) ([]RetentionBucket, error)

	// TierDistribution counts users per loyalty tier.
	TierDistribution(ctx context.Context) (map[string]int64, error)

	// CategoryStats groups products by category, largest first.
	CategoryStats(ctx context.Context) ([]CategoryStats, error)

	// BrandStats groups products by brand, largest first.
	BrandStats(ctx context.Context, limit int) ([]BrandStats, error)

	// ConversionFunnel groups all orders by day, oldest first.
	ConversionFunnel(ctx context.Context) ([]DailyFunnel, error)

	// OrderCounts counts all orders by progress.
	OrderCounts(ctx context.Context) (OrderCounts, error)

	// StockCounts counts products with countInStock below lowStockBelow and at zero.
	StockCounts(ctx context.Context, lowStockBelow int) (StockCounts, error)
}

// AverageOrderValue divides sales by orders, rounded to cents; zero orders give zero
func AverageOrderValue(sales decimal.Decimal, orders int64) decimal.Decimal {
	if orders <= 0 {
		return decimal.Zero
	}
	return sales.Div(decimal.NewFromInt(orders)).Round(2)
}

// ConversionRate is paid as a percentage of total, rounded to 2 places; zero total gives zero
func ConversionRate(paid, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate, _ := decimal.NewFromInt(paid).Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).Round(2).Float64()
	return rate
}

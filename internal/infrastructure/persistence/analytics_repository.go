package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/report"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements report.AnalyticsRepository with GROUP BY queries
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// dayOf truncates a scanned DATE() value to YYYY-MM-DD.
// Postgres returns a timestamp rendered as RFC 3339, SQLite a plain date.
func dayOf(v string) string {
	if len(v) > 10 {
		return v[:10]
	}
	return v
}

func (r *GormAnalyticsRepository) paidOrdersIn(ctx context.Context, w report.Window) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("orders.is_paid = ?", true).
		Where("orders.created_at >= ? AND orders.created_at < ?", w.From, w.To)
}

// DailySales groups paid orders created in w by day
func (r *GormAnalyticsRepository) DailySales(ctx context.Context, w report.Window) ([]report.DailySales, error) {
	var rows []struct {
		Day         string
		TotalSales  decimal.Decimal
		TotalOrders int64
	}
	err := r.paidOrdersIn(ctx, w).
		Select("DATE(created_at) AS day, COALESCE(SUM(total_price), 0) AS total_sales, COUNT(*) AS total_orders").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.DailySales, len(rows))
	for i, row := range rows {
		out[i] = report.DailySales{
			Date:              dayOf(row.Day),
			TotalSales:        row.TotalSales.Round(2),
			TotalOrders:       row.TotalOrders,
			AverageOrderValue: report.AverageOrderValue(row.TotalSales, row.TotalOrders),
		}
	}
	return out, nil
}

// TopProducts ranks products by quantity sold in paid orders created in w
func (r *GormAnalyticsRepository) TopProducts(ctx context.Context, w report.Window, limit int) ([]report.ProductSales, error) {
	var rows []struct {
		ProductID     uuid.UUID
		Name          string
		Image         string
		TotalQuantity int64
		TotalRevenue  decimal.Decimal
	}
	err := r.paidOrdersIn(ctx, w).
		Select(`order_items.product_id AS product_id, products.name AS name, products.image AS image,
			SUM(order_items.qty) AS total_quantity,
			COALESCE(SUM(order_items.price_mad * order_items.qty), 0) AS total_revenue`).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN products ON products.id = order_items.product_id").
		Group("order_items.product_id, products.name, products.image").
		Order("total_quantity DESC, products.name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.ProductSales, len(rows))
	for i, row := range rows {
		out[i] = report.ProductSales{
			ProductID:     row.ProductID,
			Name:          row.Name,
			Image:         row.Image,
			TotalQuantity: row.TotalQuantity,
			TotalRevenue:  row.TotalRevenue.Round(2),
		}
	}
	return out, nil
}

// SalesSummary totals paid orders created in w
func (r *GormAnalyticsRepository) SalesSummary(ctx context.Context, w report.Window) (report.SalesSummary, error) {
	var row struct {
		TotalSales  decimal.Decimal
		TotalOrders int64
	}
	err := r.paidOrdersIn(ctx, w).
		Select("COALESCE(SUM(total_price), 0) AS total_sales, COUNT(*) AS total_orders").
		Scan(&row).Error
	if err != nil {
		return report.SalesSummary{}, err
	}
	return report.SalesSummary{
		TotalSales:        row.TotalSales.Round(2),
		TotalOrders:       row.TotalOrders,
		AverageOrderValue: report.AverageOrderValue(row.TotalSales, row.TotalOrders),
	}, nil
}

// UserGrowth groups sign-ups by day
func (r *GormAnalyticsRepository) UserGrowth(ctx context.Context) ([]report.DailyUsers, error) {
	var rows []struct {
		Day      string
		NewUsers int64
	}
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Select("DATE(created_at) AS day, COUNT(*) AS new_users").
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.DailyUsers, len(rows))
	for i, row := range rows {
		out[i] = report.DailyUsers{Date: dayOf(row.Day), NewUsers: row.NewUsers}
	}
	return out, nil
}

// CustomerRetention groups customers by their number of orders
func (r *GormAnalyticsRepository) CustomerRetention(ctx context.Context) ([]report.RetentionBucket, error) {
	perUser := r.db.Model(&models.OrderModel{}).
		Select("user_id, COUNT(*) AS order_count").
		Group("user_id")

	var rows []struct {
		OrderCount int64
		Customers  int64
	}
	err := r.db.WithContext(ctx).
		Table("(?) AS per_user", perUser).
		Select("order_count, COUNT(*) AS customers").
		Group("order_count").
		Order("order_count ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.RetentionBucket, len(rows))
	for i, row := range rows {
		out[i] = report.RetentionBucket{Orders: row.OrderCount, Customers: row.Customers}
	}
	return out, nil
}

// TierDistribution counts users per loyalty tier
func (r *GormAnalyticsRepository) TierDistribution(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Tier  string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Select("tier, COUNT(*) AS count").
		Group("tier").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Tier] = row.Count
	}
	return out, nil
}

// CategoryStats groups products by category
func (r *GormAnalyticsRepository) CategoryStats(ctx context.Context) ([]report.CategoryStats, error) {
	var rows []struct {
		Category     string
		Count        int64
		AveragePrice decimal.Decimal
		TotalValue   decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select(`category, COUNT(*) AS count, COALESCE(AVG(price_mad), 0) AS average_price,
			COALESCE(SUM(price_mad * count_in_stock), 0) AS total_value`).
		Group("category").
		Order("count DESC, category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.CategoryStats, len(rows))
	for i, row := range rows {
		out[i] = report.CategoryStats{
			Category:     row.Category,
			Count:        row.Count,
			AveragePrice: row.AveragePrice.Round(2),
			TotalValue:   row.TotalValue.Round(2),
		}
	}
	return out, nil
}

// BrandStats groups branded products by brand
func (r *GormAnalyticsRepository) BrandStats(ctx context.Context, limit int) ([]report.BrandStats, error) {
	var rows []report.BrandStats
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select("brand, COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average_rating").
		Where("brand <> ''").
		Group("brand").
		Order("count DESC, brand ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.BrandStats{}
	}
	return rows, nil
}

const progressColumns = `COUNT(*) AS total_orders,
	COALESCE(SUM(CASE WHEN is_paid THEN 1 ELSE 0 END), 0) AS paid_orders,
	COALESCE(SUM(CASE WHEN is_delivered THEN 1 ELSE 0 END), 0) AS delivered_orders`

// ConversionFunnel groups all orders by day
func (r *GormAnalyticsRepository) ConversionFunnel(ctx context.Context) ([]report.DailyFunnel, error) {
	var rows []struct {
		Day             string
		TotalOrders     int64
		PaidOrders      int64
		DeliveredOrders int64
	}
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("DATE(created_at) AS day, " + progressColumns).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.DailyFunnel, len(rows))
	for i, row := range rows {
		out[i] = report.DailyFunnel{
			Date:            dayOf(row.Day),
			TotalOrders:     row.TotalOrders,
			PaidOrders:      row.PaidOrders,
			DeliveredOrders: row.DeliveredOrders,
		}
	}
	return out, nil
}

// OrderCounts counts all orders by progress
func (r *GormAnalyticsRepository) OrderCounts(ctx context.Context) (report.OrderCounts, error) {
	var row struct {
		TotalOrders     int64
		PaidOrders      int64
		DeliveredOrders int64
		PendingOrders   int64
	}
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select(progressColumns + `,
			COALESCE(SUM(CASE WHEN is_paid AND NOT is_delivered THEN 1 ELSE 0 END), 0) AS pending_orders`).
		Scan(&row).Error
	if err != nil {
		return report.OrderCounts{}, err
	}
	return report.OrderCounts{
		Total:     row.TotalOrders,
		Paid:      row.PaidOrders,
		Delivered: row.DeliveredOrders,
		Pending:   row.PendingOrders,
	}, nil
}

// StockCounts counts products below lowStockBelow and at zero
func (r *GormAnalyticsRepository) StockCounts(ctx context.Context, lowStockBelow int) (report.StockCounts, error) {
	var row struct {
		TotalProducts      int64
		LowStockProducts   int64
		OutOfStockProducts int64
	}
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(CASE WHEN count_in_stock < ? THEN 1 ELSE 0 END), 0) AS low_stock_products,
			COALESCE(SUM(CASE WHEN count_in_stock = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_products`, lowStockBelow).
		Scan(&row).Error
	if err != nil {
		return report.StockCounts{}, err
	}
	return report.StockCounts{
		Total:      row.TotalProducts,
		LowStock:   row.LowStockProducts,
		OutOfStock: row.OutOfStockProducts,
	}, nil
}

var _ report.AnalyticsRepository = (*GormAnalyticsRepository)(nil)

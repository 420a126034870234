package report

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/report"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSalesDays     = 7
	topSellersLimit      = 10
	brandLimit           = 10
	dashboardListLimit   = 5
	defaultLowStockBelow = 10
)

// AnalyticsService serves the admin dashboards
type AnalyticsService struct {
	analytics     report.AnalyticsRepository
	productRepo   catalog.ProductRepository
	userRepo      identity.UserRepository
	orderRepo     trade.OrderRepository
	lowStockBelow int
	now           func() time.Time
	logger        *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
// Products with countInStock below lowStockBelow count as low stock.
func NewAnalyticsService(
	analytics report.AnalyticsRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	orderRepo trade.OrderRepository,
	lowStockBelow int,
	logger *zap.Logger,
) *AnalyticsService {
	if lowStockBelow <= 0 {
		lowStockBelow = defaultLowStockBelow
	}
	return &AnalyticsService{
		analytics:     analytics,
		productRepo:   productRepo,
		userRepo:      userRepo,
		orderRepo:     orderRepo,
		lowStockBelow: lowStockBelow,
		now:           time.Now,
		logger:        logger,
	}
}

// ===================== Sales =====================

// SalesQuery bounds the sales window. Both dates are needed to override the default.
type SalesQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// SalesResponse is the sales dashboard
type SalesResponse struct {
	SalesData   []report.DailySales   `json:"salesData"`
	TopProducts []report.ProductSales `json:"topProducts"`
	Summary     report.SalesSummary   `json:"summary"`
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseBound parses an RFC 3339 time or a calendar date.
// A calendar date used as an end bound covers the whole day.
func parseBound(value string, end bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if end && layout == "2006-01-02" {
			t = t.AddDate(0, 0, 1)
		}
		return t, nil
	}
	return time.Time{}, shared.NewDomainError("VALIDATION_ERROR", "Invalid date: "+value)
}

func (s *AnalyticsService) salesWindow(q SalesQuery) (report.Window, error) {
	if q.StartDate == "" || q.EndDate == "" {
		return report.LastDays(s.now(), defaultSalesDays), nil
	}
	from, err := parseBound(q.StartDate, false)
	if err != nil {
		return report.Window{}, err
	}
	to, err := parseBound(q.EndDate, true)
	if err != nil {
		return report.Window{}, err
	}
	if !to.After(from) {
		return report.Window{}, shared.NewDomainError("VALIDATION_ERROR", "endDate must be after startDate")
	}
	return report.Window{From: from, To: to}, nil
}

// Sales summarises paid orders per day within the window
func (s *AnalyticsService) Sales(ctx context.Context, q SalesQuery) (*SalesResponse, error) {
	w, err := s.salesWindow(q)
	if err != nil {
		return nil, err
	}
	daily, err := s.analytics.DailySales(ctx, w)
	if err != nil {
		return nil, err
	}
	top, err := s.analytics.TopProducts(ctx, w, topSellersLimit)
	if err != nil {
		return nil, err
	}
	summary, err := s.analytics.SalesSummary(ctx, w)
	if err != nil {
		return nil, err
	}
	return &SalesResponse{
		SalesData:   orEmpty(daily),
		TopProducts: orEmpty(top),
		Summary:     summary,
	}, nil
}

// ===================== Users =====================

// UsersResponse is the customer dashboard
type UsersResponse struct {
	TotalUsers        int64                    `json:"totalUsers"`
	NewUsersLastWeek  int64                    `json:"newUsersLastWeek"`
	UserGrowth        []report.DailyUsers      `json:"userGrowth"`
	CustomerRetention []report.RetentionBucket `json:"customerRetention"`
	TierDistribution  map[string]int64         `json:"tierDistribution"`
}

// Users reports sign-ups, repeat buyers and loyalty tiers
func (s *AnalyticsService) Users(ctx context.Context) (*UsersResponse, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	lastWeek, err := s.userRepo.CountSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	growth, err := s.analytics.UserGrowth(ctx)
	if err != nil {
		return nil, err
	}
	retention, err := s.analytics.CustomerRetention(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.analytics.TierDistribution(ctx)
	if err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = map[string]int64{}
	}
	return &UsersResponse{
		TotalUsers:        total,
		NewUsersLastWeek:  lastWeek,
		UserGrowth:        orEmpty(growth),
		CustomerRetention: orEmpty(retention),
		TierDistribution:  tiers,
	}, nil
}

// ===================== Products =====================

// ProductsResponse is the catalog dashboard
type ProductsResponse struct {
	TotalProducts      int64                  `json:"totalProducts"`
	LowStockProducts   int64                  `json:"lowStockProducts"`
	OutOfStockProducts int64                  `json:"outOfStockProducts"`
	CategoryAnalytics  []report.CategoryStats `json:"categoryAnalytics"`
	BrandAnalytics     []report.BrandStats    `json:"brandAnalytics"`
}

// Products reports stock levels and the category and brand mix
func (s *AnalyticsService) Products(ctx context.Context) (*ProductsResponse, error) {
	counts, err := s.analytics.StockCounts(ctx, s.lowStockBelow)
	if err != nil {
		return nil, err
	}
	categories, err := s.analytics.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.analytics.BrandStats(ctx, brandLimit)
	if err != nil {
		return nil, err
	}
	return &ProductsResponse{
		TotalProducts:      counts.Total,
		LowStockProducts:   counts.LowStock,
		OutOfStockProducts: counts.OutOfStock,
		CategoryAnalytics:  orEmpty(categories),
		BrandAnalytics:     orEmpty(brands),
	}, nil
}

// ===================== Conversion =====================

// ConversionResponse is the order funnel
type ConversionResponse struct {
	TotalOrders     int64                `json:"totalOrders"`
	PaidOrders      int64                `json:"paidOrders"`
	DeliveredOrders int64                `json:"deliveredOrders"`
	ConversionRate  float64              `json:"conversionRate"`
	FunnelData      []report.DailyFunnel `json:"funnelData"`
}

// Conversion reports the share of orders that were paid
func (s *AnalyticsService) Conversion(ctx context.Context) (*ConversionResponse, error) {
	counts, err := s.analytics.OrderCounts(ctx)
	if err != nil {
		return nil, err
	}
	funnel, err := s.analytics.ConversionFunnel(ctx)
	if err != nil {
		return nil, err
	}
	return &ConversionResponse{
		TotalOrders:     counts.Total,
		PaidOrders:      counts.Paid,
		DeliveredOrders: counts.Delivered,
		ConversionRate:  report.ConversionRate(counts.Paid, counts.Total),
		FunnelData:      orEmpty(funnel),
	}, nil
}

// ===================== Dashboard =====================

// RecentOrder is an order line of the dashboard
type RecentOrder struct {
	ID          uuid.UUID         `json:"_id"`
	User        uuid.UUID         `json:"user"`
	TotalPrice  decimal.Decimal   `json:"totalPrice"`
	OrderStatus trade.OrderStatus `json:"orderStatus"`
	IsDelivered bool              `json:"isDelivered"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// RatedProduct is a product line of the dashboard
type RatedProduct struct {
	ID       uuid.UUID       `json:"_id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Rating   float64         `json:"rating"`
	PriceMAD decimal.Decimal `json:"priceMAD"`
}

// DashboardResponse is the admin landing page
type DashboardResponse struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalOrders   int64           `json:"totalOrders"`
	TotalUsers    int64           `json:"totalUsers"`
	TodayRevenue  decimal.Decimal `json:"todayRevenue"`
	TodayOrders   int64           `json:"todayOrders"`
	PendingOrders int64           `json:"pendingOrders"`
	RecentOrders  []RecentOrder   `json:"recentOrders"`
	TopProducts   []RatedProduct  `json:"topProducts"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Dashboard gathers the headline numbers. Queries run concurrently.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()
	allTime := report.Window{From: time.Unix(0, 0).UTC(), To: now.Add(time.Minute)}
	today := report.Window{From: startOfDay(now), To: now.Add(time.Minute)}

	var (
		resp         DashboardResponse
		total, daily report.SalesSummary
		counts       report.OrderCounts
		recent       []trade.Order
		top          []catalog.Product
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.analytics.SalesSummary(ctx, allTime)
		return err
	})
	g.Go(func() (err error) {
		daily, err = s.analytics.SalesSummary(ctx, today)
		return err
	})
	g.Go(func() (err error) {
		counts, err = s.analytics.OrderCounts(ctx)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalUsers, err = s.userRepo.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		filter := shared.DefaultFilter()
		filter.PageSize = dashboardListLimit
		filter.Filters["is_paid"] = true
		recent, _, err = s.orderRepo.FindAll(ctx, filter)
		return err
	})
	g.Go(func() (err error) {
		top, err = s.productRepo.FindTopRated(ctx, dashboardListLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Dashboard query failed", zap.Error(err))
		return nil, err
	}

	resp.TotalRevenue = total.TotalSales
	resp.TotalOrders = total.TotalOrders
	resp.TodayRevenue = daily.TotalSales
	resp.TodayOrders = daily.TotalOrders
	resp.PendingOrders = counts.Pending
	resp.RecentOrders = make([]RecentOrder, len(recent))
	for i, o := range recent {
		resp.RecentOrders[i] = RecentOrder{
			ID:          o.ID,
			User:        o.UserID,
			TotalPrice:  o.TotalPrice,
			OrderStatus: o.Status,
			IsDelivered: o.IsDelivered,
			CreatedAt:   o.CreatedAt,
		}
	}
	resp.TopProducts = make([]RatedProduct, len(top))
	for i, p := range top {
		resp.TopProducts[i] = RatedProduct{
			ID:       p.ID,
			Name:     p.Name,
			Image:    p.Image,
			Rating:   p.Rating,
			PriceMAD: p.PriceMAD,
		}
	}
	return &resp, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

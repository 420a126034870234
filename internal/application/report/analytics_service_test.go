package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/persistence"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db  *gorm.DB
	svc *AnalyticsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	svc := NewAnalyticsService(
		persistence.NewGormAnalyticsRepository(db),
		persistence.NewGormProductRepository(db),
		persistence.NewGormUserRepository(db),
		persistence.NewGormOrderRepository(db),
		10,
		zaptest.NewLogger(t),
	)
	return &fixture{db: db, svc: svc}
}

func (f *fixture) product(t *testing.T, name string, priceMAD int64, stock int, rating float64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:         name,
		Description:  "Handmade in Morocco by local artisans",
		Price:        decimal.NewFromInt(priceMAD).Div(decimal.NewFromInt(10)),
		PriceMAD:     decimal.NewFromInt(priceMAD),
		Category:     "Home",
		Brand:        "Atlas Crafts",
		CountInStock: stock,
	}, nil)
	require.NoError(t, err)
	p.Rating = rating
	require.NoError(t, persistence.NewGormProductRepository(f.db).Save(context.Background(), p))
	return p
}

func (f *fixture) user(t *testing.T, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser("Youssef Alaoui", email, "Secret123")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(f.db).Save(context.Background(), u))
	return u
}

func (f *fixture) order(t *testing.T, userID uuid.UUID, p *catalog.Product, qty int, paid bool) *trade.Order {
	t.Helper()
	items := []trade.OrderItem{{ProductID: p.ID, Name: p.Name, Qty: qty, Price: p.PriceMAD, PriceMAD: p.PriceMAD}}
	addr := trade.ShippingAddress{Address: "12 Rue Mohammed V", City: "Rabat", PostalCode: "10000", Phone: "0612345678"}
	o, err := trade.NewOrder(userID, items, addr, trade.PaymentCOD,
		trade.CalculateTotals(trade.ItemsPrice(items), "", trade.ShippingPickup, addr.City, 0))
	require.NoError(t, err)
	if paid {
		require.NoError(t, o.MarkPaid(nil))
	}
	require.NoError(t, persistence.NewGormOrderRepository(f.db).Save(context.Background(), o))
	return o
}

func TestAnalyticsService_SalesWindow(t *testing.T) {
	svc := &AnalyticsService{now: func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }}

	w, err := svc.salesWindow(SalesQuery{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), w.From)

	w, err = svc.salesWindow(SalesQuery{StartDate: "2026-03-01", EndDate: "2026-03-05"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), w.To)

	_, err = svc.salesWindow(SalesQuery{StartDate: "yesterday", EndDate: "2026-03-05"})
	assert.Error(t, err)
	_, err = svc.salesWindow(SalesQuery{StartDate: "2026-03-05", EndDate: "2026-03-01"})
	assert.Error(t, err)
}

func TestAnalyticsService_Dashboards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice@example.ma")
	bob := f.user(t, "bob@example.ma")
	rug := f.product(t, "Berber Rug", 1000, 3, 4.8)
	tea := f.product(t, "Mint Tea", 50, 0, 4.1)
	f.product(t, "Lantern", 200, 40, 3.5)

	f.order(t, alice.ID, rug, 1, true)
	f.order(t, alice.ID, tea, 2, true)
	f.order(t, bob.ID, tea, 1, false)

	t.Run("sales", func(t *testing.T) {
		resp, err := f.svc.Sales(ctx, SalesQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Summary.TotalOrders)
		assert.True(t, decimal.NewFromInt(1100).Equal(resp.Summary.TotalSales), resp.Summary.TotalSales.String())
		require.Len(t, resp.TopProducts, 2)
		assert.Equal(t, tea.ID, resp.TopProducts[0].ProductID)
	})

	t.Run("users", func(t *testing.T) {
		resp, err := f.svc.Users(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.TotalUsers)
		assert.Equal(t, int64(2), resp.NewUsersLastWeek)
		assert.NotNil(t, resp.TierDistribution)
	})

	t.Run("products", func(t *testing.T) {
		resp, err := f.svc.Products(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.TotalProducts)
		assert.Equal(t, int64(2), resp.LowStockProducts)
		assert.Equal(t, int64(1), resp.OutOfStockProducts)
		assert.NotEmpty(t, resp.CategoryAnalytics)
	})

	t.Run("conversion", func(t *testing.T) {
		resp, err := f.svc.Conversion(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.TotalOrders)
		assert.Equal(t, int64(2), resp.PaidOrders)
		assert.Equal(t, 66.67, resp.ConversionRate)
	})

	t.Run("dashboard", func(t *testing.T) {
		resp, err := f.svc.Dashboard(ctx)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1100).Equal(resp.TotalRevenue), resp.TotalRevenue.String())
		assert.Equal(t, int64(2), resp.TotalOrders)
		assert.Equal(t, int64(2), resp.TodayOrders)
		assert.Equal(t, int64(2), resp.PendingOrders)
		assert.Equal(t, int64(2), resp.TotalUsers)
		assert.Len(t, resp.RecentOrders, 2)
		require.Len(t, resp.TopProducts, 3)
		assert.Equal(t, "Berber Rug", resp.TopProducts[0].Name)
	})
}

func TestAnalyticsService_EmptyStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	conv, err := f.svc.Conversion(ctx)
	require.NoError(t, err)
	assert.Zero(t, conv.ConversionRate)
	assert.NotNil(t, conv.FunnelData)

	sales, err := f.svc.Sales(ctx, SalesQuery{})
	require.NoError(t, err)
	assert.NotNil(t, sales.SalesData)
	assert.NotNil(t, sales.TopProducts)
}

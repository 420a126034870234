package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/persistence"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	products *ProductService
	reviews  *ReviewService
	search   *SearchService
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

	log := zaptest.NewLogger(t)
	productRepo := persistence.NewGormProductRepository(db)
	scope := persistence.NewGormTransactionScope(db)
	return &fixture{
		db:       db,
		products: NewProductService(productRepo, scope, log),
		reviews: NewReviewService(productRepo, persistence.NewGormReviewRepository(db),
			persistence.NewGormOrderRepository(db), scope, log),
		search: NewSearchService(productRepo),
	}
}

func (f *fixture) product(t *testing.T, name, category, brand string, priceMAD int64, stock int, opts ...func(*catalog.Product)) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:         name,
		Description:  "Handmade in Morocco by local artisans",
		Price:        decimal.NewFromInt(priceMAD).Div(decimal.NewFromInt(10)),
		PriceMAD:     decimal.NewFromInt(priceMAD),
		Image:        "/images/" + name + ".jpg",
		Category:     category,
		Brand:        brand,
		CountInStock: stock,
		Tags:         []string{"handmade"},
	}, nil)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, persistence.NewGormProductRepository(f.db).Save(context.Background(), p))
	return p
}

func (f *fixture) user(t *testing.T, name, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, "Secret123")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormUserRepository(f.db).Save(context.Background(), u))
	return u
}

func inactive(p *catalog.Product) { p.IsActive = false }

// paidOrder saves a paid order of one unit of p for userID
func (f *fixture) paidOrder(t *testing.T, userID uuid.UUID, p *catalog.Product) {
	t.Helper()
	items := []trade.OrderItem{{ProductID: p.ID, Name: p.Name, Qty: 1, Image: p.Image, Price: p.PriceMAD, PriceMAD: p.PriceMAD}}
	addr := trade.ShippingAddress{Address: "12 Rue Mohammed V", City: "Rabat", PostalCode: "10000", Phone: "0612345678"}
	totals := trade.CalculateTotals(trade.ItemsPrice(items), "", trade.ShippingStandard, addr.City, trade.DefaultTaxRate)
	o, err := trade.NewOrder(userID, items, addr, trade.PaymentCOD, totals)
	require.NoError(t, err)
	require.NoError(t, o.MarkPaid(nil))
	require.NoError(t, persistence.NewGormOrderRepository(f.db).Save(context.Background(), o))
}

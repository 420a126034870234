package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with the store schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type productOption func(*catalog.Product)

func withStock(count int) productOption {
	return func(p *catalog.Product) { p.CountInStock = count }
}

func withPrice(mad float64) productOption {
	return func(p *catalog.Product) {
		p.PriceMAD = decimal.NewFromFloat(mad)
		p.Price = decimal.NewFromFloat(mad / 10)
	}
}

func withCategory(category string) productOption {
	return func(p *catalog.Product) { p.Category = category }
}

func withBrand(brand string) productOption {
	return func(p *catalog.Product) { p.Brand = brand }
}

func inactive() productOption {
	return func(p *catalog.Product) { p.IsActive = false }
}

func createdAt(ts time.Time) productOption {
	return func(p *catalog.Product) {
		p.CreatedAt = ts
		p.UpdatedAt = ts
	}
}

// createProduct saves an active product with sensible defaults
func createProduct(t *testing.T, db *gorm.DB, name string, opts ...productOption) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Description:    "A carefully made product from Morocco",
		Price:          decimal.NewFromInt(10),
		PriceMAD:       decimal.NewFromInt(100),
		Image:          "/images/" + name + ".jpg",
		Images:         []string{},
		Category:       "Beauty",
		Brand:          "Atlas",
		CountInStock:   10,
		IsActive:       true,
		Tags:           []string{},
		Specifications: map[string]string{},
	}
	for _, opt := range opts {
		opt(p)
	}
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

// createUser saves a user with a low-cost password hash
func createUser(t *testing.T, db *gorm.DB, name, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, "Secret123")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Save(context.Background(), u))
	return u
}

// createOrder saves a pending order for the given products, one unit each
func createOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, products ...*catalog.Product) *trade.Order {
	t.Helper()
	items := make([]trade.OrderItem, len(products))
	for i, p := range products {
		items[i] = trade.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Qty:       1,
			Image:     p.Image,
			Price:     p.PriceMAD,
			PriceMAD:  p.PriceMAD,
		}
	}
	addr := trade.ShippingAddress{
		Address:    "12 Rue Mohammed V",
		City:       "Rabat",
		PostalCode: "10000",
		Phone:      "0612345678",
	}
	itemsPrice := trade.ItemsPrice(items)
	totals := trade.CalculateTotals(itemsPrice, "", "standard", addr.City, trade.DefaultTaxRate)
	o, err := trade.NewOrder(userID, items, addr, trade.PaymentCOD, totals)
	require.NoError(t, err)
	require.NoError(t, NewGormOrderRepository(db).Save(context.Background(), o))
	return o
}

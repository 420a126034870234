package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
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
	orders   *OrderService
	checkout *CheckoutService
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
	scope := persistence.NewGormTransactionScope(db)
	return &fixture{
		db:       db,
		orders:   NewOrderService(persistence.NewGormOrderRepository(db), scope, 20, log),
		checkout: NewCheckoutService(persistence.NewGormProductRepository(db), scope, 20, log),
	}
}

func (f *fixture) product(t *testing.T, name string, priceMAD int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Name:         name,
		Description:  "Handmade in Morocco by local artisans",
		Price:        decimal.NewFromInt(priceMAD).Div(decimal.NewFromInt(10)),
		PriceMAD:     decimal.NewFromInt(priceMAD),
		Image:        "/images/" + name + ".jpg",
		Category:     "Home",
		Brand:        "Atlas Crafts",
		CountInStock: stock,
	}, nil)
	require.NoError(t, err)
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

func (f *fixture) reload(t *testing.T, id uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := persistence.NewGormProductRepository(f.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) reloadUser(t *testing.T, id uuid.UUID) *identity.User {
	t.Helper()
	u, err := persistence.NewGormUserRepository(f.db).FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func rabat() *ShippingAddressRequest {
	return &ShippingAddressRequest{
		Address:    "12 Rue Mohammed V",
		City:       "Rabat",
		PostalCode: "10000",
		Country:    "Morocco",
		Phone:      "0612345678",
	}
}

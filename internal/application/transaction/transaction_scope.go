// Package transaction defines the unit-of-work boundary shared by the
// application services.
package transaction

import (
	"context"

	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/trade"
)

// Scope provides transactional access to the store repositories.
// Every repository handed to fn shares the same database transaction and
// is committed or rolled back with it.
type Scope interface {
	// Execute runs fn within a transaction.
	// If fn returns an error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes the repositories bound to one transaction
type Repositories interface {
	Products() catalog.ProductRepository
	Reviews() catalog.ReviewRepository
	Users() identity.UserRepository
	Orders() trade.OrderRepository
	Stock() inventory.StockLedger
}

// NoOpScope runs fn against plain repositories without a transaction.
// It is used in tests and wherever atomicity is provided elsewhere.
type NoOpScope struct {
	products catalog.ProductRepository
	reviews  catalog.ReviewRepository
	users    identity.UserRepository
	orders   trade.OrderRepository
	stock    inventory.StockLedger
}

// NewNoOpScope creates a NoOpScope over the given repositories
func NewNoOpScope(
	products catalog.ProductRepository,
	reviews catalog.ReviewRepository,
	users identity.UserRepository,
	orders trade.OrderRepository,
	stock inventory.StockLedger,
) *NoOpScope {
	return &NoOpScope{
		products: products,
		reviews:  reviews,
		users:    users,
		orders:   orders,
		stock:    stock,
	}
}

// Execute runs fn directly
func (s *NoOpScope) Execute(_ context.Context, fn func(repos Repositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpScope) Products() catalog.ProductRepository { return s.products }

// Reviews returns the review repository
func (s *NoOpScope) Reviews() catalog.ReviewRepository { return s.reviews }

// Users returns the user repository
func (s *NoOpScope) Users() identity.UserRepository { return s.users }

// Orders returns the order repository
func (s *NoOpScope) Orders() trade.OrderRepository { return s.orders }

// Stock returns the stock ledger
func (s *NoOpScope) Stock() inventory.StockLedger { return s.stock }

var (
	_ Scope        = (*NoOpScope)(nil)
	_ Repositories = (*NoOpScope)(nil)
)

package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
)

// OrderRepository persists orders
type OrderRepository interface {
	// FindByID returns shared.ErrNotFound when no order has the ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByUser returns the user's orders, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)

	// FindAll returns one page of every order, newest first.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)

	// FindRecent returns the latest orders.
	FindRecent(ctx context.Context, limit int) ([]Order, error)

	// HasPaidOrderWithProduct reports whether the user paid for an order containing the product.
	HasPaidOrderWithProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	Save(ctx context.Context, order *Order) error
}

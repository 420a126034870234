// Package inventory models stock counters and their reservation lifecycle.
//
// Available stock lives in Product.CountInStock and units held for unpaid
// orders live in Product.ReservedStock. Every movement between the two is
// applied by a StockLedger as a conditional update so that concurrent
// checkouts cannot drive either counter below zero.
package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
)

// ReservationLine is a quantity of one product
type ReservationLine struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// StockLevel is the ledger view of one product's counters
type StockLevel struct {
	ProductID     uuid.UUID `json:"_id"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	Category      string    `json:"category,omitempty"`
	CountInStock  int       `json:"countInStock"`
	ReservedStock int       `json:"reservedStock"`
}

// AvailabilityMessage describes whether available units cover requested
func AvailabilityMessage(available, requested int) string {
	if available >= requested {
		return "In stock"
	}
	return fmt.Sprintf("Only %d items available", available)
}

// CheckResult is the availability of one requested line
type CheckResult struct {
	ProductID         uuid.UUID `json:"productId"`
	Name              string    `json:"name,omitempty"`
	Available         bool      `json:"available"`
	RequestedQuantity int       `json:"requestedQuantity"`
	AvailableStock    int       `json:"availableStock"`
	Message           string    `json:"message"`
}

// StockLedger applies stock movements atomically
type StockLedger interface {
	// Reserve moves qty from available to reserved for every line, or for none.
	Reserve(ctx context.Context, lines []ReservationLine) error

	// Release moves qty from reserved back to available for every line.
	Release(ctx context.Context, lines []ReservationLine) error

	// Commit removes qty from reserved; the units have been sold.
	Commit(ctx context.Context, lines []ReservationLine) error

	// Set overwrites both counters of a product.
	Set(ctx context.Context, productID uuid.UUID, countInStock, reservedStock int) error

	// Levels returns the counters of the given products, keyed by ID.
	Levels(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]StockLevel, error)

	// LowStock returns active products with 0 < countInStock <= threshold.
	LowStock(ctx context.Context, threshold int) ([]StockLevel, error)

	// OutOfStock returns active products with countInStock = 0.
	OutOfStock(ctx context.Context) ([]StockLevel, error)
}

// MergeLines sums quantities per product, keeping first-seen order
func MergeLines(lines []ReservationLine) []ReservationLine {
	index := make(map[uuid.UUID]int, len(lines))
	out := make([]ReservationLine, 0, len(lines))
	for _, l := range lines {
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

// ValidateLines rejects empty requests and non-positive quantities
func ValidateLines(lines []ReservationLine) error {
	if len(lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Items array is required")
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be a positive integer")
		}
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("VALIDATION_ERROR", "Product ID is required")
		}
	}
	return nil
}

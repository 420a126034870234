package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sort keys accepted by ProductQuery
const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortRating     = "rating"
	SortNewest     = "newest"
	SortPopular    = "popular"
	SortBestseller = "bestseller"
)

// ProductQuery describes a catalog listing or search
type ProductQuery struct {
	Keyword    string
	Category   string
	Brand      string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	MinRating  *float64
	InStock    bool
	ActiveOnly bool
	SortBy     string
	Page       int
	PageSize   int
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds all products whose ID is in ids
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll returns products ordered as the filter specifies
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Search returns one page of products matching q and the total match count
	Search(ctx context.Context, q ProductQuery) ([]Product, int64, error)

	// FindTopRated returns active products ordered by rating
	FindTopRated(ctx context.Context, limit int) ([]Product, error)

	// Suggest returns active products whose name or brand contains term
	Suggest(ctx context.Context, term string, limit int) ([]Product, error)

	// Categories returns the distinct categories of active products
	Categories(ctx context.Context) ([]string, error)

	// Brands returns the distinct brands of active products
	Brands(ctx context.Context) ([]string, error)

	// PriceRange returns the min and max priceMAD of active products
	PriceRange(ctx context.Context) (min, max decimal.Decimal, err error)

	// Save creates a product or updates its descriptive fields.
	// Stock counters are only written on insert.
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// RecomputeRating refreshes rating and numReviews from the reviews table
	RecomputeRating(ctx context.Context, id uuid.UUID) error

	// Count counts all products
	Count(ctx context.Context) (int64, error)
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Review, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Review, error)
	FindHelpful(ctx context.Context, productID uuid.UUID, minRating, limit int) ([]Review, error)
	ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

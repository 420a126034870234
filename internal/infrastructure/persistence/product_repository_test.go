package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("round-trips json columns", func(t *testing.T) {
		p := createProduct(t, db, "Argan Oil", func(p *catalog.Product) {
			p.Images = []string{"/a.jpg", "/b.jpg"}
			p.Tags = []string{"organic", "hair"}
			p.Specifications = map[string]string{"volume": "100ml"}
		})

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Argan Oil", found.Name)
		assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, found.Images)
		assert.Equal(t, []string{"organic", "hair"}, found.Tags)
		assert.Equal(t, "100ml", found.Specifications["volume"])
		assert.True(t, found.PriceMAD.Equal(decimal.NewFromInt(100)))
		assert.True(t, found.IsActive)
	})

	t.Run("missing product is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindByIDs with no ids", func(t *testing.T) {
		products, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestGormProductRepository_SaveKeepsStockCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ledger := NewGormStockLedger(db)
	ctx := context.Background()

	p := createProduct(t, db, "Tajine Pot", withStock(10))
	require.NoError(t, ledger.Reserve(ctx, []inventory.ReservationLine{{ProductID: p.ID, Quantity: 3}}))

	// p still carries the stale counters from before the reservation
	p.Name = "Clay Tajine Pot"
	require.NoError(t, repo.Save(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clay Tajine Pot", found.Name)
	assert.Equal(t, 7, found.CountInStock)
	assert.Equal(t, 3, found.ReservedStock)
}

func TestGormProductRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	createProduct(t, db, "Argan Oil", withPrice(150), createdAt(base))
	createProduct(t, db, "Argan Soap", withPrice(40), inactive(), createdAt(base.Add(time.Minute)))
	createProduct(t, db, "Leather Pouf", withPrice(900), withCategory("Home"), withBrand("Fes Crafts"),
		withStock(0), createdAt(base.Add(2*time.Minute)))
	createProduct(t, db, "Mint Tea", withPrice(60), withCategory("Food"), createdAt(base.Add(3*time.Minute)),
		func(p *catalog.Product) { p.Tags = []string{"Argan-free"} })

	names := func(ps []catalog.Product) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name
		}
		return out
	}

	t.Run("keyword matches only active products", func(t *testing.T) {
		products, total, err := repo.Search(ctx, catalog.ProductQuery{Keyword: "ARGAN OIL", ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []string{"Argan Oil"}, names(products))
	})

	t.Run("keyword searches tags", func(t *testing.T) {
		products, _, err := repo.Search(ctx, catalog.ProductQuery{Keyword: "argan-free", ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mint Tea"}, names(products))
	})

	t.Run("category and brand filters", func(t *testing.T) {
		products, _, err := repo.Search(ctx, catalog.ProductQuery{Category: "Home", ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Leather Pouf"}, names(products))

		products, _, err = repo.Search(ctx, catalog.ProductQuery{Brand: "fes", ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Leather Pouf"}, names(products))
	})

	t.Run("price range and stock filter", func(t *testing.T) {
		minPrice := decimal.NewFromInt(50)
		maxPrice := decimal.NewFromInt(1000)
		products, total, err := repo.Search(ctx, catalog.ProductQuery{
			MinPrice:   &minPrice,
			MaxPrice:   &maxPrice,
			InStock:    true,
			ActiveOnly: true,
			SortBy:     catalog.SortPriceAsc,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{"Mint Tea", "Argan Oil"}, names(products))
	})

	t.Run("sort and paginate", func(t *testing.T) {
		products, total, err := repo.Search(ctx, catalog.ProductQuery{
			ActiveOnly: true,
			SortBy:     catalog.SortPriceDesc,
			Page:       2,
			PageSize:   2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []string{"Mint Tea"}, names(products))
	})

	t.Run("newest is the default order", func(t *testing.T) {
		products, _, err := repo.Search(ctx, catalog.ProductQuery{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Mint Tea", "Leather Pouf", "Argan Oil"}, names(products))
	})

	t.Run("suggest matches name or brand", func(t *testing.T) {
		products, err := repo.Suggest(ctx, "fes", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"Leather Pouf"}, names(products))

		products, err = repo.Suggest(ctx, "argan", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"Argan Oil"}, names(products))
	})
}

func TestGormProductRepository_SearchWildcardsMatchLiterally(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	createProduct(t, db, "Pure Saffron 100%")
	createProduct(t, db, "Rose_Water")
	createProduct(t, db, "Rose Cream")

	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%rose\_water%`, likePattern(" Rose_Water "))

	products, total, err := repo.Search(ctx, catalog.ProductQuery{Keyword: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Pure Saffron 100%", products[0].Name)

	products, _, err = repo.Search(ctx, catalog.ProductQuery{Keyword: "rose_"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Rose_Water", products[0].Name)

	suggested, err := repo.Suggest(ctx, "_", 5)
	require.NoError(t, err)
	require.Len(t, suggested, 1)
	assert.Equal(t, "Rose_Water", suggested[0].Name)
}

func TestGormProductRepository_Facets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	t.Run("price range of empty catalog", func(t *testing.T) {
		_, _, err := repo.PriceRange(ctx)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	createProduct(t, db, "Argan Oil", withPrice(150), withCategory("Beauty"), withBrand("Atlas"))
	createProduct(t, db, "Mint Tea", withPrice(60), withCategory("Food"), withBrand(""))
	createProduct(t, db, "Rose Water", withPrice(80), withCategory("Beauty"), withBrand("Dades"))
	createProduct(t, db, "Old Rug", withPrice(5000), withCategory("Home"), withBrand("Hidden"), inactive())

	t.Run("categories are distinct and sorted", func(t *testing.T) {
		categories, err := repo.Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Beauty", "Food"}, categories)
	})

	t.Run("brands skip empty values", func(t *testing.T) {
		brands, err := repo.Brands(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Atlas", "Dades"}, brands)
	})

	t.Run("price range of active products", func(t *testing.T) {
		minPrice, maxPrice, err := repo.PriceRange(ctx)
		require.NoError(t, err)
		assert.True(t, minPrice.Equal(decimal.NewFromInt(60)), minPrice.String())
		assert.True(t, maxPrice.Equal(decimal.NewFromInt(150)), maxPrice.String())
	})

	t.Run("count includes inactive products", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})
}

func TestGormProductRepository_RatingAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	reviews := NewGormReviewRepository(db)
	ctx := context.Background()

	p := createProduct(t, db, "Argan Oil")
	for _, rating := range []int{5, 4} {
		r, err := catalog.NewReview(p.ID, uuid.New(), "Salma", catalog.ReviewInput{Rating: rating, Comment: "Lovely product"})
		require.NoError(t, err)
		require.NoError(t, reviews.Save(ctx, r))
	}

	t.Run("recompute rating from reviews", func(t *testing.T) {
		require.NoError(t, repo.RecomputeRating(ctx, p.ID))

		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, found.Rating, 0.001)
		assert.Equal(t, 2, found.NumReviews)
	})

	t.Run("recompute rating of missing product", func(t *testing.T) {
		assert.ErrorIs(t, repo.RecomputeRating(ctx, uuid.New()), shared.ErrNotFound)
	})

	t.Run("delete removes reviews", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, p.ID))

		_, err := repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		remaining, err := reviews.FindByProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining)
	})

	t.Run("delete missing product", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

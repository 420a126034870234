package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{})
}

func toProducts(ms []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(ms))
	for i := range ms {
		products[i] = *ms[i].ToDomain()
	}
	return products
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds all products whose ID is in ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var ms []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, err
	}
	return toProducts(ms), nil
}

// FindAll returns products ordered and paged as the filter specifies
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query := r.model(ctx).Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if filter.Search != "" {
		query = query.Where(likeAny("name"), likePattern(filter.Search))
	}

	var ms []models.ProductModel
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	return toProducts(ms), nil
}

// productQueryScope applies the filters of q, without ordering or paging
func productQueryScope(q catalog.ProductQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.ActiveOnly {
			db = db.Where("is_active = ?", true)
		}
		if q.Keyword != "" {
			p := likePattern(q.Keyword)
			db = db.Where(likeAny("name", "description", "brand", "CAST(tags AS TEXT)"), p, p, p, p)
		}
		if q.Category != "" {
			db = db.Where("category = ?", q.Category)
		}
		if q.Brand != "" {
			db = db.Where(likeAny("brand"), likePattern(q.Brand))
		}
		if q.MinPrice != nil {
			db = db.Where("price_mad >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			db = db.Where("price_mad <= ?", *q.MaxPrice)
		}
		if q.MinRating != nil {
			db = db.Where("rating >= ?", *q.MinRating)
		}
		if q.InStock {
			db = db.Where("count_in_stock > 0")
		}
		return db
	}
}

// Search returns one page of products matching q and the total match count
func (r *GormProductRepository) Search(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error) {
	var total int64
	if err := r.model(ctx).Scopes(productQueryScope(q)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.model(ctx).Scopes(productQueryScope(q)).Order(ProductSortClause(q.SortBy))
	if q.PageSize > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * q.PageSize).Limit(q.PageSize)
	}

	var ms []models.ProductModel
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}
	return toProducts(ms), total, nil
}

// FindTopRated returns active products ordered by rating
func (r *GormProductRepository) FindTopRated(ctx context.Context, limit int) ([]catalog.Product, error) {
	var ms []models.ProductModel
	if err := r.model(ctx).
		Where("is_active = ?", true).
		Order(ProductSortClause(catalog.SortRating)).
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toProducts(ms), nil
}

// Suggest returns active products whose name or brand contains term
func (r *GormProductRepository) Suggest(ctx context.Context, term string, limit int) ([]catalog.Product, error) {
	p := likePattern(term)
	var ms []models.ProductModel
	if err := r.model(ctx).
		Where("is_active = ?", true).
		Where(likeAny("name", "brand"), p, p).
		Order("num_reviews DESC, name ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toProducts(ms), nil
}

// Categories returns the distinct categories of active products, sorted
func (r *GormProductRepository) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// Brands returns the distinct non-empty brands of active products, sorted
func (r *GormProductRepository) Brands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}

func (r *GormProductRepository) distinct(ctx context.Context, column string) ([]string, error) {
	values := []string{}
	if err := r.model(ctx).
		Where("is_active = ?", true).
		Where(column + " <> ''").
		Distinct().
		Order(column).
		Pluck(column, &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// PriceRange returns the min and max priceMAD of active products.
// Returns shared.ErrNotFound when there are no active products.
func (r *GormProductRepository) PriceRange(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Total    int64
		MinPrice decimal.NullDecimal
		MaxPrice decimal.NullDecimal
	}
	if err := r.model(ctx).
		Select("COUNT(*) AS total, MIN(price_mad) AS min_price, MAX(price_mad) AS max_price").
		Where("is_active = ?", true).
		Scan(&row).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if row.Total == 0 {
		return decimal.Zero, decimal.Zero, shared.ErrNotFound
	}
	return row.MinPrice.Decimal, row.MaxPrice.Decimal, nil
}

// Save creates a product or updates its descriptive fields.
// Stock counters are only written on insert.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	m := models.ProductModelFromDomain(product)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(models.ProductMutableColumns),
	}).Create(m).Error
	return translateError(err)
}

// Delete deletes a product and its reviews
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ReviewModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// RecomputeRating refreshes rating and numReviews from the reviews table
func (r *GormProductRepository) RecomputeRating(ctx context.Context, id uuid.UUID) error {
	result := r.model(ctx).Where("id = ?", id).Updates(map[string]any{
		"rating":      gorm.Expr("COALESCE((SELECT AVG(reviews.rating) FROM reviews WHERE reviews.product_id = ?), 0)", id),
		"num_reviews": gorm.Expr("(SELECT COUNT(*) FROM reviews WHERE reviews.product_id = ?)", id),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.model(ctx).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

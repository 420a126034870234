package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func toReviews(ms []models.ReviewModel) []catalog.Review {
	reviews := make([]catalog.Review, len(ms))
	for i := range ms {
		reviews[i] = *ms[i].ToDomain()
	}
	return reviews
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Review, error) {
	var m models.ReviewModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByProduct returns a product's reviews, newest first
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Review, error) {
	var ms []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toReviews(ms), nil
}

// FindByUser returns a user's reviews, newest first
func (r *GormReviewRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]catalog.Review, error) {
	var ms []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toReviews(ms), nil
}

// FindHelpful returns the newest reviews rated at least minRating
func (r *GormReviewRepository) FindHelpful(ctx context.Context, productID uuid.UUID, minRating, limit int) ([]catalog.Review, error) {
	var ms []models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND rating >= ?", productID, minRating).
		Order("created_at DESC, id ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return toReviews(ms), nil
}

// ExistsForUser reports whether the user already reviewed the product
func (r *GormReviewRepository) ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	err := r.db.WithContext(ctx).Save(models.ReviewModelFromDomain(review)).Error
	if shared.IsDomainError(translateError(err), "ALREADY_EXISTS") {
		return shared.NewDomainError("ALREADY_REVIEWED", "Product already reviewed")
	}
	return translateError(err)
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)

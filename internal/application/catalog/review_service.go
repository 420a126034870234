package catalog

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/application/transaction"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/domain/trade"
	"go.uber.org/zap"
)

const (
	helpfulMinRating = 4
	helpfulLimit     = 5
)

// ReviewService handles verified-purchase reviews
type ReviewService struct {
	productRepo catalog.ProductRepository
	reviewRepo  catalog.ReviewRepository
	orderRepo   trade.OrderRepository
	scope       transaction.Scope
	logger      *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	productRepo catalog.ProductRepository,
	reviewRepo catalog.ReviewRepository,
	orderRepo trade.OrderRepository,
	scope transaction.Scope,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		scope:       scope,
		logger:      logger,
	}
}

// ProductReviews lists a product's reviews, newest first, with their statistics
func (s *ReviewService) ProductReviews(ctx context.Context, productID uuid.UUID) (*ProductReviewsResponse, error) {
	if err := s.ensureProduct(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	avg := catalog.AverageRating(catalog.Ratings(reviews))
	return &ProductReviewsResponse{
		Reviews:            ToReviewResponses(reviews),
		TotalReviews:       len(reviews),
		AverageRating:      math.Round(avg*10) / 10,
		RatingDistribution: catalog.RatingDistribution(reviews),
	}, nil
}

// Helpful returns the latest positive reviews of a product
func (s *ReviewService) Helpful(ctx context.Context, productID uuid.UUID) ([]ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindHelpful(ctx, productID, helpfulMinRating, helpfulLimit)
	if err != nil {
		return nil, err
	}
	return ToReviewResponses(reviews), nil
}

// UserReviews lists a user's reviews with the name and image of each product
func (s *ReviewService) UserReviews(ctx context.Context, userID uuid.UUID) ([]UserReviewResponse, error) {
	reviews, err := s.reviewRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*ReviewedProduct, len(products))
	for _, p := range products {
		byID[p.ID] = &ReviewedProduct{ID: p.ID, Name: p.Name, Image: p.Image}
	}

	out := make([]UserReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = UserReviewResponse{
			ReviewResponse: ToReviewResponse(&reviews[i]),
			Product:        byID[reviews[i].ProductID],
		}
	}
	return out, nil
}

// Create stores a review from a customer who paid for the product
func (s *ReviewService) Create(ctx context.Context, productID, userID uuid.UUID, req ReviewRequest) (*ReviewCreatedResponse, error) {
	if err := catalog.ValidateRating(req.Rating); err != nil {
		return nil, err
	}

	var created *catalog.Review
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, productID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return productNotFound()
			}
			return err
		}
		purchased, err := repos.Orders().HasPaidOrderWithProduct(ctx, userID, productID)
		if err != nil {
			return err
		}
		if !purchased {
			return shared.NewDomainError("NOT_VERIFIED_PURCHASE", "You can only review products you have purchased")
		}
		user, err := repos.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		review, err := newUniqueReview(ctx, repos, productID, user, req)
		if err != nil {
			return err
		}
		review.Verified = true
		if err := saveReview(ctx, repos, review); err != nil {
			return err
		}
		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Review added",
		zap.String("product_id", productID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("rating", created.Rating),
	)
	return &ReviewCreatedResponse{Message: "Review added successfully", Review: ToReviewResponse(created)}, nil
}

// Update edits the caller's own review
func (s *ReviewService) Update(ctx context.Context, productID, reviewID, userID uuid.UUID, req ReviewRequest) (*ReviewResponse, error) {
	var updated *catalog.Review
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		review, err := findProductReview(ctx, repos, productID, reviewID)
		if err != nil {
			return err
		}
		if !review.IsOwnedBy(userID) {
			return shared.NewDomainError("FORBIDDEN", "Not authorized to update this review")
		}
		if err := review.Edit(req.toInput()); err != nil {
			return err
		}
		if err := saveReview(ctx, repos, review); err != nil {
			return err
		}
		updated = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := ToReviewResponse(updated)
	return &resp, nil
}

// Delete removes a review; admins may delete any review
func (s *ReviewService) Delete(ctx context.Context, productID, reviewID, userID uuid.UUID, isAdmin bool) error {
	return s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		review, err := findProductReview(ctx, repos, productID, reviewID)
		if err != nil {
			return err
		}
		if !review.IsOwnedBy(userID) && !isAdmin {
			return shared.NewDomainError("FORBIDDEN", "Not authorized to delete this review")
		}
		if err := repos.Reviews().Delete(ctx, reviewID); err != nil {
			return err
		}
		return repos.Products().RecomputeRating(ctx, productID)
	})
}

func (s *ReviewService) ensureProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return productNotFound()
		}
		return err
	}
	return nil
}

func findProductReview(ctx context.Context, repos transaction.Repositories, productID, reviewID uuid.UUID) (*catalog.Review, error) {
	review, err := repos.Reviews().FindByID(ctx, reviewID)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && review.ProductID != productID) {
		return nil, shared.NewDomainError("NOT_FOUND", "Review not found")
	}
	return review, err
}

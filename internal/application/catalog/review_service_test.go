package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Argan Oil", "Beauty", "Argan du Maroc", 350, 40)
	buyer := f.user(t, "Youssef Alaoui", "youssef@example.com")
	visitor := f.user(t, "Salma Idrissi", "salma@example.com")
	f.paidOrder(t, buyer.ID, p)

	t.Run("rating out of range", func(t *testing.T) {
		_, err := f.reviews.Create(ctx, p.ID, buyer.ID, ReviewRequest{Rating: 7, Comment: "Great oil"})
		assert.True(t, shared.IsDomainError(err, "INVALID_RATING"))
	})

	t.Run("requires a paid order", func(t *testing.T) {
		_, err := f.reviews.Create(ctx, p.ID, visitor.ID, ReviewRequest{Rating: 5, Comment: "Great oil"})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "NOT_VERIFIED_PURCHASE"))
	})

	t.Run("verified review", func(t *testing.T) {
		resp, err := f.reviews.Create(ctx, p.ID, buyer.ID, ReviewRequest{Rating: 5, Comment: "Great oil", Title: "Perfect"})
		require.NoError(t, err)
		assert.True(t, resp.Review.Verified)
		assert.Equal(t, "Youssef Alaoui", resp.Review.Name)

		_, err = f.reviews.Create(ctx, p.ID, buyer.ID, ReviewRequest{Rating: 4, Comment: "Again here"})
		assert.True(t, shared.IsDomainError(err, "ALREADY_REVIEWED"))
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.reviews.Create(ctx, uuid.New(), buyer.ID, ReviewRequest{Rating: 5, Comment: "Great oil"})
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})
}

func TestReviewService_ListUpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "Leather Bag", "Clothing", "Cuir de Fès", 900, 4)
	alice := f.user(t, "Amina Benali", "amina@example.com")
	omar := f.user(t, "Omar Tazi", "omar@example.com")

	require.NoError(t, f.products.AddReview(ctx, p.ID, alice.ID, ReviewRequest{Rating: 5, Comment: "Beautiful leather"}))
	require.NoError(t, f.products.AddReview(ctx, p.ID, omar.ID, ReviewRequest{Rating: 2, Comment: "Strap broke"}))

	list, err := f.reviews.ProductReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalReviews)
	assert.InDelta(t, 3.5, list.AverageRating, 0.001)
	assert.Equal(t, map[int]int{1: 0, 2: 1, 3: 0, 4: 0, 5: 1}, list.RatingDistribution)

	helpful, err := f.reviews.Helpful(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, helpful, 1)
	assert.Equal(t, 5, helpful[0].Rating)

	mine, err := f.reviews.UserReviews(ctx, omar.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Product)
	assert.Equal(t, "Leather Bag", mine[0].Product.Name)

	reviewID := mine[0].ID

	t.Run("only the owner edits", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, p.ID, reviewID, alice.ID, ReviewRequest{Rating: 1, Comment: "Hijacked"})
		assert.True(t, shared.IsDomainError(err, "FORBIDDEN"))

		resp, err := f.reviews.Update(ctx, p.ID, reviewID, omar.ID, ReviewRequest{Rating: 4, Comment: "Seller fixed it"})
		require.NoError(t, err)
		assert.Equal(t, 4, resp.Rating)

		got, err := f.products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.InDelta(t, 4.5, got.Rating, 0.001)
	})

	t.Run("wrong product", func(t *testing.T) {
		_, err := f.reviews.Update(ctx, uuid.New(), reviewID, omar.ID, ReviewRequest{Rating: 4})
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})

	t.Run("delete by stranger, then admin", func(t *testing.T) {
		err := f.reviews.Delete(ctx, p.ID, reviewID, alice.ID, false)
		assert.True(t, shared.IsDomainError(err, "FORBIDDEN"))

		require.NoError(t, f.reviews.Delete(ctx, p.ID, reviewID, alice.ID, true))
		got, err := f.products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.NumReviews)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := f.reviews.ProductReviews(ctx, uuid.New())
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
	})
}

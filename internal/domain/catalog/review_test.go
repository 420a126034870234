package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	productID, userID := uuid.New(), uuid.New()

	t.Run("accepts ratings in range", func(t *testing.T) {
		for rating := MinRating; rating <= MaxRating; rating++ {
			r, err := NewReview(productID, userID, "Amina", ReviewInput{Rating: rating, Comment: "Very good quality"})
			require.NoError(t, err)
			assert.Equal(t, rating, r.Rating)
		}
	})

	t.Run("rejects ratings out of range", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := NewReview(productID, userID, "Amina", ReviewInput{Rating: rating, Comment: "Very good quality"})
			require.Error(t, err)
			assert.True(t, shared.IsDomainError(err, "INVALID_RATING"))
		}
	})

	t.Run("rejects short comment", func(t *testing.T) {
		_, err := NewReview(productID, userID, "Amina", ReviewInput{Rating: 4, Comment: "ok"})
		require.Error(t, err)
	})
}

func TestReview_Edit(t *testing.T) {
	owner := uuid.New()
	r, err := NewReview(uuid.New(), owner, "Youssef", ReviewInput{Rating: 2, Comment: "Arrived late"})
	require.NoError(t, err)

	require.NoError(t, r.Edit(ReviewInput{Rating: 4, Title: "Better now"}))
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, "Arrived late", r.Comment)
	assert.Equal(t, "Better now", r.Title)
	assert.True(t, r.IsOwnedBy(owner))
	assert.False(t, r.IsOwnedBy(uuid.New()))

	assert.Error(t, r.Edit(ReviewInput{Rating: 9}))
}

func TestRatingDistribution(t *testing.T) {
	reviews := []Review{{Rating: 5}, {Rating: 5}, {Rating: 3}, {Rating: 1}}
	dist := RatingDistribution(reviews)

	assert.Equal(t, map[int]int{1: 1, 2: 0, 3: 1, 4: 0, 5: 2}, dist)
	assert.Equal(t, []int{5, 5, 3, 1}, Ratings(reviews))
}

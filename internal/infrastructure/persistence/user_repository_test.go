package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	referrer := createUser(t, db, "Youssef Alami", "youssef@example.ma")

	t.Run("find by email ignores case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  YOUSSEF@example.MA ")
		require.NoError(t, err)
		assert.Equal(t, referrer.ID, found.ID)
		assert.Equal(t, identity.TierBronze, found.Tier)
		assert.Equal(t, "ar", found.Preferences.Language)
		assert.True(t, found.Preferences.Notifications.Email)
		assert.Empty(t, found.Wishlist)
	})

	t.Run("exists by email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "youssef@example.ma")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.ma")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup, err := identity.NewUser("Other Person", "youssef@example.ma", "Secret123")
		require.NoError(t, err)
		err = repo.Save(ctx, dup)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("referral lookups", func(t *testing.T) {
		found, err := repo.FindByReferralCode(ctx, " "+referrer.ReferralCode+" ")
		require.NoError(t, err)
		assert.Equal(t, referrer.ID, found.ID)

		referred, err := identity.NewUser("Nadia Benali", "nadia@example.ma", "Secret123")
		require.NoError(t, err)
		referred.ReferTo(referrer.ID)
		require.NoError(t, repo.Save(ctx, referred))

		list, err := repo.FindReferredBy(ctx, referrer.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Nadia Benali", list[0].Name)
		assert.Equal(t, "nadia@example.ma", list[0].Email)
		assert.False(t, list[0].CreatedAt.IsZero())

		list, err = repo.FindReferredBy(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("add points atomically", func(t *testing.T) {
		require.NoError(t, repo.AddPoints(ctx, referrer.ID, 100))
		require.NoError(t, repo.AddPoints(ctx, referrer.ID, 25))

		found, err := repo.FindByID(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Equal(t, 125, found.Points)

		assert.ErrorIs(t, repo.AddPoints(ctx, uuid.New(), 1), shared.ErrNotFound)
	})

	t.Run("wishlist persists", func(t *testing.T) {
		productID := uuid.New()
		require.NoError(t, referrer.AddToWishlist(productID))
		referrer.Points = 125
		require.NoError(t, repo.Save(ctx, referrer))

		found, err := repo.FindByID(ctx, referrer.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{productID}, found.Wishlist)
	})

	t.Run("counts", func(t *testing.T) {
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		recent, err := repo.CountSince(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(2), recent)

		future, err := repo.CountSince(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), future)
	})
}

package identity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with defaults", func(t *testing.T) {
		u, err := NewUser("Amina El Idrissi", "  Amina@Example.MA ", "Secret123")
		require.NoError(t, err)

		assert.Equal(t, "amina@example.ma", u.Email)
		assert.Equal(t, TierBronze, u.Tier)
		assert.False(t, u.IsAdmin)
		assert.Equal(t, 0, u.Points)
		assert.True(t, u.TotalSpent.IsZero())
		assert.Equal(t, DefaultPreferences(), u.Preferences)
		assert.NotEqual(t, "Secret123", u.PasswordHash)
		assert.True(t, u.VerifyPassword("Secret123"))
		assert.False(t, u.VerifyPassword("secret123"))
	})

	t.Run("referral code is the upper-cased id prefix", func(t *testing.T) {
		u, err := NewUser("Youssef", "youssef@example.ma", "Secret123")
		require.NoError(t, err)

		assert.Len(t, u.ReferralCode, 8)
		assert.Equal(t, strings.ToUpper(u.ID.String()[:8]), u.ReferralCode)
	})

	t.Run("accepts unicode letters in name", func(t *testing.T) {
		_, err := NewUser("أمينة", "amina@example.ma", "Secret123")
		assert.NoError(t, err)
	})

	invalid := []struct {
		name, email, password string
	}{
		{"A", "a@example.ma", "Secret123"},
		{"John 3rd", "john@example.ma", "Secret123"},
		{"John", "not-an-email", "Secret123"},
		{"John", "john@example.ma", "short"},
		{"John", "john@example.ma", "alllowercase1"},
		{"John", "john@example.ma", "NoDigitsHere"},
	}
	for _, tc := range invalid {
		_, err := NewUser(tc.name, tc.email, tc.password)
		assert.Error(t, err, "expected %q/%q/%q to be rejected", tc.name, tc.email, tc.password)
	}
}

func TestCalculateTier(t *testing.T) {
	cases := []struct {
		orders int
		spent  int64
		want   Tier
	}{
		{0, 0, TierBronze},
		{4, 999, TierBronze},
		{5, 0, TierSilver},
		{0, 1000, TierSilver},
		{15, 0, TierGold},
		{0, 3000, TierGold},
		{30, 0, TierPlatinum},
		{1, 7000, TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CalculateTier(tc.orders, decimal.NewFromInt(tc.spent)),
			"orders=%d spent=%d", tc.orders, tc.spent)
	}
}

func TestUser_RecordPurchase(t *testing.T) {
	u, err := NewUser("Karim", "karim@example.ma", "Secret123")
	require.NoError(t, err)

	u.RecordPurchase(decimal.NewFromInt(1250))

	assert.Equal(t, 1, u.TotalOrders)
	assert.True(t, u.TotalSpent.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, 125, u.Points)
	assert.Equal(t, TierSilver, u.Tier)
}

func TestUser_Wishlist(t *testing.T) {
	u, err := NewUser("Salma", "salma@example.ma", "Secret123")
	require.NoError(t, err)
	productID := uuid.New()

	require.NoError(t, u.AddToWishlist(productID))
	assert.True(t, u.HasInWishlist(productID))

	err = u.AddToWishlist(productID)
	require.Error(t, err)
	assert.Equal(t, "Product already in wishlist", err.Error())

	u.RemoveFromWishlist(productID)
	assert.False(t, u.HasInWishlist(productID))
	assert.Empty(t, u.Wishlist)
}

func TestUser_MergePreferences(t *testing.T) {
	u, err := NewUser("Salma", "salma@example.ma", "Secret123")
	require.NoError(t, err)

	lang := "fr"
	sms := true
	u.MergePreferences(PreferencesUpdate{
		Language:      &lang,
		Notifications: &NotificationUpdate{SMS: &sms},
	})

	assert.Equal(t, "fr", u.Preferences.Language)
	assert.Equal(t, "MAD", u.Preferences.Currency)
	assert.True(t, u.Preferences.Notifications.Email)
	assert.True(t, u.Preferences.Notifications.SMS)
}

func TestUser_UpdateProfileKeepsBlanks(t *testing.T) {
	u, err := NewUser("Salma", "salma@example.ma", "Secret123")
	require.NoError(t, err)

	require.NoError(t, u.UpdateProfile("", "NEW@example.ma"))
	assert.Equal(t, "Salma", u.Name)
	assert.Equal(t, "new@example.ma", u.Email)

	assert.Error(t, u.UpdateProfile("", "broken"))
}

func TestUser_ReferralBonus(t *testing.T) {
	u, err := NewUser("Salma", "salma@example.ma", "Secret123")
	require.NoError(t, err)

	u.AwardReferralBonus()
	assert.Equal(t, ReferralBonusPoints, u.Points)
}

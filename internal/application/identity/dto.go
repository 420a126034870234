package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// RegisterRequest is the body of a sign-up
type RegisterRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=50,alphaspace"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6,strongpassword"`
	ReferralCode string `json:"referralCode" binding:"omitempty,alphanum,min=6,max=20"`
}

// LoginRequest is the body of a login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest changes the caller's profile; absent fields keep their value
type UpdateProfileRequest struct {
	Name        *string                     `json:"name" binding:"omitempty,min=2,max=50,alphaspace"`
	Email       *string                     `json:"email" binding:"omitempty,email"`
	Password    *string                     `json:"password" binding:"omitempty,min=6,strongpassword"`
	Preferences *identity.PreferencesUpdate `json:"preferences"`
}

// WishlistRequest names the product to add to the wishlist
type WishlistRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
}

// UserResponse is the account shape returned by register, login and profile
type UserResponse struct {
	ID           uuid.UUID            `json:"_id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	IsAdmin      bool                 `json:"isAdmin"`
	Tier         identity.Tier        `json:"tier"`
	Points       int                  `json:"points"`
	ReferralCode string               `json:"referralCode"`
	Preferences  identity.Preferences `json:"preferences"`
	TotalSpent   *decimal.Decimal     `json:"totalSpent,omitempty"`
	TotalOrders  *int                 `json:"totalOrders,omitempty"`
	Token        string               `json:"token,omitempty"`
}

// ToUserResponse converts a domain user to the register/login shape
func ToUserResponse(u *identity.User, token string) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		IsAdmin:      u.IsAdmin,
		Tier:         u.Tier,
		Points:       u.Points,
		ReferralCode: u.ReferralCode,
		Preferences:  u.Preferences,
		Token:        token,
	}
}

// ToProfileResponse adds the loyalty counters to the register/login shape
func ToProfileResponse(u *identity.User, token string) UserResponse {
	resp := ToUserResponse(u, token)
	spent := u.TotalSpent
	orders := u.TotalOrders
	resp.TotalSpent = &spent
	resp.TotalOrders = &orders
	return resp
}

// WishlistResponse confirms a wishlist change
type WishlistResponse struct {
	Message  string      `json:"message"`
	Wishlist []uuid.UUID `json:"wishlist"`
}

// ReferralResponse summarises the caller's referral program
type ReferralResponse struct {
	ReferralCode   string                  `json:"referralCode"`
	ReferredUsers  []identity.ReferredUser `json:"referredUsers"`
	TotalReferrals int                     `json:"totalReferrals"`
	PointsEarned   int                     `json:"pointsEarned"`
}

// Session identifies the token presented with a request
type Session struct {
	JTI       string
	ExpiresAt time.Time
}

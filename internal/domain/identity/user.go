package identity

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

// ReferralBonusPoints is credited to a referrer for each signup
const ReferralBonusPoints = 100

var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// Tier is a loyalty classification derived from purchase history
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// NotificationPreferences holds per-channel opt-ins
type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
}

// Preferences holds the user's storefront settings
type Preferences struct {
	Language      string                  `json:"language"`
	Currency      string                  `json:"currency"`
	Notifications NotificationPreferences `json:"notifications"`
}

// NotificationUpdate carries optional notification opt-in changes
type NotificationUpdate struct {
	Email *bool `json:"email"`
	SMS   *bool `json:"sms"`
}

// PreferencesUpdate carries optional preference changes
type PreferencesUpdate struct {
	Language      *string             `json:"language"`
	Currency      *string             `json:"currency"`
	Notifications *NotificationUpdate `json:"notifications"`
}

// DefaultPreferences returns the settings of a new account
func DefaultPreferences() Preferences {
	return Preferences{
		Language: "ar",
		Currency: shared.Currency,
		Notifications: NotificationPreferences{
			Email: true,
			SMS:   false,
		},
	}
}

// User is a registered storefront customer or administrator
type User struct {
	shared.BaseEntity
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	Tier         Tier
	Points       int
	TotalSpent   decimal.Decimal
	TotalOrders  int
	ReferralCode string
	ReferredBy   *uuid.UUID
	Wishlist     []uuid.UUID
	Preferences  Preferences
}

// NewUser creates a user with a hashed password and a referral code
func NewUser(name, email, password string) (*User, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Tier:         TierBronze,
		TotalSpent:   decimal.Zero,
		Wishlist:     []uuid.UUID{},
		Preferences:  DefaultPreferences(),
	}
	u.ReferralCode = ReferralCodeFor(u.ID)
	return u, nil
}

// ReferralCodeFor derives the referral code from a user ID
func ReferralCodeFor(id uuid.UUID) string {
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword validates and stores a new password
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// UpdateProfile changes name and email, keeping current values for blanks
func (u *User) UpdateProfile(name, email string) error {
	if strings.TrimSpace(name) != "" {
		if err := ValidateName(name); err != nil {
			return err
		}
		u.Name = strings.TrimSpace(name)
	}
	if strings.TrimSpace(email) != "" {
		email = NormalizeEmail(email)
		if err := ValidateEmail(email); err != nil {
			return err
		}
		u.Email = email
	}
	u.Touch()
	return nil
}

// MergePreferences overrides only the supplied preference fields
func (u *User) MergePreferences(p PreferencesUpdate) {
	if p.Language != nil {
		u.Preferences.Language = *p.Language
	}
	if p.Currency != nil {
		u.Preferences.Currency = *p.Currency
	}
	if p.Notifications != nil {
		if p.Notifications.Email != nil {
			u.Preferences.Notifications.Email = *p.Notifications.Email
		}
		if p.Notifications.SMS != nil {
			u.Preferences.Notifications.SMS = *p.Notifications.SMS
		}
	}
	u.Touch()
}

// ReferTo records the referrer of this account
func (u *User) ReferTo(referrerID uuid.UUID) {
	u.ReferredBy = &referrerID
}

// AwardReferralBonus credits the referral bonus
func (u *User) AwardReferralBonus() {
	u.Points += ReferralBonusPoints
	u.Touch()
}

// RecordPurchase accumulates a paid order into the loyalty counters.
// One point is earned per 10 MAD spent.
func (u *User) RecordPurchase(amount decimal.Decimal) {
	u.TotalOrders++
	u.TotalSpent = u.TotalSpent.Add(amount)
	u.Points += int(amount.Div(decimal.NewFromInt(10)).IntPart())
	u.Tier = CalculateTier(u.TotalOrders, u.TotalSpent)
	u.Touch()
}

// CalculateTier derives the loyalty tier from order count and spend
func CalculateTier(totalOrders int, totalSpent decimal.Decimal) Tier {
	switch {
	case totalOrders >= 30 || totalSpent.GreaterThanOrEqual(decimal.NewFromInt(7000)):
		return TierPlatinum
	case totalOrders >= 15 || totalSpent.GreaterThanOrEqual(decimal.NewFromInt(3000)):
		return TierGold
	case totalOrders >= 5 || totalSpent.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return TierSilver
	default:
		return TierBronze
	}
}

// HasInWishlist reports whether productID is wishlisted
func (u *User) HasInWishlist(productID uuid.UUID) bool {
	for _, id := range u.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// AddToWishlist appends productID to the wishlist
func (u *User) AddToWishlist(productID uuid.UUID) error {
	if u.HasInWishlist(productID) {
		return shared.NewDomainError("ALREADY_IN_WISHLIST", "Product already in wishlist")
	}
	u.Wishlist = append(u.Wishlist, productID)
	u.Touch()
	return nil
}

// RemoveFromWishlist drops productID from the wishlist if present
func (u *User) RemoveFromWishlist(productID uuid.UUID) {
	kept := u.Wishlist[:0]
	for _, id := range u.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	u.Wishlist = kept
	u.Touch()
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address shape
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("VALIDATION_ERROR", "Please enter a valid email")
	}
	return nil
}

// ValidateName accepts 2-50 letters and spaces
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Name must be between 2 and 50 characters")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
			return shared.NewDomainError("VALIDATION_ERROR", "Name can only contain letters and spaces")
		}
	}
	return nil
}

// ValidatePassword requires 6+ characters with a lowercase letter, an
// uppercase letter and a digit
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return shared.NewDomainError("VALIDATION_ERROR", "Password must be at least 6 characters long")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower || !upper || !digit {
		return shared.NewDomainError("VALIDATION_ERROR",
			"Password must contain at least one lowercase letter, one uppercase letter, and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

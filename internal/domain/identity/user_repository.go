package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReferredUser is the public view of an account created with a referral code
type ReferredUser struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByReferralCode(ctx context.Context, code string) (*User, error)
	FindReferredBy(ctx context.Context, referrerID uuid.UUID) ([]ReferredUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error

	// AddPoints increments points atomically
	AddPoints(ctx context.Context, id uuid.UUID, points int) error

	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, arg any) (*identity.User, error) {
	var m models.UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(ctx, "email = ?", identity.NormalizeEmail(email))
}

// FindByReferralCode finds the owner of a referral code
func (r *GormUserRepository) FindByReferralCode(ctx context.Context, code string) (*identity.User, error) {
	return r.findOne(ctx, "referral_code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

// FindReferredBy lists the accounts created with the referrer's code, oldest first
func (r *GormUserRepository) FindReferredBy(ctx context.Context, referrerID uuid.UUID) ([]identity.ReferredUser, error) {
	referred := []identity.ReferredUser{}
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Select("name, email, created_at").
		Where("referred_by = ?", referrerID).
		Order("created_at ASC").
		Scan(&referred).Error; err != nil {
		return nil, err
	}
	return referred, nil
}

// ExistsByEmail reports whether the email is taken
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", identity.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	err := translateError(r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error)
	if shared.IsDomainError(err, "ALREADY_EXISTS") {
		return shared.NewDomainError("ALREADY_EXISTS", "User already exists")
	}
	return err
}

// AddPoints increments points atomically
func (r *GormUserRepository) AddPoints(ctx context.Context, id uuid.UUID, points int) error {
	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"points": gorm.Expr("points + ?", points)})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error
	return count, err
}

// CountSince counts users created at or after since
func (r *GormUserRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

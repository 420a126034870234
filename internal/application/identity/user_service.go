package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	catalogapp "github.com/maroccart/backend/internal/application/catalog"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles profile, wishlist and referral operations
type UserService struct {
	userRepo    identity.UserRepository
	productRepo catalog.ProductRepository
	auth        *AuthService
	logger      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	productRepo catalog.ProductRepository,
	auth *AuthService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		productRepo: productRepo,
		auth:        auth,
		logger:      logger,
	}
}

// Profile returns the caller's account with the loyalty counters
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(user, "")
	return &resp, nil
}

// UpdateProfile changes name, email, password and preferences, then issues a new token
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	name, email := user.Name, user.Email
	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil && identity.NormalizeEmail(*req.Email) != user.Email {
		taken, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email already in use")
		}
		email = *req.Email
	}
	if err := user.UpdateProfile(name, email); err != nil {
		return nil, err
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, err
		}
	}
	if req.Preferences != nil {
		user.MergePreferences(*req.Preferences)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if shared.IsDomainError(err, "ALREADY_EXISTS") {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Email already in use")
		}
		return nil, err
	}

	token, err := s.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Profile updated", zap.String("user_id", user.ID.String()))
	resp := ToProfileResponse(user, token)
	return &resp, nil
}

// Wishlist returns the wishlisted products that still exist
func (s *UserService) Wishlist(ctx context.Context, userID uuid.UUID) ([]catalogapp.ProductResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Wishlist) == 0 {
		return []catalogapp.ProductResponse{}, nil
	}
	products, err := s.productRepo.FindByIDs(ctx, user.Wishlist)
	if err != nil {
		return nil, err
	}
	return catalogapp.ToProductResponses(products), nil
}

// AddToWishlist appends a product to the caller's wishlist
func (s *UserService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.AddToWishlist(productID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return &WishlistResponse{Message: "Product added to wishlist", Wishlist: user.Wishlist}, nil
}

// RemoveFromWishlist drops a product from the caller's wishlist
func (s *UserService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.RemoveFromWishlist(productID)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return &WishlistResponse{Message: "Product removed from wishlist", Wishlist: user.Wishlist}, nil
}

// Referral returns the caller's code and the accounts created with it
func (s *UserService) Referral(ctx context.Context, userID uuid.UUID) (*ReferralResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	referred, err := s.userRepo.FindReferredBy(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &ReferralResponse{
		ReferralCode:   user.ReferralCode,
		ReferredUsers:  referred,
		TotalReferrals: len(referred),
		PointsEarned:   len(referred) * identity.ReferralBonusPoints,
	}, nil
}

func (s *UserService) find(ctx context.Context, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("NOT_FOUND", "User not found")
	}
	return user, err
}

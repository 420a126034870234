package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/maroccart/backend/internal/application/transaction"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/infrastructure/auth"
	"github.com/maroccart/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo   identity.UserRepository
	scope      transaction.Scope
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	metrics    *telemetry.Metrics
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	scope transaction.Scope,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		scope:      scope,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SetMetrics sets the Prometheus collectors for sign-up counts
func (s *AuthService) SetMetrics(m *telemetry.Metrics) {
	s.metrics = m
}

// Register creates an account. A valid referral code credits the referrer.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	user, err := identity.NewUser(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		exists, err := repos.Users().ExistsByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return errUserExists()
		}

		code := strings.ToUpper(strings.TrimSpace(req.ReferralCode))
		if code != "" {
			referrer, err := repos.Users().FindByReferralCode(ctx, code)
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("INVALID_REFERRAL", "Invalid referral code")
			}
			if err != nil {
				return err
			}
			user.ReferTo(referrer.ID)
			if err := repos.Users().Save(ctx, user); err != nil {
				return err
			}
			return repos.Users().AddPoints(ctx, referrer.ID, identity.ReferralBonusPoints)
		}
		return repos.Users().Save(ctx, user)
	})
	if err != nil {
		if shared.IsDomainError(err, "ALREADY_EXISTS") {
			return nil, errUserExists()
		}
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	s.metrics.UserRegistered()
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.Bool("referred", user.ReferredBy != nil),
	)

	resp := ToUserResponse(user, token.Value)
	return &resp, nil
}

// Login checks the credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials()
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, token.Value)
	return &resp, nil
}

// Logout revokes the presented token until it would have expired
func (s *AuthService) Logout(ctx context.Context, session Session) error {
	if session.JTI == "" {
		return nil
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, session.JTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return err
	}
	return nil
}

// IssueToken signs a fresh token for user
func (s *AuthService) IssueToken(user *identity.User) (string, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return "", err
	}
	return token.Value, nil
}

func errUserExists() error {
	return shared.NewDomainError("ALREADY_EXISTS", "User already exists")
}

func errInvalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
}

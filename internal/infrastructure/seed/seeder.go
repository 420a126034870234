package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/maroccart/backend/internal/infrastructure/persistence"
	"github.com/maroccart/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options controls what Import writes besides the fixture
type Options struct {
	FakeUsers    int
	FakeProducts int
	RandomSeed   uint64
}

// Result counts the rows Import created
type Result struct {
	Users    int
	Products int
	Skipped  int
}

// Seeder writes fixture and generated data through the repositories
type Seeder struct {
	db       *gorm.DB
	products catalog.ProductRepository
	users    identity.UserRepository
	logger   *zap.Logger
}

// NewSeeder creates a seeder bound to db
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{
		db:       db,
		products: persistence.NewGormProductRepository(db),
		users:    persistence.NewGormUserRepository(db),
		logger:   logger,
	}
}

// Import replaces the catalog with the fixture products, then adds users and
// generated data. Fixture users that already exist are skipped.
func (s *Seeder) Import(ctx context.Context, fixture *Fixture, opts Options) (*Result, error) {
	if err := s.Destroy(ctx); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, pf := range fixture.Products {
		p, err := pf.ToDomain()
		if err != nil {
			return nil, err
		}
		if err := s.products.Save(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to save product %q: %w", p.Name, err)
		}
		result.Products++
	}

	users := make([]*identity.User, 0, len(fixture.Users)+opts.FakeUsers)
	for _, uf := range fixture.Users {
		u, err := uf.ToDomain()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	gen := NewGenerator(opts.RandomSeed)
	if opts.FakeUsers > 0 {
		fakes, err := gen.Users(opts.FakeUsers)
		if err != nil {
			return nil, err
		}
		users = append(users, fakes...)
	}
	for _, u := range users {
		err := s.users.Save(ctx, u)
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Debug("seed user exists, skipping", zap.String("email", u.Email))
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save user %q: %w", u.Email, err)
		}
		result.Users++
	}

	if opts.FakeProducts > 0 {
		fakes, err := gen.Products(opts.FakeProducts)
		if err != nil {
			return nil, err
		}
		for _, p := range fakes {
			if err := s.products.Save(ctx, p); err != nil {
				return nil, fmt.Errorf("failed to save product %q: %w", p.Name, err)
			}
			result.Products++
		}
	}

	s.logger.Info("Data imported",
		zap.Int("products", result.Products),
		zap.Int("users", result.Users),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// Destroy removes every product together with the orders and reviews that reference them.
// Users are kept.
func (s *Seeder) Destroy(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{&models.OrderItemModel{}, &models.OrderModel{}, &models.ReviewModel{}, &models.ProductModel{}} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to destroy seed data: %w", err)
	}
	s.logger.Info("Data destroyed")
	return nil
}

package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/application/transaction"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const topProductsLimit = 5

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	scope       transaction.Scope
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, scope transaction.Scope, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		scope:       scope,
		logger:      logger,
	}
}

// List returns one page of active products
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) (*ProductListResponse, error) {
	q, err := query.toQuery()
	if err != nil {
		return nil, err
	}
	products, total, err := s.productRepo.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	pages := shared.TotalPages(total, q.PageSize)
	return &ProductListResponse{
		Products: ToProductResponses(products),
		Page:     q.Page,
		Pages:    pages,
		Total:    total,
		HasMore:  q.Page < pages,
	}, nil
}

// Top returns the best-rated active products
func (s *ProductService) Top(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindTopRated(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Categories returns the sorted categories of active products
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// GetByID returns a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create creates a product from req, or the sample product when req is nil
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req *CreateProductRequest) (*ProductResponse, error) {
	var product *catalog.Product
	if req == nil {
		product = catalog.NewSampleProduct(userID)
	} else {
		p, err := catalog.NewProduct(req.toInput(), &userID)
		if err != nil {
			return nil, err
		}
		product = p
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("name", product.Name))

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update applies a partial update. A new countInStock goes through the stock ledger.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	var updated *catalog.Product
	err := s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		product, err := repos.Products().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := product.Apply(req.toUpdate()); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if req.CountInStock != nil {
			if err := repos.Stock().Set(ctx, id, *req.CountInStock, product.ReservedStock); err != nil {
				return err
			}
		}
		updated, err = repos.Products().FindByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, productNotFound()
		}
		return nil, err
	}
	resp := ToProductResponse(updated)
	return &resp, nil
}

// Delete removes a product and its reviews
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return productNotFound()
		}
		return err
	}
	s.logger.Info("Product removed", zap.String("product_id", id.String()))
	return nil
}

// AddReview stores an unverified review and refreshes the product rating
func (s *ProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, req ReviewRequest) error {
	return s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		if _, err := repos.Products().FindByID(ctx, productID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return productNotFound()
			}
			return err
		}
		user, err := repos.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		review, err := newUniqueReview(ctx, repos, productID, user, req)
		if err != nil {
			return err
		}
		return saveReview(ctx, repos, review)
	})
}

// saveReview stores review and refreshes the product's rating in the same transaction
func saveReview(ctx context.Context, repos transaction.Repositories, review *catalog.Review) error {
	if err := repos.Reviews().Save(ctx, review); err != nil {
		return err
	}
	return repos.Products().RecomputeRating(ctx, review.ProductID)
}

func errAlreadyReviewed() error {
	return shared.NewDomainError("ALREADY_REVIEWED", "Product already reviewed")
}

// newUniqueReview validates req and rejects a second review by the same user
func newUniqueReview(ctx context.Context, repos transaction.Repositories, productID uuid.UUID, user *identity.User, req ReviewRequest) (*catalog.Review, error) {
	review, err := catalog.NewReview(productID, user.ID, user.Name, req.toInput())
	if err != nil {
		return nil, err
	}
	exists, err := repos.Reviews().ExistsForUser(ctx, productID, user.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errAlreadyReviewed()
	}
	return review, nil
}

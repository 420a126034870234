package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name           string            `json:"name" binding:"required,min=3,max=100"`
	Description    string            `json:"description" binding:"required,min=10,max=2000"`
	Price          decimal.Decimal   `json:"price"`
	PriceMAD       decimal.Decimal   `json:"priceMAD"`
	Image          string            `json:"image"`
	Images         []string          `json:"images"`
	Category       string            `json:"category" binding:"required,min=2"`
	Brand          string            `json:"brand"`
	CountInStock   int               `json:"countInStock" binding:"min=0"`
	Tags           []string          `json:"tags"`
	Specifications map[string]string `json:"specifications"`
}

func (r CreateProductRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:           r.Name,
		Description:    r.Description,
		Price:          r.Price,
		PriceMAD:       r.PriceMAD,
		Image:          r.Image,
		Images:         r.Images,
		Category:       r.Category,
		Brand:          r.Brand,
		CountInStock:   r.CountInStock,
		Tags:           r.Tags,
		Specifications: r.Specifications,
	}
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=3,max=100"`
	Description  *string          `json:"description" binding:"omitempty,min=10,max=2000"`
	Price        *decimal.Decimal `json:"price"`
	PriceMAD     *decimal.Decimal `json:"priceMAD"`
	Image        *string          `json:"image"`
	Images       []string         `json:"images"`
	Category     *string          `json:"category" binding:"omitempty,min=2"`
	Brand        *string          `json:"brand"`
	CountInStock *int             `json:"countInStock" binding:"omitempty,min=0"`
	Tags         []string         `json:"tags"`
	IsActive     *bool            `json:"isActive"`
}

func (r UpdateProductRequest) toUpdate() catalog.ProductUpdate {
	return catalog.ProductUpdate{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		PriceMAD:     r.PriceMAD,
		Image:        r.Image,
		Images:       r.Images,
		Category:     r.Category,
		Brand:        r.Brand,
		CountInStock: r.CountInStock,
		Tags:         r.Tags,
		IsActive:     r.IsActive,
	}
}

// ListProductsQuery holds the query string of the product listing
type ListProductsQuery struct {
	Keyword    string `form:"keyword"`
	Category   string `form:"category"`
	MinPrice   string `form:"minPrice"`
	MaxPrice   string `form:"maxPrice"`
	Rating     string `form:"rating"`
	InStock    bool   `form:"inStock"`
	SortBy     string `form:"sortBy"`
	PageNumber int    `form:"pageNumber"`
	PageSize   int    `form:"pageSize"`
}

// SearchQuery holds the query string of the search endpoint
type SearchQuery struct {
	Keyword   string `form:"keyword"`
	Category  string `form:"category"`
	Brand     string `form:"brand"`
	MinPrice  string `form:"minPrice"`
	MaxPrice  string `form:"maxPrice"`
	MinRating string `form:"minRating"`
	InStock   bool   `form:"inStock"`
	SortBy    string `form:"sortBy"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
}

// ReviewRequest is the body of a review create or update
type ReviewRequest struct {
	Rating  int      `json:"rating"`
	Comment string   `json:"comment"`
	Title   string   `json:"title" binding:"max=100"`
	Images  []string `json:"images"`
}

func (r ReviewRequest) toInput() catalog.ReviewInput {
	return catalog.ReviewInput{Rating: r.Rating, Comment: r.Comment, Title: r.Title, Images: r.Images}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID         `json:"_id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	PriceMAD       decimal.Decimal   `json:"priceMAD"`
	Image          string            `json:"image"`
	Images         []string          `json:"images"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	CountInStock   int               `json:"countInStock"`
	ReservedStock  int               `json:"reservedStock"`
	Rating         float64           `json:"rating"`
	NumReviews     int               `json:"numReviews"`
	IsActive       bool              `json:"isActive"`
	Tags           []string          `json:"tags"`
	Specifications map[string]string `json:"specifications"`
	User           *uuid.UUID        `json:"user,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	specs := p.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		PriceMAD:       p.PriceMAD,
		Image:          p.Image,
		Images:         images,
		Category:       p.Category,
		Brand:          p.Brand,
		CountInStock:   p.CountInStock,
		ReservedStock:  p.ReservedStock,
		Rating:         p.Rating,
		NumReviews:     p.NumReviews,
		IsActive:       p.IsActive,
		Tags:           tags,
		Specifications: specs,
		User:           p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// ProductListResponse is one page of the product listing
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Total    int64             `json:"total"`
	HasMore  bool              `json:"hasMore"`
}

// SearchResponse is one page of search results
type SearchResponse struct {
	Products    []ProductResponse `json:"products"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
	TotalItems  int64             `json:"totalItems"`
	Suggestions []string          `json:"suggestions"`
}

// PriceRange bounds the priceMAD of the active catalog
type PriceRange struct {
	MinPrice decimal.Decimal `json:"minPrice"`
	MaxPrice decimal.Decimal `json:"maxPrice"`
}

// FiltersResponse lists the values the search filters accept
type FiltersResponse struct {
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	PriceRange PriceRange `json:"priceRange"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID        uuid.UUID `json:"_id"`
	Product   uuid.UUID `json:"product"`
	User      uuid.UUID `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment"`
	Images    []string  `json:"images"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToReviewResponse converts a domain review to a response
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	return ReviewResponse{
		ID:        r.ID,
		Product:   r.ProductID,
		User:      r.UserID,
		Name:      r.Name,
		Rating:    r.Rating,
		Title:     r.Title,
		Comment:   r.Comment,
		Images:    images,
		Verified:  r.Verified,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToReviewResponses converts a slice of domain reviews
func ToReviewResponses(reviews []catalog.Review) []ReviewResponse {
	out := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		out[i] = ToReviewResponse(&reviews[i])
	}
	return out
}

// ProductReviewsResponse lists a product's reviews with their statistics
type ProductReviewsResponse struct {
	Reviews            []ReviewResponse `json:"reviews"`
	TotalReviews       int              `json:"totalReviews"`
	AverageRating      float64          `json:"averageRating"`
	RatingDistribution map[int]int      `json:"ratingDistribution"`
}

// ReviewedProduct is the product summary attached to a user's review
type ReviewedProduct struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Image string    `json:"image"`
}

// UserReviewResponse is a review listed on a user's page
type UserReviewResponse struct {
	ReviewResponse
	Product *ReviewedProduct `json:"product"`
}

// ReviewCreatedResponse is returned after a verified review is stored
type ReviewCreatedResponse struct {
	Message string         `json:"message"`
	Review  ReviewResponse `json:"review"`
}

// MessageResponse carries a bare confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// productNotFound is the error every product lookup returns for a missing id
func productNotFound() error {
	return shared.NewDomainError("NOT_FOUND", "Product not found")
}

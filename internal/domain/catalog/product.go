package catalog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/inventory"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sample product values used when an admin creates a product without a body
const (
	SampleName        = "Sample name"
	SampleImage       = "/images/sample.jpg"
	SampleBrand       = "Sample brand"
	SampleCategory    = "Sample category"
	SampleDescription = "Sample description"
)

// Product represents a catalog item offered in the store
type Product struct {
	shared.BaseEntity
	Name           string
	Description    string
	Price          decimal.Decimal
	PriceMAD       decimal.Decimal
	Image          string
	Images         []string
	Category       string
	Brand          string
	CountInStock   int
	ReservedStock  int
	Rating         float64
	NumReviews     int
	IsActive       bool
	Tags           []string
	Specifications map[string]string
	CreatedBy      *uuid.UUID
}

// ProductInput carries the writable fields of a product
type ProductInput struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	PriceMAD       decimal.Decimal
	Image          string
	Images         []string
	Category       string
	Brand          string
	CountInStock   int
	Tags           []string
	Specifications map[string]string
}

// ProductUpdate carries optional fields for a partial update
type ProductUpdate struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	PriceMAD     *decimal.Decimal
	Image        *string
	Images       []string
	Category     *string
	Brand        *string
	CountInStock *int
	Tags         []string
	IsActive     *bool
}

// NewProduct creates a new validated product
func NewProduct(in ProductInput, createdBy *uuid.UUID) (*Product, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if err := validatePrice("price", in.Price); err != nil {
		return nil, err
	}
	if err := validatePrice("priceMAD", in.PriceMAD); err != nil {
		return nil, err
	}
	if err := validateCategory(in.Category); err != nil {
		return nil, err
	}
	if in.CountInStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock count must be a non-negative integer")
	}

	images := in.Images
	if len(images) == 0 && in.Image != "" {
		images = []string{in.Image}
	}

	return &Product{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Price:          in.Price,
		PriceMAD:       in.PriceMAD,
		Image:          in.Image,
		Images:         images,
		Category:       strings.TrimSpace(in.Category),
		Brand:          strings.TrimSpace(in.Brand),
		CountInStock:   in.CountInStock,
		IsActive:       true,
		Tags:           in.Tags,
		Specifications: in.Specifications,
		CreatedBy:      createdBy,
	}, nil
}

// NewSampleProduct creates the placeholder product an admin edits afterwards
func NewSampleProduct(createdBy uuid.UUID) *Product {
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        SampleName,
		Description: SampleDescription,
		Price:       decimal.Zero,
		PriceMAD:    decimal.Zero,
		Image:       SampleImage,
		Images:      []string{SampleImage},
		Category:    SampleCategory,
		Brand:       SampleBrand,
		IsActive:    true,
		CreatedBy:   &createdBy,
	}
}

// Apply applies a partial update. Stock is not touched here; callers route
// CountInStock through the stock ledger.
func (p *Product) Apply(u ProductUpdate) error {
	if u.Name != nil {
		if err := validateName(*u.Name); err != nil {
			return err
		}
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		if err := validateDescription(*u.Description); err != nil {
			return err
		}
		p.Description = strings.TrimSpace(*u.Description)
	}
	if u.Price != nil {
		if err := validatePrice("price", *u.Price); err != nil {
			return err
		}
		p.Price = *u.Price
	}
	if u.PriceMAD != nil {
		if err := validatePrice("priceMAD", *u.PriceMAD); err != nil {
			return err
		}
		p.PriceMAD = *u.PriceMAD
	}
	if u.Category != nil {
		if err := validateCategory(*u.Category); err != nil {
			return err
		}
		p.Category = strings.TrimSpace(*u.Category)
	}
	if u.CountInStock != nil && *u.CountInStock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock count must be a non-negative integer")
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Images != nil {
		p.Images = u.Images
	}
	if u.Brand != nil {
		p.Brand = strings.TrimSpace(*u.Brand)
	}
	if u.Tags != nil {
		p.Tags = u.Tags
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}
	p.Touch()
	return nil
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.CountInStock > 0
}

// CanFulfil reports whether qty units are available
func (p *Product) CanFulfil(qty int) bool {
	return qty > 0 && p.CountInStock >= qty
}

// StockMessage describes availability for a requested quantity
func (p *Product) StockMessage(qty int) string {
	return inventory.AvailabilityMessage(p.CountInStock, qty)
}

// InsufficientStockError builds the error returned when qty cannot be served
func (p *Product) InsufficientStockError() error {
	return shared.NewDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Insufficient stock for %s. Available: %d", p.Name, p.CountInStock))
}

// ApplyRatings recomputes rating and review count from the given ratings
func (p *Product) ApplyRatings(ratings []int) {
	p.NumReviews = len(ratings)
	p.Rating = AverageRating(ratings)
}

// AverageRating returns the mean of ratings, or 0 for none
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 3 || n > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name must be between 3 and 100 characters")
	}
	return nil
}

func validateDescription(desc string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(desc))
	if n < 10 || n > 2000 {
		return shared.NewDomainError("VALIDATION_ERROR", "Description must be between 10 and 2000 characters")
	}
	return nil
}

func validatePrice(field string, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", field+" must be a positive number")
	}
	return nil
}

func validateCategory(category string) error {
	if utf8.RuneCountInString(strings.TrimSpace(category)) < 2 {
		return shared.NewDomainError("VALIDATION_ERROR", "Category must be at least 2 characters")
	}
	return nil
}

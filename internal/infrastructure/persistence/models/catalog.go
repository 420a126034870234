package models

import (
	"github.com/google/uuid"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	Name           string            `gorm:"type:varchar(100);not null"`
	Description    string            `gorm:"type:text;not null"`
	Price          decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	PriceMAD       decimal.Decimal   `gorm:"column:price_mad;type:decimal(12,2);not null;index"`
	Image          string            `gorm:"type:varchar(500);not null"`
	Images         []string          `gorm:"type:jsonb;serializer:json"`
	Category       string            `gorm:"type:varchar(100);not null;index"`
	Brand          string            `gorm:"type:varchar(100);index"`
	CountInStock   int               `gorm:"not null"`
	ReservedStock  int               `gorm:"not null"`
	Rating         float64           `gorm:"not null;index"`
	NumReviews     int               `gorm:"not null"`
	IsActive       bool              `gorm:"not null;index"`
	Tags           []string          `gorm:"type:jsonb;serializer:json"`
	Specifications map[string]string `gorm:"type:jsonb;serializer:json"`
	CreatedBy      *uuid.UUID        `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ProductMutableColumns are rewritten by an update; stock counters are excluded
var ProductMutableColumns = []string{
	"name", "description", "price", "price_mad", "image", "images", "category",
	"brand", "is_active", "tags", "specifications", "updated_at",
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		Description:    m.Description,
		Price:          m.Price,
		PriceMAD:       m.PriceMAD,
		Image:          m.Image,
		Images:         m.Images,
		Category:       m.Category,
		Brand:          m.Brand,
		CountInStock:   m.CountInStock,
		ReservedStock:  m.ReservedStock,
		Rating:         m.Rating,
		NumReviews:     m.NumReviews,
		IsActive:       m.IsActive,
		Tags:           m.Tags,
		Specifications: m.Specifications,
		CreatedBy:      m.CreatedBy,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.PriceMAD = p.PriceMAD
	m.Image = p.Image
	m.Images = p.Images
	m.Category = p.Category
	m.Brand = p.Brand
	m.CountInStock = p.CountInStock
	m.ReservedStock = p.ReservedStock
	m.Rating = p.Rating
	m.NumReviews = p.NumReviews
	m.IsActive = p.IsActive
	m.Tags = p.Tags
	m.Specifications = p.Specifications
	m.CreatedBy = p.CreatedBy
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ReviewModel is the persistence model for the Review domain entity.
type ReviewModel struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user,priority:2;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Rating    int       `gorm:"not null"`
	Title     string    `gorm:"type:varchar(100)"`
	Comment   string    `gorm:"type:text;not null"`
	Images    []string  `gorm:"type:jsonb;serializer:json"`
	Verified  bool      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "reviews"
}

// ToDomain converts the persistence model to a domain Review entity.
func (m *ReviewModel) ToDomain() *catalog.Review {
	r := &catalog.Review{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		UserID:     m.UserID,
		Name:       m.Name,
		Rating:     m.Rating,
		Title:      m.Title,
		Comment:    m.Comment,
		Images:     m.Images,
		Verified:   m.Verified,
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	return r
}

// FromDomain populates the persistence model from a domain Review entity.
func (m *ReviewModel) FromDomain(r *catalog.Review) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.ProductID = r.ProductID
	m.UserID = r.UserID
	m.Name = r.Name
	m.Rating = r.Rating
	m.Title = r.Title
	m.Comment = r.Comment
	m.Images = r.Images
	m.Verified = r.Verified
}

// ReviewModelFromDomain creates a new persistence model from a domain Review entity.
func ReviewModelFromDomain(r *catalog.Review) *ReviewModel {
	m := &ReviewModel{}
	m.FromDomain(r)
	return m
}

// Package seed loads the catalog fixture and generates fake data for development databases.
package seed

import (
	"fmt"
	"os"

	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Fixture is the yaml seed document
type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Products []ProductFixture `yaml:"products"`
}

// UserFixture is one seeded account
type UserFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Admin    bool   `yaml:"admin"`
}

// ProductFixture is one seeded catalog item
type ProductFixture struct {
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	Price          decimal.Decimal   `yaml:"price"`
	PriceMAD       decimal.Decimal   `yaml:"priceMAD"`
	Image          string            `yaml:"image"`
	Images         []string          `yaml:"images"`
	Category       string            `yaml:"category"`
	Brand          string            `yaml:"brand"`
	CountInStock   int               `yaml:"countInStock"`
	Rating         float64           `yaml:"rating"`
	NumReviews     int               `yaml:"numReviews"`
	Tags           []string          `yaml:"tags"`
	Specifications map[string]string `yaml:"specifications"`
}

// ParseFixture decodes a yaml fixture
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads and decodes a fixture file
func LoadFixtureFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed fixture: %w", err)
	}
	return ParseFixture(data)
}

// ToDomain validates the fixture entry and builds the product
func (p ProductFixture) ToDomain() (*catalog.Product, error) {
	product, err := catalog.NewProduct(catalog.ProductInput{
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		PriceMAD:       p.PriceMAD,
		Image:          p.Image,
		Images:         p.Images,
		Category:       p.Category,
		Brand:          p.Brand,
		CountInStock:   p.CountInStock,
		Tags:           p.Tags,
		Specifications: p.Specifications,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", p.Name, err)
	}
	product.Rating = p.Rating
	product.NumReviews = p.NumReviews
	return product, nil
}

// ToDomain validates the fixture entry and builds the user
func (u UserFixture) ToDomain() (*identity.User, error) {
	user, err := identity.NewUser(u.Name, u.Email, u.Password)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", u.Email, err)
	}
	user.IsAdmin = u.Admin
	return user, nil
}

package seed

import (
	"strings"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// FakePassword is the password of every generated user
const FakePassword = "Password123"

// usdPerMAD converts generated MAD prices to the USD price column
var usdPerMAD = decimal.NewFromFloat(0.1)

var fakeCategories = []string{"Home & Kitchen", "Home Decor", "Beauty", "Clothing", "Food", "Jewelry"}

var fakeBrands = []string{"Artisanat Marocain", "Argan du Maroc", "Cuir de Fès", "Tapis Berbère", "Atlas Craft"}

// Generator produces deterministic fake users and products for a seed value
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator. A zero seed picks a random one.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Users creates n customer accounts with unique emails
func (g *Generator) Users(n int) ([]*identity.User, error) {
	users := make([]*identity.User, 0, n)
	seen := make(map[string]bool, n)
	for len(users) < n {
		first := lettersOnly(g.faker.FirstName())
		last := lettersOnly(g.faker.LastName())
		if len(first) < 2 || len(last) < 2 || len([]rune(first+last)) > 48 {
			continue
		}
		email := strings.ToLower(first + "." + last + "@" + g.faker.DomainName())
		if seen[email] {
			continue
		}
		seen[email] = true

		u, err := identity.NewUser(first+" "+last, email, FakePassword)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Products creates n active products with random stock, prices and ratings
func (g *Generator) Products(n int) ([]*catalog.Product, error) {
	products := make([]*catalog.Product, 0, n)
	for i := 0; i < n; i++ {
		priceMAD := decimal.NewFromFloat(g.faker.Price(50, 3000)).Round(0)
		name := g.faker.ProductName()
		if len([]rune(name)) > 100 {
			name = string([]rune(name)[:100])
		}

		p, err := catalog.NewProduct(catalog.ProductInput{
			Name:         name,
			Description:  g.description(),
			Price:        priceMAD.Mul(usdPerMAD).Round(2),
			PriceMAD:     priceMAD,
			Image:        "/images/sample.jpg",
			Category:     g.faker.RandomString(fakeCategories),
			Brand:        g.faker.RandomString(fakeBrands),
			CountInStock: g.faker.Number(0, 60),
			Tags:         []string{strings.ToLower(g.faker.ProductMaterial()), strings.ToLower(g.faker.Adjective())},
		}, nil)
		if err != nil {
			return nil, err
		}
		p.Rating = float64(g.faker.Number(30, 50)) / 10
		p.NumReviews = g.faker.Number(0, 60)
		products = append(products, p)
	}
	return products, nil
}

func (g *Generator) description() string {
	desc := g.faker.ProductDescription()
	if len([]rune(desc)) > 2000 {
		desc = string([]rune(desc)[:2000])
	}
	for len([]rune(desc)) < 10 {
		desc += " " + g.faker.Sentence(6)
	}
	return desc
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

package catalog

import (
	"strconv"
	"strings"

	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	defaultListPageSize   = 8
	defaultSearchPageSize = 12
	maxPageSize           = 100
)

func parseDecimal(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid "+field)
	}
	return &d, nil
}

func parseRating(field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f > catalog.MaxRating {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid "+field)
	}
	return &f, nil
}

func clampPage(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = def
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// toQuery builds the repository query of the product listing
func (q ListProductsQuery) toQuery() (catalog.ProductQuery, error) {
	minPrice, err := parseDecimal("minPrice", q.MinPrice)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	maxPrice, err := parseDecimal("maxPrice", q.MaxPrice)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	rating, err := parseRating("rating", q.Rating)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	page, size := clampPage(q.PageNumber, q.PageSize, defaultListPageSize)
	return catalog.ProductQuery{
		Keyword:    strings.TrimSpace(q.Keyword),
		Category:   strings.TrimSpace(q.Category),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		MinRating:  rating,
		InStock:    q.InStock,
		ActiveOnly: true,
		SortBy:     q.SortBy,
		Page:       page,
		PageSize:   size,
	}, nil
}

// toQuery builds the repository query of a search
func (q SearchQuery) toQuery() (catalog.ProductQuery, error) {
	minPrice, err := parseDecimal("minPrice", q.MinPrice)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	maxPrice, err := parseDecimal("maxPrice", q.MaxPrice)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	rating, err := parseRating("minRating", q.MinRating)
	if err != nil {
		return catalog.ProductQuery{}, err
	}
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	page, size := clampPage(q.Page, q.Limit, defaultSearchPageSize)
	return catalog.ProductQuery{
		Keyword:    strings.TrimSpace(q.Keyword),
		Category:   category,
		Brand:      strings.TrimSpace(q.Brand),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		MinRating:  rating,
		InStock:    q.InStock,
		ActiveOnly: true,
		SortBy:     q.SortBy,
		Page:       page,
		PageSize:   size,
	}, nil
}

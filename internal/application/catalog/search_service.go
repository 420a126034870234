package catalog

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/maroccart/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	keywordSuggestions   = 5
	suggestionCandidates = 5
	maxSuggestions       = 8
	minSuggestionLength  = 2
)

var (
	defaultMinPrice = decimal.Zero
	defaultMaxPrice = decimal.NewFromInt(1000)
)

// SearchService implements catalog search, suggestions and filter facets
type SearchService struct {
	productRepo catalog.ProductRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(productRepo catalog.ProductRepository) *SearchService {
	return &SearchService{productRepo: productRepo}
}

// Search returns one page of active products and name suggestions for the keyword
func (s *SearchService) Search(ctx context.Context, query SearchQuery) (*SearchResponse, error) {
	q, err := query.toQuery()
	if err != nil {
		return nil, err
	}
	products, total, err := s.productRepo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	suggestions := []string{}
	if q.Keyword != "" {
		matches, err := s.productRepo.Suggest(ctx, q.Keyword, keywordSuggestions)
		if err != nil {
			return nil, err
		}
		suggestions = uniqueNames(matches, keywordSuggestions, false)
	}

	return &SearchResponse{
		Products:    ToProductResponses(products),
		CurrentPage: q.Page,
		TotalPages:  shared.TotalPages(total, q.PageSize),
		TotalItems:  total,
		Suggestions: suggestions,
	}, nil
}

// Suggestions returns product names and brands containing term
func (s *SearchService) Suggestions(ctx context.Context, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minSuggestionLength {
		return []string{}, nil
	}
	matches, err := s.productRepo.Suggest(ctx, term, suggestionCandidates)
	if err != nil {
		return nil, err
	}
	return uniqueNames(matches, maxSuggestions, true), nil
}

// Filters returns the categories, brands and price range of the active catalog
func (s *SearchService) Filters(ctx context.Context) (*FiltersResponse, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := s.productRepo.Brands(ctx)
	if err != nil {
		return nil, err
	}
	minPrice, maxPrice, err := s.productRepo.PriceRange(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		minPrice, maxPrice, err = defaultMinPrice, defaultMaxPrice, nil
	}
	if err != nil {
		return nil, err
	}
	return &FiltersResponse{
		Categories: categories,
		Brands:     brands,
		PriceRange: PriceRange{MinPrice: minPrice, MaxPrice: maxPrice},
	}, nil
}

func uniqueNames(products []catalog.Product, limit int, withBrands bool) []string {
	seen := make(map[string]bool)
	out := []string{}
	add := func(v string) {
		if v == "" || seen[v] || len(out) >= limit {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for _, p := range products {
		add(p.Name)
	}
	if withBrands {
		for _, p := range products {
			add(p.Brand)
		}
	}
	return out
}

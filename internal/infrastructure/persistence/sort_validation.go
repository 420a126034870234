package persistence

import (
	"strings"

	"github.com/maroccart/backend/internal/domain/catalog"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"price_mad":      true,
	"rating":         true,
	"num_reviews":    true,
	"count_in_stock": true,
	"category":       true,
	"brand":          true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"total_price":  true,
	"paid_at":      true,
	"order_status": true,
}

// productSortClauses maps storefront sort keys to ORDER BY clauses.
// Every clause ends with a unique column so paging is stable.
var productSortClauses = map[string]string{
	catalog.SortPriceAsc:   "price_mad ASC, id ASC",
	catalog.SortPriceDesc:  "price_mad DESC, id ASC",
	catalog.SortRating:     "rating DESC, num_reviews DESC, id ASC",
	catalog.SortNewest:     "created_at DESC, id ASC",
	catalog.SortPopular:    "num_reviews DESC, rating DESC, id ASC",
	catalog.SortBestseller: "num_reviews DESC, id ASC",
}

// ProductSortClause returns the ORDER BY clause for a storefront sort key, newest by default
func ProductSortClause(sortBy string) string {
	if clause, ok := productSortClauses[strings.TrimSpace(sortBy)]; ok {
		return clause
	}
	return productSortClauses[catalog.SortNewest]
}

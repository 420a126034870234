package persistence

import (
	"testing"

	"github.com/maroccart/backend/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE users;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"valid field returns field", "price_mad", "price_mad"},
		{"invalid field returns default", "password_hash", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE products;--", "created_at"},
		{"case sensitive", "RATING", "created_at"},
		{"whitespace around valid field returns field", "  rating  ", "rating"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "created_at"))
		})
	}
}

func TestProductSortClause(t *testing.T) {
	assert.Equal(t, "price_mad ASC, id ASC", ProductSortClause(catalog.SortPriceAsc))
	assert.Equal(t, "num_reviews DESC, id ASC", ProductSortClause(catalog.SortBestseller))
	assert.Equal(t, "created_at DESC, id ASC", ProductSortClause(""))
	assert.Equal(t, "created_at DESC, id ASC", ProductSortClause("price; DROP TABLE products"))
}

package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Product not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "Product not found", err.Error())
}

func TestDomainError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("checkout: %w", NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for Tajine. Available: 2"))

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.True(t, IsDomainError(err, "INSUFFICIENT_STOCK"))
	assert.False(t, IsDomainError(err, "NOT_FOUND"))
}

func TestWrapDomainError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapDomainError("STORAGE_ERROR", "Failed to store file", cause)

	assert.ErrorIs(t, err, cause)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 8))
	assert.Equal(t, 1, TotalPages(8, 8))
	assert.Equal(t, 2, TotalPages(9, 8))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 12}.Offset())
	assert.Equal(t, 24, Filter{Page: 3, PageSize: 12}.Offset())
	assert.Equal(t, 0, Filter{Page: 0, PageSize: 12}.Offset())
}

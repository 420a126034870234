package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeRouteNotFound is used when no route matches the request
	ErrCodeRouteNotFound = "ROUTE_NOT_FOUND"
)

// Validation error codes
const (
	// ErrCodeValidation is the code of binding and domain validation failures
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidRating is used when a rating falls outside 1-5
	ErrCodeInvalidRating = "INVALID_RATING"
	// ErrCodeInvalidStock is used for negative stock values
	ErrCodeInvalidStock = "INVALID_STOCK"
	// ErrCodeNoOrderItems is used when an order has no lines
	ErrCodeNoOrderItems = "NO_ORDER_ITEMS"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeInvalidCredentials is used when a login does not match
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	// ErrCodeInvalidToken is used when the bearer token cannot be validated
	ErrCodeInvalidToken = "INVALID_TOKEN"
	// ErrCodeTokenExpired is used when the bearer token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenRevoked is used for tokens revoked by logout
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotAdmin is used by the admin gate
	ErrCodeNotAdmin = "NOT_ADMIN"
	// ErrCodeNotVerifiedPurchase is used when a review lacks a paid order
	ErrCodeNotVerifiedPurchase = "NOT_VERIFIED_PURCHASE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeAlreadyReviewed is used for a second review of the same product
	ErrCodeAlreadyReviewed = "ALREADY_REVIEWED"
	// ErrCodeAlreadyInWishlist is used for a duplicate wishlist entry
	ErrCodeAlreadyInWishlist = "ALREADY_IN_WISHLIST"
	// ErrCodeInvalidReferral is used for an unknown referral code
	ErrCodeInvalidReferral = "INVALID_REFERRAL"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeInsufficientStock is used when stock is insufficient
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Conflicts and business rule violations answer 400.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:      http.StatusInternalServerError,
	ErrCodeBadRequest:    http.StatusBadRequest,
	ErrCodeRouteNotFound: http.StatusNotFound,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidRating:   http.StatusBadRequest,
	ErrCodeInvalidStock:    http.StatusBadRequest,
	ErrCodeNoOrderItems:    http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeInvalidCredentials:  http.StatusUnauthorized,
	ErrCodeInvalidToken:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenRevoked:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotAdmin:            http.StatusForbidden,
	ErrCodeNotVerifiedPurchase: http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusBadRequest,
	ErrCodeAlreadyReviewed:   http.StatusBadRequest,
	ErrCodeAlreadyInWishlist: http.StatusBadRequest,
	ErrCodeInvalidReferral:   http.StatusBadRequest,

	// Business rule errors
	ErrCodeInvalidState:      http.StatusBadRequest,
	ErrCodeInsufficientStock: http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

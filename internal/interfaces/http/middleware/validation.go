package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/maroccart/backend/internal/domain/identity"
	"github.com/maroccart/backend/internal/domain/trade"
	"github.com/maroccart/backend/internal/interfaces/http/dto"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator with JSON field names and the
// storefront tags: alphaspace, strongpassword, phone and paymentmethod
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// Use JSON tag names for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
			for _, r := range fl.Field().String() {
				if !unicode.IsLetter(r) && !unicode.IsSpace(r) {
					return false
				}
			}
			return true
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return identity.ValidatePassword(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return trade.ValidatePhone(fl.Field().String()) == nil
		})
		_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return trade.PaymentMethod(fl.Field().String()).IsValid()
		})
	})
}

// FormatValidationErrors converts validator errors to the error envelope.
// Decoding errors become a single body detail.
func FormatValidationErrors(err error, requestID string) dto.ErrorResponse {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
				Tag:     e.Tag(),
			})
		}
	} else if err != nil {
		details = append(details, dto.ValidationDetail{
			Field:   "body",
			Message: "Invalid request body",
		})
	}

	return dto.NewValidationErrorResponse(requestID, details)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	resp := FormatValidationErrors(err, GetRequestID(c))
	c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeValidation), resp)
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please enter a valid email"
	case "min":
		if e.Type().Kind() == reflect.String {
			return field + " must be at least " + e.Param() + " characters"
		}
		return field + " must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return field + " must be at most " + e.Param() + " characters"
		}
		return field + " must be at most " + e.Param()
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "uuid":
		return field + " must be a valid id"
	case "alphanum":
		return field + " must be alphanumeric"
	case "alphaspace":
		return "Name can only contain letters and spaces"
	case "strongpassword":
		return "Password must contain at least one lowercase letter, one uppercase letter, and one number"
	case "phone":
		return "Please enter a valid phone number"
	case "paymentmethod":
		return "Invalid payment method"
	default:
		return field + " is invalid"
	}
}

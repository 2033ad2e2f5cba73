// Package validator provides request validation utilities
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	var messages []string
	for _, e := range ve {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// Init initializes the validator with custom validators
func Init() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validate = v

			// Register custom tag name function to use JSON tags
			v.RegisterTagNameFunc(func(fld reflect.StructField) string {
				name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
				if name == "-" {
					return ""
				}
				return name
			})

			// Register custom validators
			_ = v.RegisterValidation("symbol", validateSymbol)
			_ = v.RegisterValidation("side", validateSide)
			_ = v.RegisterValidation("provider", validateProvider)
			_ = v.RegisterValidation("timeframe", validateTimeframe)
			_ = v.RegisterValidation("positive", validatePositive)
		}
	})
}

// Get returns the validator instance
func Get() *validator.Validate {
	Init()
	return validate
}

// ParseValidationErrors converts validator.ValidationErrors to ValidationErrors
func ParseValidationErrors(err error) ValidationErrors {
	var validationErrors ValidationErrors

	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, e := range ve {
			field := e.Field()
			tag := e.Tag()

			validationErrors = append(validationErrors, ValidationError{
				Field:   field,
				Tag:     tag,
				Message: formatErrorMessage(field, tag, e.Param()),
			})
		}
	}

	return validationErrors
}

// formatErrorMessage creates a human-readable error message
func formatErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + param + " characters"
	case "max":
		return field + " must be at most " + param + " characters"
	case "oneof":
		return field + " must be one of: " + param
	case "url":
		return field + " must be a valid URL"
	case "symbol":
		return field + " must be a ticker symbol (1-10 letters, digits, dots or hyphens)"
	case "side":
		return field + " must be buy or sell"
	case "provider":
		return field + " must be a valid provider (anthropic, openai, ollama)"
	case "timeframe":
		return field + " must be a valid timeframe (7d, 30d, 90d, 1y, all)"
	case "positive":
		return field + " must be greater than zero"
	case "gte":
		return field + " must be greater than or equal to " + param
	case "lte":
		return field + " must be less than or equal to " + param
	case "gt":
		return field + " must be greater than " + param
	case "lt":
		return field + " must be less than " + param
	default:
		return field + " is invalid"
	}
}

// Custom validators

// validateSymbol checks if a string looks like a ticker symbol. Case is not
// enforced here; services uppercase on write.
func validateSymbol(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Let required handle empty
	}
	if len(val) > 10 {
		return false
	}
	for _, c := range val {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '.' || c == '-') {
			return false
		}
	}
	return true
}

// validateSide checks if a string is a valid trade side
func validateSide(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return val == "buy" || val == "sell"
}

// validateProvider checks if a string is a valid LLM provider
func validateProvider(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Default provider will be used
	}
	validProviders := map[string]bool{
		"anthropic": true,
		"openai":    true,
		"ollama":    true,
	}
	return validProviders[val]
}

// validatePositive checks that a decimal amount is strictly greater than zero.
// Quantities and prices of zero or below are never meaningful inputs.
func validatePositive(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}

// validateTimeframe checks if a string is a valid price history timeframe
func validateTimeframe(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	validTimeframes := map[string]bool{
		"7d":  true,
		"30d": true,
		"90d": true,
		"1y":  true,
		"all": true,
	}
	return validTimeframes[val]
}

package decoder

import (
	"errors"
	"fmt"

	"bankid/internal/claims/domain/shared"
	"bankid/internal/claims/domain/verified"
)

// ErrorCategory defines the decode failure taxonomy
type ErrorCategory string

const (
	// ErrorMalformedJSON indicates the input is not valid JSON
	ErrorMalformedJSON ErrorCategory = "malformed_json"

	// ErrorFieldParse indicates a required field has the wrong shape
	ErrorFieldParse ErrorCategory = "field_parse"

	// ErrorUnknownTier indicates a tier selector outside the four products
	ErrorUnknownTier ErrorCategory = "unknown_tier"

	// ErrorTierMismatch indicates a verified wrapper was handed claims of another tier
	ErrorTierMismatch ErrorCategory = "tier_mismatch"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// Sentinel errors for errors.Is checks
var (
	ErrMalformedJSON = errors.New("malformed json")
	ErrFieldParse    = errors.New("field parse error")
	ErrUnknownTier   = shared.ErrUnknownTier
	ErrTierMismatch  = verified.ErrTierMismatch
)

// DecodeError reports why a document could not be turned into a product.
// Path uses dotted keys with array indexes, e.g. verified_claims.claims.addresses[0].
type DecodeError struct {
	Category   ErrorCategory
	Path       string
	Expected   string
	Underlying error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("decode [%s]", e.Category)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	if e.Underlying != nil {
		msg += ": " + e.Underlying.Error()
	}
	return msg
}

// Unwrap supports error unwrapping
func (e *DecodeError) Unwrap() error {
	return e.Underlying
}

// Is matches the sentinel of the error's category.
func (e *DecodeError) Is(target error) bool {
	switch e.Category {
	case ErrorMalformedJSON:
		return target == ErrMalformedJSON
	case ErrorFieldParse:
		return target == ErrFieldParse
	}
	return false
}

func malformed() *DecodeError {
	return &DecodeError{Category: ErrorMalformedJSON, Path: "$", Expected: "valid JSON"}
}

func fieldError(path, expected string) *DecodeError {
	return &DecodeError{Category: ErrorFieldParse, Path: path, Expected: expected}
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Category
	}
	return ErrorInternal
}

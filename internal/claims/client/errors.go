package client

import (
	"errors"
	"fmt"
)

// ErrorCategory defines the normalized failure taxonomy for provider fetches
type ErrorCategory string

const (
	// ErrorTimeout indicates the provider took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorAuthentication indicates a missing, rejected or expired bearer token
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorNotFound indicates the endpoint or the End-User's data doesn't exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorProviderOutage indicates the provider is unavailable
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorBadStatus indicates an unexpected HTTP status
	ErrorBadStatus ErrorCategory = "bad_status"

	// ErrorBadDocument indicates the provider answered with a document that
	// is oversized or cannot be decoded
	ErrorBadDocument ErrorCategory = "bad_document"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

// FetchError wraps provider failures with normalized categorization
type FetchError struct {
	Category   ErrorCategory
	Endpoint   Endpoint
	Status     int // HTTP status when the provider answered, otherwise 0
	Message    string
	Underlying error
	Retryable  bool // Whether this error is worth retrying
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("bankid %s [%s]: %s: %v", e.Endpoint, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("bankid %s [%s]: %s", e.Endpoint, e.Category, e.Message)
}

// Unwrap supports error unwrapping
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

// NewFetchError creates a new normalized fetch error
func NewFetchError(category ErrorCategory, endpoint Endpoint, message string, underlying error) *FetchError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited

	return &FetchError{
		Category:   category,
		Endpoint:   endpoint,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return ErrorInternal
}

// ErrNoToken is returned by token providers that have no token to offer.
var ErrNoToken = errors.New("no bearer token")

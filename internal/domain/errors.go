package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a request that must not reach generation (e.g. empty role).
	ErrInvalidInput = errors.New("invalid input")
	// ErrBatchTooLarge signals a batch request above the configured size.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrAssistUnavailable signals that no assist provider is configured.
	ErrAssistUnavailable = errors.New("assist unavailable")
	// ErrAssistProviderError signals a transport failure or non-success status from the assist provider.
	ErrAssistProviderError = errors.New("assist provider error")
)

// ProviderError wraps ErrAssistProviderError with the upstream status and payload.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s: %s", ErrAssistProviderError.Error(), e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: %s status %d: %s", ErrAssistProviderError.Error(), e.Provider, e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error { return ErrAssistProviderError }

// NewProviderError creates an assist provider error.
func NewProviderError(provider string, statusCode int, body string) error {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Body: body}
}

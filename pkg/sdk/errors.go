package sourcer

import "github.com/kailas-cloud/sourcer/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput        = domain.ErrInvalidInput
	ErrBatchTooLarge       = domain.ErrBatchTooLarge
	ErrAssistUnavailable   = domain.ErrAssistUnavailable
	ErrAssistProviderError = domain.ErrAssistProviderError
)

// ProviderError carries the upstream status and payload of a failed assist call.
// Use errors.As() to extract it.
type ProviderError = domain.ProviderError

// NewProviderError creates an error for Completer implementations to return
// on transport failures (statusCode 0) or non-success responses.
func NewProviderError(provider string, statusCode int, body string) error {
	return domain.NewProviderError(provider, statusCode, body)
}

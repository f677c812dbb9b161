package chi

import (
	"time"

	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeAssistUnavailable   ErrorCode = "assist_unavailable"
	ErrorCodeAssistProviderError ErrorCode = "assist_provider_error"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code     ErrorCode      `json:"code"`
	Message  string         `json:"message"`
	Upstream *UpstreamError `json:"upstream,omitempty"`
}

// UpstreamError carries the assist provider's status and payload.
type UpstreamError struct {
	Provider   string `json:"provider"`
	StatusCode int    `json:"status,omitempty"`
	Body       string `json:"body,omitempty"`
}

// BooleanRequest is the form input of one generation.
type BooleanRequest struct {
	Role     string `json:"role"`
	Skills   string `json:"skills,omitempty"`
	Exclude  string `json:"exclude,omitempty"`
	Location string `json:"location,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// GetBooleanParams are the query parameters of GET /api/v1/boolean.
type GetBooleanParams struct {
	Role     *string
	Skills   *string
	Exclude  *string
	Location *string
	Platform *string
}

// BatchRequest is the body of POST /api/v1/boolean/batch.
type BatchRequest struct {
	Items  []BooleanRequest `json:"items"`
	Assist bool             `json:"assist,omitempty"`
}

// BatchResultItem is the outcome of one batch entry.
type BatchResultItem struct {
	Index  int            `json:"index"`
	Result *result.Bundle `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the body returned by POST /api/v1/boolean/batch.
type BatchResponse struct {
	Items     []BatchResultItem `json:"items"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// PlatformInfo describes one supported platform.
type PlatformInfo struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// PlatformsResponse lists supported platforms.
type PlatformsResponse struct {
	Default   string         `json:"default"`
	Platforms []PlatformInfo `json:"platforms"`
}

// GetUsageParams are the query parameters of GET /usage.
type GetUsageParams struct {
	Period *string
}

// UsageMetrics are the generation counters of a period.
type UsageMetrics struct {
	LocalGenerations  int64 `json:"local_generations"`
	AssistGenerations int64 `json:"assist_generations"`
	AssistTokens      int64 `json:"assist_tokens"`
	Failures          int64 `json:"failures"`
	Total             int64 `json:"total"`
}

// UsageResponse is the body returned by GET /usage.
type UsageResponse struct {
	Period        string       `json:"period"`
	PeriodStartAt *time.Time   `json:"period_start_at,omitempty"`
	PeriodEndAt   *time.Time   `json:"period_end_at,omitempty"`
	Usage         UsageMetrics `json:"usage"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

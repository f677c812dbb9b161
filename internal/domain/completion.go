package domain

import "context"

// Completer is the shared text-generation contract between layers.
// One call is one outbound request: implementations must not retry.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// HealthChecker verifies assist provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionRequest is a single system + user exchange.
type CompletionRequest struct {
	System    string
	User      string
	MaxTokens int
}

// Completion carries the model text and token usage through the decorator chain.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

package domain

import "context"

type assistUsageKey struct{}

// AssistUsage collects assist token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after the completion; the handler reads it for response headers.
type AssistUsage struct {
	TotalTokens int
	Used        bool // true if the provider was called, even when it reported 0 tokens
}

// NewContextWithAssistUsage returns a context with an assist usage collector.
func NewContextWithAssistUsage(ctx context.Context) (context.Context, *AssistUsage) {
	u := &AssistUsage{}
	return context.WithValue(ctx, assistUsageKey{}, u), u
}

// AssistUsageFromContext extracts the usage collector from context. Returns nil if not set.
func AssistUsageFromContext(ctx context.Context) *AssistUsage {
	u, _ := ctx.Value(assistUsageKey{}).(*AssistUsage)
	return u
}

// AddTokens records consumed tokens.
func (u *AssistUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}

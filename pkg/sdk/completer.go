package sourcer

import "context"

// Completer sends one system + user exchange to a text-generation provider.
// Implementations must not retry: one call is one outbound request.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

// Prompt is a single assist exchange.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
}

// Completion carries the model text and token usage.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

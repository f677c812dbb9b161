package assist

import (
	"context"

	"github.com/kailas-cloud/sourcer/internal/domain"
)

// Completer sends one system + user exchange to a text-generation provider.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.Completion, error)
}

// UsageRecorder receives token counts of successful completions.
type UsageRecorder interface {
	RecordAssistTokens(tokens int64)
}

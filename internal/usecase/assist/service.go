package assist

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/domain"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
	"github.com/kailas-cloud/sourcer/internal/metrics"
)

// DefaultMaxTokens bounds the length of one assist answer.
const DefaultMaxTokens = 800

// Service asks a text-generation provider for an alternative boolean string.
// It makes exactly one provider call per request and never retries.
type Service struct {
	completer Completer
	maxTokens int
	logger    *zap.Logger
}

// New creates an assist service. completer can be nil (assist disabled).
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, maxTokens: DefaultMaxTokens, logger: logger}
}

// WithMaxTokens overrides the answer token limit.
func (s *Service) WithMaxTokens(n int) *Service {
	if n > 0 {
		s.maxTokens = n
	}
	return s
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool { return s.completer != nil }

// Generate sends the request to the provider and parses its answer.
// Transport failures surface as errors; unparseable answers degrade to plain text.
func (s *Service) Generate(ctx context.Context, req *request.Request) (result.Bundle, error) {
	if s.completer == nil {
		return result.Bundle{}, domain.ErrAssistUnavailable
	}

	completion, err := s.completer.Complete(ctx, domain.CompletionRequest{
		System:    SystemPrompt,
		User:      UserPrompt(req),
		MaxTokens: s.maxTokens,
	})
	if err != nil {
		return result.Bundle{}, fmt.Errorf("assist complete: %w", err)
	}

	domain.AssistUsageFromContext(ctx).AddTokens(completion.TotalTokens)

	bundle, ok := ParseAnswer(completion.Text)
	if !ok {
		metrics.AssistParseFallbackTotal.Inc()
		s.logger.Warn("Assist answer is not JSON, using plain text",
			zap.Int("answer_len", len(completion.Text)),
		)
	}
	return bundle, nil
}

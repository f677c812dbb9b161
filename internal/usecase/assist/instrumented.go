package assist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/domain"
	"github.com/kailas-cloud/sourcer/internal/metrics"
)

// InstrumentedCompleter wraps a provider completer with metrics, logging and usage recording.
type InstrumentedCompleter struct {
	inner    Completer
	provider string
	model    string
	usage    UsageRecorder
	logger   *zap.Logger
}

// NewInstrumentedCompleter wraps a completer. usage can be nil.
func NewInstrumentedCompleter(
	inner Completer, provider, model string,
	usage UsageRecorder, logger *zap.Logger,
) *InstrumentedCompleter {
	return &InstrumentedCompleter{
		inner:    inner,
		provider: provider,
		model:    model,
		usage:    usage,
		logger:   logger,
	}
}

// Complete delegates to the inner completer and records the outcome.
func (c *InstrumentedCompleter) Complete(
	ctx context.Context, req domain.CompletionRequest,
) (domain.Completion, error) {
	start := time.Now()

	res, err := c.inner.Complete(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.AssistRequestsTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		metrics.AssistErrorsTotal.WithLabelValues(c.provider, c.model, errorType(err)).Inc()
		c.logger.Error("Assist request failed",
			zap.String("provider", c.provider),
			zap.String("model", c.model),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	metrics.AssistRequestsTotal.WithLabelValues(c.provider, c.model, "success").Inc()
	metrics.AssistRequestDuration.WithLabelValues(c.provider, c.model).Observe(duration.Seconds())
	if res.TotalTokens > 0 {
		metrics.AssistTokensTotal.WithLabelValues(c.provider, c.model, "prompt").Add(float64(res.PromptTokens))
		metrics.AssistTokensTotal.WithLabelValues(c.provider, c.model, "completion").Add(float64(res.CompletionTokens))
		metrics.AssistTokensTotal.WithLabelValues(c.provider, c.model, "total").Add(float64(res.TotalTokens))
		if c.usage != nil {
			c.usage.RecordAssistTokens(int64(res.TotalTokens))
		}
	}

	c.logger.Debug("Assist request completed",
		zap.String("provider", c.provider),
		zap.String("model", c.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", res.PromptTokens),
		zap.Int("completion_tokens", res.CompletionTokens),
		zap.Int("answer_len", len(res.Text)),
	)

	return res, nil
}

// HealthCheck forwards to the inner completer when it supports health checks.
func (c *InstrumentedCompleter) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s health check: %w", c.provider, err)
		}
	}
	return nil
}

func errorType(err error) string {
	var pe *domain.ProviderError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &pe) && pe.StatusCode == 0:
		return "transport"
	case errors.As(err, &pe):
		return "status"
	default:
		return "unknown"
	}
}

package generate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/domain"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
	"github.com/kailas-cloud/sourcer/internal/engine"
	"github.com/kailas-cloud/sourcer/internal/logger"
	"github.com/kailas-cloud/sourcer/internal/metrics"
)

// Generation sources, used as metric labels and usage counters.
const (
	SourceLocal  = "local"
	SourceAssist = "assist"
)

// Service routes a request to the local engine or the assist provider.
type Service struct {
	assist   Assister
	recorder Recorder
}

// New creates a generation service. assist and recorder can be nil.
func New(assist Assister, recorder Recorder) *Service {
	return &Service{assist: assist, recorder: recorder}
}

// AssistAvailable reports whether the assist path is configured.
func (s *Service) AssistAvailable() bool {
	return s.assist != nil && s.assist.Available()
}

// Local builds the bundle with the deterministic engine. It never fails.
func (s *Service) Local(ctx context.Context, req *request.Request) result.Bundle {
	start := time.Now()
	b := engine.Generate(engine.InputFromRequest(req))

	s.record(SourceLocal, req, true)
	logger.FromContext(ctx).Debug("Boolean generated",
		zap.String("source", SourceLocal),
		zap.String("platform", req.Platform().String()),
		zap.Int("boolean_len", len(b.Boolean)),
		zap.Duration("duration", time.Since(start)),
	)
	return b
}

// Assist builds the bundle through the assist provider.
func (s *Service) Assist(ctx context.Context, req *request.Request) (result.Bundle, error) {
	if !s.AssistAvailable() {
		return result.Bundle{}, domain.ErrAssistUnavailable
	}

	start := time.Now()
	b, err := s.assist.Generate(ctx, req)
	if err != nil {
		s.record(SourceAssist, req, false)
		logger.FromContext(ctx).Warn("Assist generation failed",
			zap.String("platform", req.Platform().String()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return result.Bundle{}, err
	}

	s.record(SourceAssist, req, true)
	logger.FromContext(ctx).Debug("Boolean generated",
		zap.String("source", SourceAssist),
		zap.String("platform", req.Platform().String()),
		zap.String("prompt_version", b.PromptVersion),
		zap.Duration("duration", time.Since(start)),
	)
	return b, nil
}

// Generate dispatches to Assist or Local.
func (s *Service) Generate(ctx context.Context, req *request.Request, useAssist bool) (result.Bundle, error) {
	if useAssist {
		return s.Assist(ctx, req)
	}
	return s.Local(ctx, req), nil
}

func (s *Service) record(source string, req *request.Request, ok bool) {
	status := "success"
	if !ok {
		status = "error"
	}
	metrics.GenerationsTotal.WithLabelValues(source, req.Platform().String(), status).Inc()
	if s.recorder != nil {
		s.recorder.RecordGeneration(source, ok)
	}
}

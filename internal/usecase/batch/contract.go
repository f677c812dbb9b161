package batch

import (
	"context"

	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
)

// Generator produces one bundle per validated request.
type Generator interface {
	Generate(ctx context.Context, req *request.Request, useAssist bool) (result.Bundle, error)
}

package generate

import (
	"context"

	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
	"github.com/kailas-cloud/sourcer/internal/domain/query/result"
)

// Assister produces a bundle through a remote text-generation provider.
type Assister interface {
	Available() bool
	Generate(ctx context.Context, req *request.Request) (result.Bundle, error)
}

// Recorder counts generation outcomes.
type Recorder interface {
	RecordGeneration(source string, ok bool)
}

package usage

import (
	"context"

	"github.com/kailas-cloud/sourcer/internal/domain/usage"
	"github.com/kailas-cloud/sourcer/internal/domain/usage/metrics"
)

// CounterStore is the persistence interface for usage counters.
// Implementations must be idempotent (IncrBy can be called repeatedly).
type CounterStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// Reader provides read-only access to counter snapshots.
type Reader interface {
	Snapshot(period usage.Period) metrics.Metrics
}

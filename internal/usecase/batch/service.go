package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/kailas-cloud/sourcer/internal/domain"
	dombatch "github.com/kailas-cloud/sourcer/internal/domain/batch"
	"github.com/kailas-cloud/sourcer/internal/domain/query/request"
)

// Defaults for batch limits.
const (
	MaxBatchSize   = 50
	DefaultWorkers = 4
)

// Item holds the raw form inputs of one batch entry.
type Item struct {
	Role     string
	Skills   string
	Exclude  string
	Location string
	Platform string
}

// Service generates many booleans at once on a bounded worker pool
// with per-item error reporting.
type Service struct {
	gen          Generator
	pool         *ants.Pool
	maxBatchSize int
}

// New creates a batch service with a pool of the given size.
func New(gen Generator, workers int) (*Service, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Service{gen: gen, pool: pool, maxBatchSize: MaxBatchSize}, nil
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxBatchSize returns the configured limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Close releases the worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Generate processes every item and returns results in input order.
// Oversized batches are rejected as a whole.
func (s *Service) Generate(ctx context.Context, items []Item, useAssist bool) ([]dombatch.Result, error) {
	if len(items) > s.maxBatchSize {
		return nil, fmt.Errorf("%d items, max %d: %w", len(items), s.maxBatchSize, domain.ErrBatchTooLarge)
	}

	results := make([]dombatch.Result, len(items))
	var wg sync.WaitGroup

	for i := range items {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = s.generateOne(ctx, i, &items[i], useAssist)
		}
		if err := s.pool.Submit(task); err != nil {
			wg.Done()
			results[i] = dombatch.NewError(i, fmt.Errorf("submit: %w", err))
		}
	}

	wg.Wait()
	return results, nil
}

func (s *Service) generateOne(ctx context.Context, index int, item *Item, useAssist bool) dombatch.Result {
	if err := ctx.Err(); err != nil {
		return dombatch.NewError(index, err)
	}

	req, err := request.New(item.Role, item.Skills, item.Exclude, item.Location, item.Platform)
	if err != nil {
		return dombatch.NewError(index, err)
	}

	b, err := s.gen.Generate(ctx, &req, useAssist)
	if err != nil {
		return dombatch.NewError(index, err)
	}
	return dombatch.NewOK(index, b)
}

package batch

import "github.com/kailas-cloud/sourcer/internal/domain/query/result"

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK    ItemStatus = "ok"
	StatusError ItemStatus = "error"
)

// Result is the outcome of generating one item of a batch. Index is the item's
// position in the request.
type Result struct {
	index  int
	status ItemStatus
	bundle result.Bundle
	err    error
}

// NewOK creates a successful batch result.
func NewOK(index int, b result.Bundle) Result {
	return Result{index: index, status: StatusOK, bundle: b}
}

// NewError creates a failed batch result.
func NewError(index int, err error) Result {
	return Result{index: index, status: StatusError, err: err}
}

// Index returns the item position in the request.
func (r Result) Index() int { return r.index }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Bundle returns the generated bundle. Zero on error.
func (r Result) Bundle() result.Bundle { return r.bundle }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Count returns the number of successful and failed results.
func Count(results []Result) (succeeded, failed int) {
	for _, r := range results {
		if r.status == StatusOK {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

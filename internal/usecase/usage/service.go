package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/sourcer/internal/domain/usage"
	"github.com/kailas-cloud/sourcer/internal/domain/usage/metrics"
)

// Service handles usage reporting.
type Service struct {
	r Reader
}

// New creates a Service. r can be nil (tracking disabled).
func New(r Reader) *Service {
	return &Service{r: r}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	now := time.Now().UTC()
	var start, end int64

	switch period {
	case domusage.PeriodDay:
		dayStart := truncateToDay(now)
		start = dayStart.UnixMilli()
		end = dayStart.Add(24 * time.Hour).UnixMilli()
	case domusage.PeriodMonth:
		monthStart := truncateToMonth(now)
		start = monthStart.UnixMilli()
		end = monthStart.AddDate(0, 1, 0).UnixMilli()
	default:
		// total: no period boundaries
	}

	var m metrics.Metrics
	if s.r != nil {
		m = s.r.Snapshot(period)
	}

	return domusage.NewReport(period, start, end, m)
}

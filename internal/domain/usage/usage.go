package usage

import (
	"fmt"

	"github.com/kailas-cloud/sourcer/internal/domain/usage/metrics"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodTotal Period = "total"
)

// ParsePeriod validates a period name. Empty means day.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodMonth, PeriodTotal:
		return Period(s), nil
	default:
		return "", fmt.Errorf("unknown period %q (want day, month or total)", s)
	}
}

// Report is a generation usage report for a time period.
type Report struct {
	period      Period
	periodStart int64
	periodEnd   int64
	metrics     metrics.Metrics
}

// NewReport creates a usage report.
func NewReport(period Period, start, end int64, m metrics.Metrics) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		metrics:     m,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start timestamp (unix millis). Zero for total.
func (r *Report) PeriodStart() int64 { return r.periodStart }

// PeriodEnd returns the period end timestamp (unix millis). Zero for total.
func (r *Report) PeriodEnd() int64 { return r.periodEnd }

// Metrics returns the generation counters.
func (r *Report) Metrics() metrics.Metrics { return r.metrics }

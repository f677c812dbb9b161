package sourcer

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/sourcer/internal/domain/usage"
)

// UsagePeriod is the aggregation granularity for usage reports.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
	PeriodTotal UsagePeriod = "total"
)

// UsageReport contains generation counters for a time period.
// PeriodStart and PeriodEnd are zero for PeriodTotal.
type UsageReport struct {
	Period      UsagePeriod
	PeriodStart time.Time
	PeriodEnd   time.Time
	Metrics     UsageMetrics
}

// UsageMetrics counts generations by source.
type UsageMetrics struct {
	LocalGenerations  int64
	AssistGenerations int64
	AssistTokens      int64
	Failures          int64
}

// Usage returns a usage report for the given period.
// Observer always records success: the underlying use-case is in-memory
// and does not produce errors.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	report := c.usageSvc.GetReport(ctx, domusage.Period(period))
	m := report.Metrics()

	out := UsageReport{
		Period: UsagePeriod(report.Period()),
		Metrics: UsageMetrics{
			LocalGenerations:  m.LocalGenerations(),
			AssistGenerations: m.AssistGenerations(),
			AssistTokens:      m.AssistTokens(),
			Failures:          m.Failures(),
		},
	}
	if report.PeriodStart() > 0 {
		out.PeriodStart = time.UnixMilli(report.PeriodStart()).UTC()
		out.PeriodEnd = time.UnixMilli(report.PeriodEnd()).UTC()
	}
	return out
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

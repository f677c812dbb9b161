package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sourcer/internal/domain/usage"
	"github.com/kailas-cloud/sourcer/internal/domain/usage/metrics"
)

// Counter names a tracked usage counter.
type Counter string

// Tracked counters.
const (
	CounterLocal        Counter = "local"
	CounterAssist       Counter = "assist"
	CounterAssistTokens Counter = "assist_tokens"
	CounterFailures     Counter = "failures"
)

var allCounters = []Counter{CounterLocal, CounterAssist, CounterAssistTokens, CounterFailures}

// Generation sources.
const (
	SourceLocal  = "local"
	SourceAssist = "assist"
)

type counters map[Counter]int64

// Tracker is an in-memory usage tracker with optional persistence.
// Reads are in-memory only. Record updates in-memory first, then write-behind to store.
type Tracker struct {
	mu             sync.Mutex
	daily          counters
	monthly        counters
	total          counters
	prefix         string
	lastDayReset   time.Time
	lastMonthReset time.Time
	store          CounterStore
	logger         *zap.Logger
}

// NewTracker creates a usage tracker. prefix is prepended to every store key.
func NewTracker(prefix string, logger *zap.Logger) *Tracker {
	now := time.Now().UTC()
	return &Tracker{
		daily:          counters{},
		monthly:        counters{},
		total:          counters{},
		prefix:         prefix,
		lastDayReset:   truncateToDay(now),
		lastMonthReset: truncateToMonth(now),
		logger:         logger,
	}
}

// WithStore attaches a persistence store and loads current counters.
func (t *Tracker) WithStore(ctx context.Context, store CounterStore) *Tracker {
	t.store = store
	t.loadFromStore(ctx)
	return t
}

func (t *Tracker) loadFromStore(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range allCounters {
		if val, err := t.store.Get(ctx, t.dailyKey(c, now)); err == nil {
			t.daily[c] = val
		} else {
			t.logger.Warn("Failed to load daily usage from store", zap.String("counter", string(c)), zap.Error(err))
		}
		if val, err := t.store.Get(ctx, t.monthlyKey(c, now)); err == nil {
			t.monthly[c] = val
		} else {
			t.logger.Warn("Failed to load monthly usage from store", zap.String("counter", string(c)), zap.Error(err))
		}
		if val, err := t.store.Get(ctx, t.totalKey(c)); err == nil {
			t.total[c] = val
		} else {
			t.logger.Warn("Failed to load total usage from store", zap.String("counter", string(c)), zap.Error(err))
		}
	}

	t.logger.Info("Usage loaded from store",
		zap.Int64("daily_local", t.daily[CounterLocal]),
		zap.Int64("daily_assist", t.daily[CounterAssist]),
		zap.Int64("monthly_assist_tokens", t.monthly[CounterAssistTokens]),
	)
}

func (t *Tracker) dailyKey(c Counter, at time.Time) string {
	return fmt.Sprintf("%susage:%s:daily:%s", t.prefix, c, at.Format("2006-01-02"))
}

func (t *Tracker) monthlyKey(c Counter, at time.Time) string {
	return fmt.Sprintf("%susage:%s:monthly:%s", t.prefix, c, at.Format("2006-01"))
}

func (t *Tracker) totalKey(c Counter) string {
	return fmt.Sprintf("%susage:%s:total", t.prefix, c)
}

// RecordGeneration counts one generation outcome. Failures are counted regardless of source.
func (t *Tracker) RecordGeneration(source string, ok bool) {
	switch {
	case !ok:
		t.record(CounterFailures, 1)
	case source == SourceAssist:
		t.record(CounterAssist, 1)
	default:
		t.record(CounterLocal, 1)
	}
}

// RecordAssistTokens counts provider tokens consumed by assist.
func (t *Tracker) RecordAssistTokens(tokens int64) {
	if tokens <= 0 {
		return
	}
	t.record(CounterAssistTokens, tokens)
}

func (t *Tracker) record(c Counter, n int64) {
	t.mu.Lock()
	t.resetIfNeeded()
	t.daily[c] += n
	t.monthly[c] += n
	t.total[c] += n
	store := t.store
	now := time.Now().UTC()
	keys := []string{t.dailyKey(c, now), t.monthlyKey(c, now), t.totalKey(c)}
	t.mu.Unlock()

	if store == nil {
		return
	}

	// Write-behind with a background context so store writes outlive the request.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range keys {
		if err := store.IncrBy(ctx, key, n); err != nil {
			t.logger.Warn("Failed to persist usage counter", zap.String("key", key), zap.Error(err))
		}
	}
}

// Snapshot returns the counters of the given period.
func (t *Tracker) Snapshot(period usage.Period) metrics.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNeeded()

	var c counters
	switch period {
	case usage.PeriodDay:
		c = t.daily
	case usage.PeriodMonth:
		c = t.monthly
	default:
		c = t.total
	}
	return metrics.New(c[CounterLocal], c[CounterAssist], c[CounterAssistTokens], c[CounterFailures])
}

// resetIfNeeded zeroes counters when the day or month rolls over.
func (t *Tracker) resetIfNeeded() {
	now := time.Now().UTC()
	today := truncateToDay(now)
	thisMonth := truncateToMonth(now)

	if today.After(t.lastDayReset) {
		t.daily = counters{}
		t.lastDayReset = today
	}
	if thisMonth.After(t.lastMonthReset) {
		t.monthly = counters{}
		t.lastMonthReset = thisMonth
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

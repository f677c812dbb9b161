package sourcer

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	completer Completer
	provider  string
	maxTokens int

	maxBatchSize int
	workers      int

	badgerPath string
	keyPrefix  string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCompleter enables the assist path with the given provider.
// Without it Assist returns ErrAssistUnavailable.
func WithCompleter(c Completer) Option {
	return optionFunc(func(cfg *clientConfig) {
		cfg.completer = c
	})
}

// WithProviderName sets the provider label used in logs. Default: "custom".
func WithProviderName(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = name
	})
}

// WithMaxTokens bounds the length of one assist answer. Default: 800.
func WithMaxTokens(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxTokens = n
	})
}

// WithMaxBatchSize sets the maximum number of requests per Batch call.
// Default: 50.
func WithMaxBatchSize(size int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBatchSize = size
	})
}

// WithWorkers sets the batch worker pool size. Default: 4.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithBadger persists usage counters in a BadgerDB directory.
// By default counters live in memory and are lost on Close.
func WithBadger(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.badgerPath = path
	})
}

// WithKeyPrefix sets the prefix of persisted usage keys. Default: "sourcer:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

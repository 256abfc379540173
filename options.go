package pagecursor

import (
	"log/slog"

	"github.com/hupe1980/pagecursor/resource"
)

type options struct {
	pageSize         int
	policy           ReloadPolicy
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
}

// Option configures a Cursor.
type Option func(*options)

// WithPageSize sets the number of rows loaded per page. Default 10.
func WithPageSize(n int) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// WithReloadPolicy sets the policy consulted on every move.
//
// If nil is passed, or the option is omitted, ThresholdReload with a threshold
// of half the page size is used.
func WithReloadPolicy(p ReloadPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &pagecursor.BasicMetricsCollector{}
//	cur, _ := pagecursor.New(src, pagecursor.WithMetricsCollector(metrics))
//	// ... use cur ...
//	stats := metrics.GetStats()
//	fmt.Printf("Pages: %d, Avg load: %dns\n", stats.PageLoadCount, stats.PageLoadAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pagecursor.NewJSONLogger(slog.LevelDebug)
//	cur, _ := pagecursor.New(src, pagecursor.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController charges the cache store's memory to rc.
// Several cursors may share one controller.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		pageSize:         DefaultPageSize,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.policy == nil {
		o.policy = ThresholdReload{Threshold: o.pageSize / 2}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

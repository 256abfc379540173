// Package promcollector exports cursor metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := promcollector.New(reg, "catalog")
//	if err != nil { ... }
//	cur, err := pagecursor.New(src, pagecursor.WithMetricsCollector(mc))
package promcollector

import (
	"time"

	"github.com/hupe1980/pagecursor"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements pagecursor.MetricsCollector with Prometheus metrics.
// One Collector may be shared by many cursors.
type Collector struct {
	pageLoads    *prometheus.CounterVec
	pageLoadTime *prometheus.HistogramVec
	rowsFetched  prometheus.Counter
	rowsSkipped  prometheus.Counter
	moves        prometheus.Counter
	reloads      prometheus.Counter
}

var _ pagecursor.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. Metric names
// are prefixed with namespace when it is not empty.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		pageLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagecursor_page_loads_total",
			Help:      "Page sweeps by outcome.",
		}, []string{"status"}),
		pageLoadTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pagecursor_page_load_duration_seconds",
			Help:      "Latency of page sweeps.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		rowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagecursor_rows_fetched_total",
			Help:      "Rows copied from the source into the cache.",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagecursor_rows_skipped_total",
			Help:      "Rows inside a page window that were already cached.",
		}),
		moves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagecursor_moves_total",
			Help:      "Moves onto a row.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagecursor_reloads_total",
			Help:      "Moves that triggered a page load.",
		}),
	}

	for _, m := range []prometheus.Collector{c.pageLoads, c.pageLoadTime, c.rowsFetched, c.rowsSkipped, c.moves, c.reloads} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordPageLoad implements pagecursor.MetricsCollector.
func (c *Collector) RecordPageLoad(fetched, skipped int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.pageLoads.WithLabelValues(status).Inc()
	c.pageLoadTime.WithLabelValues(status).Observe(d.Seconds())
	c.rowsFetched.Add(float64(fetched))
	c.rowsSkipped.Add(float64(skipped))
}

// RecordMove implements pagecursor.MetricsCollector.
func (c *Collector) RecordMove(reload bool) {
	c.moves.Inc()
	if reload {
		c.reloads.Inc()
	}
}

package pagecursor

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the promcollector package).
type MetricsCollector interface {
	// RecordPageLoad is called after each page sweep.
	// fetched is the number of rows read from the source, skipped the number
	// already cached; err is nil if the sweep covered the whole window.
	RecordPageLoad(fetched, skipped int, duration time.Duration, err error)

	// RecordMove is called for each move onto a row. reload reports whether
	// the move loaded a page.
	RecordMove(reload bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPageLoad(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordMove(bool)                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PageLoadCount      atomic.Int64
	PageLoadErrors     atomic.Int64
	PageLoadTotalNanos atomic.Int64
	RowsFetched        atomic.Int64
	RowsSkipped        atomic.Int64
	MoveCount          atomic.Int64
	ReloadCount        atomic.Int64
}

// RecordPageLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPageLoad(fetched, skipped int, duration time.Duration, err error) {
	b.PageLoadCount.Add(1)
	b.PageLoadTotalNanos.Add(duration.Nanoseconds())
	b.RowsFetched.Add(int64(fetched))
	b.RowsSkipped.Add(int64(skipped))
	if err != nil {
		b.PageLoadErrors.Add(1)
	}
}

// RecordMove implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMove(reload bool) {
	b.MoveCount.Add(1)
	if reload {
		b.ReloadCount.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PageLoadCount:    b.PageLoadCount.Load(),
		PageLoadErrors:   b.PageLoadErrors.Load(),
		PageLoadAvgNanos: b.getAvgPageLoadNanos(),
		RowsFetched:      b.RowsFetched.Load(),
		RowsSkipped:      b.RowsSkipped.Load(),
		MoveCount:        b.MoveCount.Load(),
		ReloadCount:      b.ReloadCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgPageLoadNanos() int64 {
	count := b.PageLoadCount.Load()
	if count == 0 {
		return 0
	}
	return b.PageLoadTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PageLoadCount    int64
	PageLoadErrors   int64
	PageLoadAvgNanos int64
	RowsFetched      int64
	RowsSkipped      int64
	MoveCount        int64
	ReloadCount      int64
}

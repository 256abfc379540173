package promcollector

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/pagecursor"
	"github.com/hupe1980/pagecursor/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "test")
	require.NoError(t, err)

	c.RecordPageLoad(10, 0, 2*time.Millisecond, nil)
	c.RecordPageLoad(3, 2, time.Millisecond, errors.New("source gone"))
	c.RecordMove(true)
	c.RecordMove(false)
	c.RecordMove(false)

	assert.InDelta(t, 1, promtest.ToFloat64(c.pageLoads.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(c.pageLoads.WithLabelValues("error")), 0)
	assert.InDelta(t, 13, promtest.ToFloat64(c.rowsFetched), 0)
	assert.InDelta(t, 2, promtest.ToFloat64(c.rowsSkipped), 0)
	assert.InDelta(t, 3, promtest.ToFloat64(c.moves), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(c.reloads), 0)

	expected := `
# HELP test_pagecursor_reloads_total Moves that triggered a page load.
# TYPE test_pagecursor_reloads_total counter
test_pagecursor_reloads_total 1
`
	require.NoError(t, promtest.GatherAndCompare(reg, strings.NewReader(expected), "test_pagecursor_reloads_total"))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg, "")
	require.NoError(t, err)

	_, err = New(reg, "")
	var are prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &are)
}

func TestCollector_WithCursor(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg, "")
	require.NoError(t, err)

	cur, err := pagecursor.New(testutil.NewVideoSource(20),
		pagecursor.WithPageSize(5),
		pagecursor.WithReloadPolicy(pagecursor.PrefetchReload{}),
		pagecursor.WithMetricsCollector(c),
	)
	require.NoError(t, err)
	defer cur.Close()

	for cur.MoveToNext() {
	}

	stats := cur.Stats()
	assert.InDelta(t, float64(stats.PageLoads), promtest.ToFloat64(c.pageLoads.WithLabelValues("success")), 0)
	assert.InDelta(t, 20, promtest.ToFloat64(c.rowsFetched), 0)
	assert.InDelta(t, 20, promtest.ToFloat64(c.moves), 0)
	assert.Equal(t, 6, promtest.CollectAndCount(c.pageLoads)+promtest.CollectAndCount(c.pageLoadTime)+promtest.CollectAndCount(c.rowsFetched)+promtest.CollectAndCount(c.rowsSkipped)+promtest.CollectAndCount(c.moves)+promtest.CollectAndCount(c.reloads))
}

package testutil

import "github.com/hupe1980/pagecursor/rowsource"

// positioner is implemented by sources that expose their current row.
type positioner interface {
	Position() int
}

// CountingSource wraps a source and counts how it is driven.
type CountingSource struct {
	rowsource.Source

	pos       int
	positions int
	steps     int
	reads     map[int]int
}

// NewCountingSource wraps inner.
func NewCountingSource(inner rowsource.Source) *CountingSource {
	return &CountingSource{Source: inner, pos: -1, reads: make(map[int]int)}
}

// MoveToPosition implements rowsource.Source.
func (c *CountingSource) MoveToPosition(row int) bool {
	c.positions++
	ok := c.Source.MoveToPosition(row)
	c.pos = row
	return ok
}

// MoveToNext implements rowsource.Source.
func (c *CountingSource) MoveToNext() bool {
	c.steps++
	ok := c.Source.MoveToNext()
	c.pos++
	return ok
}

// GetBlob implements rowsource.Source.
func (c *CountingSource) GetBlob(col int) []byte { c.read(); return c.Source.GetBlob(col) }

// GetFloat implements rowsource.Source.
func (c *CountingSource) GetFloat(col int) float64 { c.read(); return c.Source.GetFloat(col) }

// GetInt implements rowsource.Source.
func (c *CountingSource) GetInt(col int) int64 { c.read(); return c.Source.GetInt(col) }

// GetString implements rowsource.Source.
func (c *CountingSource) GetString(col int) string { c.read(); return c.Source.GetString(col) }

func (c *CountingSource) read() {
	pos := c.pos
	if p, ok := c.Source.(positioner); ok {
		pos = p.Position()
	}
	c.reads[pos]++
}

// Positions returns the number of MoveToPosition calls.
func (c *CountingSource) Positions() int { return c.positions }

// Steps returns the number of MoveToNext calls.
func (c *CountingSource) Steps() int { return c.steps }

// Reads returns the number of getter calls made while positioned on row.
func (c *CountingSource) Reads(row int) int { return c.reads[row] }

// TotalReads returns the number of getter calls.
func (c *CountingSource) TotalReads() int {
	n := 0
	for _, v := range c.reads {
		n += v
	}
	return n
}

// ResetCounts zeroes all counters.
func (c *CountingSource) ResetCounts() {
	c.positions, c.steps = 0, 0
	clear(c.reads)
}

// FailingSource wraps a source that cannot be positioned on FailAt or beyond.
type FailingSource struct {
	rowsource.Source

	FailAt int
	Cause  error

	pos int
	err error
}

// NewFailingSource wraps inner so that reaching row failAt fails with cause.
func NewFailingSource(inner rowsource.Source, failAt int, cause error) *FailingSource {
	return &FailingSource{Source: inner, FailAt: failAt, Cause: cause, pos: -1}
}

// MoveToPosition implements rowsource.Source.
func (f *FailingSource) MoveToPosition(row int) bool {
	f.pos = row
	if row >= f.FailAt && row < f.Source.RowCount() {
		f.err = f.Cause
		return false
	}
	f.err = nil
	return f.Source.MoveToPosition(row)
}

// MoveToNext implements rowsource.Source.
func (f *FailingSource) MoveToNext() bool {
	return f.MoveToPosition(f.pos + 1)
}

// Err implements rowsource.Source.
func (f *FailingSource) Err() error {
	if f.err != nil {
		return f.err
	}
	return f.Source.Err()
}

// Package pager fills the cache store one page at a time.
package pager

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/pagecursor/internal/colstore"
	"github.com/hupe1980/pagecursor/internal/schema"
	"github.com/hupe1980/pagecursor/rowsource"
)

var (
	// ErrInvalidPageSize is returned for a page size below one.
	ErrInvalidPageSize = errors.New("page size must be at least 1")
	// ErrStartOutOfRange is returned when a load starts outside [0, RowCount).
	ErrStartOutOfRange = errors.New("load start out of range")
	// ErrSourceExhausted is returned when the source cannot reach a row it reported.
	ErrSourceExhausted = errors.New("source cannot reach row")
)

// Page describes one forward sweep.
type Page struct {
	// Start is the first row of the window.
	Start int
	// End is one past the last row of the window.
	End int
	// Fetched counts rows read from the source and committed.
	Fetched int
	// Skipped counts rows that were already cached.
	Skipped int
	// Duration is the wall time of the sweep.
	Duration time.Duration
}

// Stopped returns the first row the sweep did not cover: End after a complete
// sweep, the failing row otherwise.
func (p Page) Stopped() int { return p.Start + p.Fetched + p.Skipped }

// Len returns the number of rows in the window.
func (p Page) Len() int { return p.End - p.Start }

// Loader reads windows of rows from a source into a store.
type Loader struct {
	src      rowsource.Source
	store    *colstore.Store
	schema   *schema.Schema
	pageSize int
	buf      *colstore.RowBuffer

	highWater int
}

// New creates a loader. The high-water mark starts at -1.
func New(src rowsource.Source, store *colstore.Store, pageSize int) (*Loader, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	return &Loader{
		src:       src,
		store:     store,
		schema:    store.Schema(),
		pageSize:  pageSize,
		buf:       store.NewRowBuffer(),
		highWater: -1,
	}, nil
}

// PageSize returns the number of rows per sweep.
func (l *Loader) PageSize() int { return l.pageSize }

// HighWaterMark returns the last row of the most recent window, or -1 before
// the first load.
func (l *Loader) HighWaterMark() int { return l.highWater }

// LoadFrom sweeps forward over the window [start, min(start+PageSize, RowCount))
// and commits every row that is not cached yet. The source is positioned on the
// first uncached row of the window and stepped from there; cached rows are
// stepped over, never re-read. A fully cached window does not touch the source.
//
// On success the high-water mark becomes the last row of the window. If the
// source fails part way, the rows committed so far stay cached, the row being
// read is discarded and the high-water mark is set to the last row completed
// in this sweep.
func (l *Loader) LoadFrom(start int) (Page, error) {
	rows := l.schema.RowCount()
	if start < 0 || start >= rows {
		return Page{Start: start, End: start}, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, start, rows)
	}

	began := time.Now()
	page := Page{Start: start, End: min(start+l.pageSize, rows)}

	// A sweep that stops on its first row proves nothing about the rows before
	// start, so the previous mark stands.
	fail := func(row int, err error) (Page, error) {
		if row > start {
			l.highWater = row - 1
		}
		page.Duration = time.Since(began)
		return page, err
	}

	// Leading cached rows need no source access at all.
	first := start
	for first < page.End && l.store.IsCached(first) {
		first++
	}
	page.Skipped = first - start
	if first == page.End {
		l.highWater = page.End - 1
		page.Duration = time.Since(began)
		return page, nil
	}

	if !l.src.MoveToPosition(first) {
		return fail(first, l.sourceErr(first))
	}

	for row := first; row < page.End; row++ {
		if row > first && !l.src.MoveToNext() {
			return fail(row, l.sourceErr(row))
		}

		if l.store.IsCached(row) {
			page.Skipped++
			continue
		}

		l.fill()
		if err := l.store.Commit(row, l.buf); err != nil {
			return fail(row, err)
		}
		page.Fetched++
	}

	l.highWater = page.End - 1
	page.Duration = time.Since(began)
	return page, nil
}

// fill reads the current source row into the buffer, dispatching on the
// declared type of each column.
func (l *Loader) fill() {
	l.buf.Reset()
	for col := range l.schema.ColumnCount() {
		slot := l.schema.Slot(col)
		switch l.schema.Family(col) {
		case schema.FamilyBlob:
			l.buf.SetBlob(slot, l.src.GetBlob(col))
		case schema.FamilyFloat:
			l.buf.SetFloat(slot, l.src.GetFloat(col))
		case schema.FamilyInteger:
			l.buf.SetInt(slot, l.src.GetInt(col))
		case schema.FamilyString:
			l.buf.SetString(slot, l.src.GetString(col))
		}
	}
}

func (l *Loader) sourceErr(row int) error {
	if err := l.src.Err(); err != nil {
		return fmt.Errorf("%w %d: %w", ErrSourceExhausted, row, err)
	}
	return fmt.Errorf("%w %d", ErrSourceExhausted, row)
}

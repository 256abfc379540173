package pagecursor

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pagecursor/internal/colstore"
	"github.com/hupe1980/pagecursor/internal/conv"
	"github.com/hupe1980/pagecursor/internal/pager"
	"github.com/hupe1980/pagecursor/internal/schema"
	"github.com/hupe1980/pagecursor/rowsource"
)

// Cursor gives random access to the rows of a sequential source through a
// windowed, type-partitioned cache.
//
// A Cursor is not safe for concurrent use.
type Cursor struct {
	src    rowsource.Source
	schema *schema.Schema
	store  *colstore.Store
	loader *pager.Loader

	policy  ReloadPolicy
	logger  *Logger
	metrics MetricsCollector

	pos     int
	err     error // last failure of OnMove
	loadErr error // cause of the last failed page load, cleared by a complete one
	stats   Stats
	closed  bool
}

// New inspects src, allocates the cache store and loads the first page.
//
// The cursor keeps a reference to src for later pages; it does not close it.
func New(src rowsource.Source, optFns ...Option) (*Cursor, error) {
	if src == nil {
		return nil, ErrNoSource
	}

	o := applyOptions(optFns)
	if o.pageSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, o.pageSize)
	}

	s, err := schema.Inspect(src)
	if err != nil {
		o.logger.LogSchema(0, 0, err)
		return nil, translateError(err)
	}
	o.logger.LogSchema(s.RowCount(), s.ColumnCount(), nil)

	store, err := colstore.New(s, o.rc)
	if err != nil {
		return nil, err
	}

	loader, err := pager.New(src, store, o.pageSize)
	if err != nil {
		store.Release()
		return nil, translateError(err)
	}

	c := &Cursor{
		src:     src,
		schema:  s,
		store:   store,
		loader:  loader,
		policy:  o.policy,
		logger:  o.logger.WithPageSize(o.pageSize),
		metrics: o.metricsCollector,
		pos:     -1,
	}

	if s.RowCount() > 0 {
		if err := c.load(0); err != nil {
			store.Release()
			return nil, fmt.Errorf("initial page load: %w", err)
		}
	}

	return c, nil
}

// RowCount returns the number of rows, fixed at construction.
func (c *Cursor) RowCount() int { return c.schema.RowCount() }

// ColumnCount returns the number of columns.
func (c *Cursor) ColumnCount() int { return c.schema.ColumnCount() }

// ColumnNames returns a copy of the column names.
func (c *Cursor) ColumnNames() []string { return c.schema.Names() }

// ColumnName returns the name of column col.
func (c *Cursor) ColumnName(col int) (string, error) {
	if err := c.checkColumn(col); err != nil {
		return "", err
	}
	return c.schema.Name(col), nil
}

// ColumnIndex returns the index of the first column named name, or -1.
func (c *Cursor) ColumnIndex(name string) int { return c.schema.Index(name) }

// ColumnIndexOrErr returns the index of the column named name or ErrColumnNotFound.
func (c *Cursor) ColumnIndexOrErr(name string) (int, error) {
	if i := c.schema.Index(name); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// ColumnType returns the declared type of column col.
func (c *Cursor) ColumnType(col int) (ColumnType, error) {
	if err := c.checkColumn(col); err != nil {
		return TypeNull, err
	}
	return c.schema.Type(col), nil
}

// OnMove is the repositioning hook. It must run before rows at newPos are read;
// the Move* methods call it for you.
//
// It returns false, and leaves the position unchanged, when the cursor is
// closed or newPos is not a row. Otherwise it consults the reload policy, loads
// a page starting at newPos if asked to, moves to newPos and returns true. A
// failed page load does not fail the move: it is reported by Err and by reads
// of the rows it could not cache.
func (c *Cursor) OnMove(oldPos, newPos int) bool {
	c.err = nil
	if c.closed {
		c.err = ErrClosed
		return false
	}
	if rows := c.RowCount(); newPos < 0 || newPos >= rows {
		c.err = &ErrIndexOutOfRange{What: "row", Index: newPos, Len: rows}
		return false
	}

	m := Move{
		Old:       oldPos,
		New:       newPos,
		HighWater: c.loader.HighWaterMark(),
		RowCount:  c.RowCount(),
		PageSize:  c.loader.PageSize(),
	}

	reload := c.policy.ShouldReload(m)
	switch {
	case reload:
		c.stats.Reloads++
		c.logger.LogReload(oldPos, newPos, m.HighWater, "policy")
	case !c.store.IsCached(newPos):
		reload = true
		c.stats.DemandLoads++
		c.logger.LogReload(oldPos, newPos, m.HighWater, "not cached")
	}

	c.stats.Moves++
	c.metrics.RecordMove(reload)

	if reload {
		if err := c.load(newPos); err != nil {
			c.err = err
		}
	}

	c.pos = newPos
	return true
}

func (c *Cursor) load(start int) error {
	page, err := c.loader.LoadFrom(start)

	c.stats.PageLoads++
	c.stats.RowsFetched += page.Fetched
	c.stats.RowsSkipped += page.Skipped
	if err != nil {
		c.stats.PageLoadErrors++
		c.loadErr = err
	} else {
		c.loadErr = nil
	}

	c.metrics.RecordPageLoad(page.Fetched, page.Skipped, page.Duration, err)
	logger := c.logger
	if err != nil {
		logger = logger.WithRow(page.Stopped())
	}
	logger.LogPageLoad(page.Start, page.End, page.Fetched, page.Skipped, err)
	return err
}

// Position returns the current position: -1 before the first row, RowCount
// after the last.
func (c *Cursor) Position() int { return c.pos }

// MoveToPosition moves to row and reports whether the cursor is on a row.
//
// Positions outside [0, RowCount) clamp to -1 or RowCount. Moving to the
// current position returns true without calling OnMove.
func (c *Cursor) MoveToPosition(row int) bool {
	if c.closed {
		return false
	}

	rows := c.RowCount()
	if row >= rows {
		c.pos = rows
		return false
	}
	if row < 0 {
		c.pos = -1
		return false
	}
	if row == c.pos {
		return true
	}

	if !c.OnMove(c.pos, row) {
		c.pos = -1
		return false
	}
	return true
}

// Move moves the cursor by offset rows relative to the current position.
func (c *Cursor) Move(offset int) bool { return c.MoveToPosition(c.pos + offset) }

// MoveToFirst moves to the first row.
func (c *Cursor) MoveToFirst() bool { return c.MoveToPosition(0) }

// MoveToLast moves to the last row.
func (c *Cursor) MoveToLast() bool { return c.MoveToPosition(c.RowCount() - 1) }

// MoveToNext moves to the next row.
func (c *Cursor) MoveToNext() bool { return c.MoveToPosition(c.pos + 1) }

// MoveToPrevious moves to the previous row.
func (c *Cursor) MoveToPrevious() bool { return c.MoveToPosition(c.pos - 1) }

// IsFirst reports whether the cursor is on the first row.
func (c *Cursor) IsFirst() bool { return c.pos == 0 && c.RowCount() != 0 }

// IsLast reports whether the cursor is on the last row.
func (c *Cursor) IsLast() bool {
	rows := c.RowCount()
	return c.pos == rows-1 && rows != 0
}

// IsBeforeFirst reports whether the cursor is before the first row.
func (c *Cursor) IsBeforeFirst() bool { return c.RowCount() == 0 || c.pos == -1 }

// IsAfterLast reports whether the cursor is after the last row.
func (c *Cursor) IsAfterLast() bool {
	rows := c.RowCount()
	return rows == 0 || c.pos == rows
}

// GetBlob returns the blob in column col of the current row. The slice is
// shared with the cache and must not be modified.
func (c *Cursor) GetBlob(col int) ([]byte, error) {
	slot, null, err := c.slot(col, TypeBlob)
	if err != nil || null {
		return nil, err
	}
	return c.store.Blob(c.pos, slot), nil
}

// GetDouble returns the float in column col of the current row.
func (c *Cursor) GetDouble(col int) (float64, error) {
	slot, null, err := c.slot(col, TypeFloat)
	if err != nil || null {
		return 0, err
	}
	return c.store.Float(c.pos, slot), nil
}

// GetFloat returns the float in column col of the current row as a float32.
func (c *Cursor) GetFloat(col int) (float32, error) {
	v, err := c.GetDouble(col)
	return float32(v), err
}

// GetLong returns the integer in column col of the current row.
func (c *Cursor) GetLong(col int) (int64, error) {
	slot, null, err := c.slot(col, TypeInteger)
	if err != nil || null {
		return 0, err
	}
	return c.store.Int(c.pos, slot), nil
}

// GetInt returns the integer in column col of the current row as an int32.
// Values outside the int32 range fail with *ErrOverflow.
func (c *Cursor) GetInt(col int) (int32, error) {
	v, err := c.GetLong(col)
	if err != nil {
		return 0, err
	}
	n, err := conv.Int64ToInt32(v)
	if err != nil {
		return 0, &ErrOverflow{Column: col, Value: v, Target: "int32", cause: err}
	}
	return n, nil
}

// GetShort returns the integer in column col of the current row as an int16.
// Values outside the int16 range fail with *ErrOverflow.
func (c *Cursor) GetShort(col int) (int16, error) {
	v, err := c.GetLong(col)
	if err != nil {
		return 0, err
	}
	n, err := conv.Int64ToInt16(v)
	if err != nil {
		return 0, &ErrOverflow{Column: col, Value: v, Target: "int16", cause: err}
	}
	return n, nil
}

// GetString returns the string in column col of the current row.
func (c *Cursor) GetString(col int) (string, error) {
	slot, null, err := c.slot(col, TypeString)
	if err != nil || null {
		return "", err
	}
	return c.store.String(c.pos, slot), nil
}

// IsNull reports whether column col is declared Null.
func (c *Cursor) IsNull(col int) (bool, error) {
	if err := c.checkRow(); err != nil {
		return false, err
	}
	if err := c.checkColumn(col); err != nil {
		return false, err
	}
	return c.schema.Type(col) == TypeNull, nil
}

// slot validates a typed read of col at the current row. A column declared
// Null reads as the zero value of every getter.
func (c *Cursor) slot(col int, want ColumnType) (slot int, null bool, err error) {
	if err := c.checkRow(); err != nil {
		return 0, false, err
	}
	if err := c.checkColumn(col); err != nil {
		return 0, false, err
	}
	if !c.store.IsCached(c.pos) {
		if c.loadErr != nil {
			return 0, false, fmt.Errorf("%w: row %d: %w", ErrRowNotCached, c.pos, c.loadErr)
		}
		return 0, false, fmt.Errorf("%w: row %d", ErrRowNotCached, c.pos)
	}

	declared := c.schema.Type(col)
	if declared == TypeNull {
		return 0, true, nil
	}
	if declared != want {
		return 0, false, &ErrTypeMismatch{Column: col, Name: c.schema.Name(col), Declared: declared, Requested: want}
	}
	return c.schema.Slot(col), false, nil
}

func (c *Cursor) checkRow() error {
	if c.closed {
		return ErrClosed
	}
	if c.pos < 0 || c.pos >= c.RowCount() {
		return fmt.Errorf("%w: position %d", ErrNotOnRow, c.pos)
	}
	return nil
}

func (c *Cursor) checkColumn(col int) error {
	if n := c.ColumnCount(); col < 0 || col >= n {
		return &ErrIndexOutOfRange{What: "column", Index: col, Len: n}
	}
	return nil
}

// IsCached reports whether row has been loaded.
func (c *Cursor) IsCached(row int) bool { return c.store.IsCached(row) }

// HighWaterMark returns the last row of the most recently loaded window, or -1.
func (c *Cursor) HighWaterMark() int { return c.loader.HighWaterMark() }

// CachedRows returns a snapshot of the loaded rows.
func (c *Cursor) CachedRows() *roaring.Bitmap { return c.store.Snapshot() }

// Stats returns a snapshot of cursor activity.
func (c *Cursor) Stats() Stats {
	s := c.stats
	s.CachedRows = c.store.CachedCount()
	s.MemoryBytes = c.store.MemoryUsage()
	return s
}

// Err returns the failure of the most recent OnMove: a rejected position, a
// closed cursor or a page load that stopped early. It is nil after a clean move.
func (c *Cursor) Err() error { return c.err }

// Close releases the cache and the memory charged for it. It does not close
// the source. Close is idempotent.
func (c *Cursor) Close() error {
	if c.closed {
		return nil
	}
	c.logger.LogClose(c.Stats())
	c.closed = true
	c.store.Release()
	return nil
}

// IsClosed reports whether Close has been called.
func (c *Cursor) IsClosed() bool { return c.closed }

// Columns returns (name, type) pairs in column order.
func (c *Cursor) Columns() []Column {
	cols := make([]Column, c.ColumnCount())
	for i := range cols {
		cols[i] = Column{Name: c.schema.Name(i), Type: c.schema.Type(i)}
	}
	return cols
}

// Column is the name and declared type of one column.
type Column struct {
	Name string
	Type ColumnType
}

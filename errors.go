package pagecursor

import (
	"errors"
	"fmt"

	"github.com/hupe1980/pagecursor/internal/pager"
	"github.com/hupe1980/pagecursor/internal/schema"
)

var (
	// ErrClosed is returned when the cursor is closed.
	ErrClosed = errors.New("cursor is closed")

	// ErrNoSource is returned when New is called with a nil source.
	ErrNoSource = errors.New("source is nil")

	// ErrNoColumns is returned when a source has rows but no columns.
	ErrNoColumns = errors.New("source has rows but no columns")

	// ErrColumnNamesMismatch is returned when the column names disagree with the column count.
	ErrColumnNamesMismatch = errors.New("column names do not match column count")

	// ErrInvalidPageSize is returned for a page size below one.
	ErrInvalidPageSize = errors.New("page size must be at least 1")

	// ErrNotOnRow is returned when reading while the cursor is before the first
	// or after the last row.
	ErrNotOnRow = errors.New("cursor is not positioned on a row")

	// ErrRowNotCached is returned when reading a row that has not been loaded.
	ErrRowNotCached = errors.New("row is not cached")

	// ErrColumnNotFound is returned when no column has the requested name.
	ErrColumnNotFound = errors.New("column not found")
)

// ErrIndexOutOfRange indicates a row or column index outside its bounds.
type ErrIndexOutOfRange struct {
	What  string // "row" or "column"
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

// ErrTypeMismatch indicates a typed read of a column declared with another type.
type ErrTypeMismatch struct {
	Column    int
	Name      string
	Declared  ColumnType
	Requested ColumnType
}

func (e *ErrTypeMismatch) Error() string {
	return fmt.Sprintf("column %d (%s) is %s, not %s", e.Column, e.Name, e.Declared, e.Requested)
}

// ErrOverflow indicates a cached integer that does not fit the requested width.
//
// The underlying error can be accessed via errors.Unwrap.
type ErrOverflow struct {
	Column int
	Value  int64
	Target string
	cause  error
}

func (e *ErrOverflow) Error() string {
	return fmt.Sprintf("column %d: value %d overflows %s", e.Column, e.Value, e.Target)
}

func (e *ErrOverflow) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, schema.ErrNoColumns):
		return fmt.Errorf("%w: %w", ErrNoColumns, err)
	case errors.Is(err, schema.ErrNamesMismatch):
		return fmt.Errorf("%w: %w", ErrColumnNamesMismatch, err)
	case errors.Is(err, pager.ErrInvalidPageSize):
		return fmt.Errorf("%w: %w", ErrInvalidPageSize, err)
	}

	return err
}

// Package sqlsource exposes a database/sql query result as a rowsource.Source.
//
// The result is read forward with *sql.Rows. Moving backwards re-executes the
// query and steps forward again, so the query must return the same rows in the
// same order every time it runs (use ORDER BY).
package sqlsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hupe1980/pagecursor/rowsource"
)

var (
	// ErrClosed is returned when a closed source is positioned.
	ErrClosed = errors.New("sql source closed")
	// ErrShortResult is returned when the result ends before the counted row count.
	ErrShortResult = errors.New("result shorter than counted")
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Source is a positionable view of one query result.
//
// The context passed to New bounds every query the source issues, including
// the re-executions triggered by backward moves.
type Source struct {
	ctx   context.Context
	q     Queryer
	query string
	args  []any

	count int
	names []string

	rows   *sql.Rows
	pos    int
	values []any
	dest   []any

	executions int
	err        error
	closed     bool
}

var _ rowsource.Source = (*Source)(nil)

// New counts the rows of query, executes it and returns a source positioned
// before the first row.
func New(ctx context.Context, q Queryer, query string, args ...any) (*Source, error) {
	s := &Source{
		ctx:   ctx,
		q:     q,
		query: query,
		args:  args,
		pos:   -1,
	}

	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS q"
	if err := q.QueryRowContext(ctx, countQuery, args...).Scan(&s.count); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	if err := s.execute(); err != nil {
		return nil, err
	}

	names, err := s.rows.Columns()
	if err != nil {
		_ = s.rows.Close()
		return nil, fmt.Errorf("read columns: %w", err)
	}
	s.names = names
	s.values = make([]any, len(names))
	s.dest = make([]any, len(names))
	for i := range s.values {
		s.dest[i] = &s.values[i]
	}

	return s, nil
}

func (s *Source) execute() error {
	if s.rows != nil {
		_ = s.rows.Close()
		s.rows = nil
	}

	rows, err := s.q.QueryContext(s.ctx, s.query, s.args...)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}
	s.rows = rows
	s.pos = -1
	s.executions++
	return nil
}

// reset drops the result set after a failed step. The next move re-executes
// the query, so no row is ever served from values that were not scanned.
func (s *Source) reset() {
	_ = s.rows.Close()
	s.rows = nil
	s.pos = -1
}

// RowCount implements rowsource.Source.
func (s *Source) RowCount() int { return s.count }

// ColumnCount implements rowsource.Source.
func (s *Source) ColumnCount() int { return len(s.names) }

// ColumnNames implements rowsource.Source.
func (s *Source) ColumnNames() []string { return append([]string(nil), s.names...) }

// Executions returns how many times the query has been executed.
func (s *Source) Executions() int { return s.executions }

// MoveToPosition implements rowsource.Source.
func (s *Source) MoveToPosition(row int) bool {
	s.err = nil
	switch {
	case s.closed:
		s.err = ErrClosed
		return false
	case row < 0:
		return false
	case row >= s.count:
		return false
	case row == s.pos && s.rows != nil:
		return true
	}

	if row < s.pos || s.rows == nil {
		if err := s.execute(); err != nil {
			s.err = err
			return false
		}
	}

	for s.pos < row {
		if !s.rows.Next() {
			if err := s.rows.Err(); err != nil {
				s.err = fmt.Errorf("advance to row %d: %w", s.pos+1, err)
			} else {
				s.err = fmt.Errorf("%w: row %d of %d", ErrShortResult, s.pos+1, s.count)
			}
			s.reset()
			return false
		}
		s.pos++
	}

	if err := s.rows.Scan(s.dest...); err != nil {
		s.err = fmt.Errorf("scan row %d: %w", row, err)
		s.reset()
		return false
	}
	return true
}

// MoveToNext implements rowsource.Source.
func (s *Source) MoveToNext() bool { return s.MoveToPosition(s.pos + 1) }

// Type implements rowsource.Source.
func (s *Source) Type(col int) rowsource.ColumnType { return rowsource.TypeOf(s.value(col)) }

// GetBlob implements rowsource.Source.
func (s *Source) GetBlob(col int) []byte { return rowsource.AsBlob(s.value(col)) }

// GetFloat implements rowsource.Source.
func (s *Source) GetFloat(col int) float64 { return rowsource.AsFloat(s.value(col)) }

// GetInt implements rowsource.Source.
func (s *Source) GetInt(col int) int64 { return rowsource.AsInt(s.value(col)) }

// GetString implements rowsource.Source.
func (s *Source) GetString(col int) string { return rowsource.AsString(s.value(col)) }

// Err implements rowsource.Source.
func (s *Source) Err() error { return s.err }

// Close closes the open result set. It is idempotent.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.rows == nil {
		return nil
	}
	err := s.rows.Close()
	s.rows = nil
	return err
}

func (s *Source) value(col int) any {
	if s.rows == nil || s.pos < 0 || col < 0 || col >= len(s.values) {
		return nil
	}
	return s.values[col]
}

// Package arrowsource exposes Arrow tables and Parquet files as a
// rowsource.Source.
//
// Arrow columns map to column types as follows: signed and unsigned integers
// and booleans are Integer, float16/32/64 are Float, (large/view) strings are
// String, (large/view/fixed-size) binaries are Blob and nulls are Null. Any
// other Arrow type (timestamps, decimals, lists, structs) reads as its String
// rendering.
package arrowsource

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/hupe1980/pagecursor/rowsource"
)

type column struct {
	chunks []arrow.Array
	starts []int // global row of the first element of each chunk

	chunk int // chunk holding the current row
	local int // index of the current row inside chunk
}

// Source is a random-access view of an Arrow table.
type Source struct {
	tbl   arrow.Table
	names []string
	cols  []column
	rows  int
	pos   int
}

var _ rowsource.Source = (*Source)(nil)

// NewFromTable wraps tbl. The source retains tbl until Close.
func NewFromTable(tbl arrow.Table) *Source {
	tbl.Retain()

	n := int(tbl.NumCols())
	s := &Source{
		tbl:   tbl,
		names: make([]string, n),
		cols:  make([]column, n),
		rows:  int(tbl.NumRows()),
		pos:   -1,
	}

	for i := range n {
		s.names[i] = tbl.Schema().Field(i).Name

		chunks := tbl.Column(i).Data().Chunks()
		starts := make([]int, len(chunks))
		off := 0
		for j, c := range chunks {
			starts[j] = off
			off += c.Len()
		}
		s.cols[i] = column{chunks: chunks, starts: starts}
	}

	return s
}

// NewFromRecords assembles recs into a table and wraps it.
func NewFromRecords(schema *arrow.Schema, recs []arrow.Record) *Source {
	tbl := array.NewTableFromRecords(schema, recs)
	defer tbl.Release()
	return NewFromTable(tbl)
}

// Table returns the wrapped table without retaining it.
func (s *Source) Table() arrow.Table { return s.tbl }

// Close releases the table. It is idempotent.
func (s *Source) Close() error {
	if s.tbl != nil {
		s.tbl.Release()
		s.tbl = nil
		s.cols = nil
	}
	return nil
}

// RowCount implements rowsource.Source.
func (s *Source) RowCount() int { return s.rows }

// ColumnCount implements rowsource.Source.
func (s *Source) ColumnCount() int { return len(s.names) }

// ColumnNames implements rowsource.Source.
func (s *Source) ColumnNames() []string { return append([]string(nil), s.names...) }

// Position returns the current row.
func (s *Source) Position() int { return s.pos }

// MoveToPosition implements rowsource.Source.
func (s *Source) MoveToPosition(row int) bool {
	switch {
	case s.tbl == nil:
		return false
	case row < 0:
		s.pos = -1
		return false
	case row >= s.rows:
		s.pos = s.rows
		return false
	}

	for i := range s.cols {
		c := &s.cols[i]
		j := sort.Search(len(c.starts), func(k int) bool { return c.starts[k] > row }) - 1
		for c.chunks[j].Len() == 0 {
			j++
		}
		c.chunk, c.local = j, row-c.starts[j]
	}
	s.pos = row
	return true
}

// MoveToNext implements rowsource.Source.
func (s *Source) MoveToNext() bool {
	if s.tbl == nil || s.pos+1 >= s.rows || s.pos < 0 {
		return s.MoveToPosition(s.pos + 1)
	}

	for i := range s.cols {
		c := &s.cols[i]
		c.local++
		for c.local >= c.chunks[c.chunk].Len() {
			c.chunk++
			c.local = 0
		}
	}
	s.pos++
	return true
}

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

// Err implements rowsource.Source. An in-memory table never fails to position.
func (s *Source) Err() error { return nil }

// value returns the current cell as a Go scalar: int64, uint64, bool, float64,
// string, []byte or nil. Byte slices alias Arrow buffers.
func (s *Source) value(col int) any {
	if s.tbl == nil || s.pos < 0 || s.pos >= s.rows || col < 0 || col >= len(s.cols) {
		return nil
	}
	c := &s.cols[col]
	arr, i := c.chunks[c.chunk], c.local
	if arr.IsNull(i) {
		return nil
	}

	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Float16:
		return float64(a.Value(i).Float32())
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.StringView:
		return a.Value(i)
	case *array.Binary:
		return a.Value(i)
	case *array.LargeBinary:
		return a.Value(i)
	case *array.BinaryView:
		return a.Value(i)
	case *array.FixedSizeBinary:
		return a.Value(i)
	case *array.Null:
		return nil
	default:
		return arr.ValueStr(i)
	}
}

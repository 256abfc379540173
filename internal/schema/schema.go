// Package schema inspects a row source once and records, per column, its
// declared type and its slot in the type-partitioned cache store.
package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hupe1980/pagecursor/rowsource"
)

var (
	// ErrNoColumns is returned when a source has rows but no columns.
	ErrNoColumns = errors.New("source has rows but no columns")
	// ErrNamesMismatch is returned when the column name list disagrees with the column count.
	ErrNamesMismatch = errors.New("column names do not match column count")
	// ErrProbe is returned when the source cannot be positioned on its first row.
	ErrProbe = errors.New("cannot position source on first row")
)

// Family is a storage partition of the cache store.
type Family uint8

const (
	FamilyBlob Family = iota
	FamilyFloat
	FamilyInteger
	FamilyString

	// NumFamilies is the number of stored families.
	NumFamilies = 4

	// FamilyNone marks columns whose values are not stored (declared Null).
	FamilyNone Family = 0xFF
)

// String returns the string representation of the Family.
func (f Family) String() string {
	switch f {
	case FamilyBlob:
		return "Blob"
	case FamilyFloat:
		return "Float"
	case FamilyInteger:
		return "Integer"
	case FamilyString:
		return "String"
	case FamilyNone:
		return "None"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// FamilyOf maps a column type to the partition that stores it.
func FamilyOf(t rowsource.ColumnType) Family {
	switch t {
	case rowsource.TypeBlob:
		return FamilyBlob
	case rowsource.TypeFloat:
		return FamilyFloat
	case rowsource.TypeInteger:
		return FamilyInteger
	case rowsource.TypeString:
		return FamilyString
	default:
		return FamilyNone
	}
}

// Schema is the immutable column layout of a source.
type Schema struct {
	rowCount int
	names    []string
	types    []rowsource.ColumnType
	families []Family
	slots    []int
	widths   [NumFamilies]int
}

// Inspect reads the row count, the column names and, from the first row, the
// type of every column. Slots are assigned consecutively per family in column
// order. An empty source yields a schema whose columns are all TypeNull.
//
// Inspect leaves the source positioned on its first row.
func Inspect(src rowsource.Source) (*Schema, error) {
	rows := src.RowCount()
	cols := src.ColumnCount()
	names := src.ColumnNames()

	if len(names) != cols {
		return nil, fmt.Errorf("%w: %d names for %d columns", ErrNamesMismatch, len(names), cols)
	}
	if rows > 0 && cols == 0 {
		return nil, fmt.Errorf("%w: %d rows", ErrNoColumns, rows)
	}

	s := &Schema{
		rowCount: rows,
		names:    slices.Clone(names),
		types:    make([]rowsource.ColumnType, cols),
		families: make([]Family, cols),
		slots:    make([]int, cols),
	}

	if rows > 0 && !src.MoveToPosition(0) {
		if err := src.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProbe, err)
		}
		return nil, ErrProbe
	}

	for i := range cols {
		t := rowsource.TypeNull
		if rows > 0 {
			t = src.Type(i)
		}
		f := FamilyOf(t)

		s.types[i] = t
		s.families[i] = f
		if f == FamilyNone {
			s.slots[i] = -1
			continue
		}
		s.slots[i] = s.widths[f]
		s.widths[f]++
	}

	return s, nil
}

// RowCount returns the number of rows fixed at inspection time.
func (s *Schema) RowCount() int { return s.rowCount }

// ColumnCount returns the number of columns.
func (s *Schema) ColumnCount() int { return len(s.names) }

// Names returns a copy of the column names.
func (s *Schema) Names() []string { return slices.Clone(s.names) }

// Name returns the name of column col. col must be in range.
func (s *Schema) Name(col int) string { return s.names[col] }

// Index returns the index of the first column named name, or -1.
func (s *Schema) Index(name string) int { return slices.Index(s.names, name) }

// Type returns the declared type of column col. col must be in range.
func (s *Schema) Type(col int) rowsource.ColumnType { return s.types[col] }

// Family returns the storage family of column col. col must be in range.
func (s *Schema) Family(col int) Family { return s.families[col] }

// Slot returns the family-local index of column col, or -1 for unstored columns.
func (s *Schema) Slot(col int) int { return s.slots[col] }

// Width returns the number of columns stored in family f.
func (s *Schema) Width(f Family) int {
	if f >= NumFamilies {
		return 0
	}
	return s.widths[f]
}

// Widths returns the per-family column counts.
func (s *Schema) Widths() [NumFamilies]int { return s.widths }

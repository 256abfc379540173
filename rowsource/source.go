package rowsource

import (
	"fmt"
)

// ColumnType is the scalar type of a value in a Source.
//
// The numeric values match the classic cursor field types and are stable.
type ColumnType uint8

const (
	TypeNull ColumnType = iota
	TypeInteger
	TypeFloat
	TypeString
	TypeBlob
)

// String returns the string representation of the ColumnType.
func (t ColumnType) String() string {
	switch t {
	case TypeNull:
		return "Null"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeString:
		return "String"
	case TypeBlob:
		return "Blob"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Source is a positionable tabular result set.
//
// Implementations are not required to be safe for concurrent use.
type Source interface {
	// RowCount returns the total number of rows.
	RowCount() int
	// ColumnCount returns the number of columns.
	ColumnCount() int
	// ColumnNames returns the column names in column order.
	ColumnNames() []string
	// Type returns the type of the value in column col at the current row.
	Type(col int) ColumnType

	// MoveToPosition moves to the given absolute row.
	// Returns false if the row is out of range or positioning failed.
	MoveToPosition(row int) bool
	// MoveToNext moves to the following row.
	// Returns false past the last row or if positioning failed.
	MoveToNext() bool

	// GetBlob returns the value of column col as bytes.
	GetBlob(col int) []byte
	// GetFloat returns the value of column col as a float64.
	GetFloat(col int) float64
	// GetInt returns the value of column col as an int64.
	GetInt(col int) int64
	// GetString returns the value of column col as a string.
	GetString(col int) string

	// Err returns the error, if any, that made the last move fail.
	Err() error
}

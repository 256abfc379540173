package rowsource

import (
	"errors"
	"fmt"
	"slices"
)

// ErrRowWidth is returned when a row does not have one value per column.
var ErrRowWidth = errors.New("row width does not match column count")

// Memory is an in-memory Source for tests and small fixtures.
//
// Values may be nil, any Go integer kind, bool, float32, float64, string,
// time.Time or []byte.
type Memory struct {
	names []string
	rows  [][]any
	pos   int
}

// NewMemory creates a Memory source over rows. Rows are not copied.
func NewMemory(names []string, rows [][]any) (*Memory, error) {
	for i, r := range rows {
		if len(r) != len(names) {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", i, len(r), len(names), ErrRowWidth)
		}
	}
	return &Memory{
		names: slices.Clone(names),
		rows:  rows,
		pos:   -1,
	}, nil
}

// RowCount implements Source.
func (m *Memory) RowCount() int { return len(m.rows) }

// ColumnCount implements Source.
func (m *Memory) ColumnCount() int { return len(m.names) }

// ColumnNames implements Source.
func (m *Memory) ColumnNames() []string { return slices.Clone(m.names) }

// Position returns the current row, -1 before the first row and RowCount after the last.
func (m *Memory) Position() int { return m.pos }

// MoveToPosition implements Source.
func (m *Memory) MoveToPosition(row int) bool {
	switch {
	case row < 0:
		m.pos = -1
		return false
	case row >= len(m.rows):
		m.pos = len(m.rows)
		return false
	}
	m.pos = row
	return true
}

// MoveToNext implements Source.
func (m *Memory) MoveToNext() bool {
	return m.MoveToPosition(m.pos + 1)
}

// Type implements Source.
func (m *Memory) Type(col int) ColumnType { return TypeOf(m.value(col)) }

// GetBlob implements Source.
func (m *Memory) GetBlob(col int) []byte { return AsBlob(m.value(col)) }

// GetFloat implements Source.
func (m *Memory) GetFloat(col int) float64 { return AsFloat(m.value(col)) }

// GetInt implements Source.
func (m *Memory) GetInt(col int) int64 { return AsInt(m.value(col)) }

// GetString implements Source.
func (m *Memory) GetString(col int) string { return AsString(m.value(col)) }

// Err implements Source. A Memory source never fails to position.
func (m *Memory) Err() error { return nil }

func (m *Memory) value(col int) any {
	if m.pos < 0 || m.pos >= len(m.rows) || col < 0 || col >= len(m.names) {
		return nil
	}
	return m.rows[m.pos][col]
}

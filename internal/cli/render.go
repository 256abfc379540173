package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hupe1980/pagecursor"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSONL = "jsonl"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	nullStyle   = cellStyle.Faint(true)
)

// renderTable writes rows as a bordered table.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && col < len(rows[row]) && rows[row][col] == nullText:
				return nullStyle
			default:
				return cellStyle
			}
		})
	_, err := fmt.Fprintln(w, t.String())
	return err
}

const nullText = "NULL"

// cellText renders the current row's value of col for a table.
func cellText(cur *pagecursor.Cursor, col int, typ pagecursor.ColumnType) (string, error) {
	switch typ {
	case pagecursor.TypeInteger:
		v, err := cur.GetLong(col)
		return strconv.FormatInt(v, 10), err
	case pagecursor.TypeFloat:
		v, err := cur.GetDouble(col)
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case pagecursor.TypeString:
		return cur.GetString(col)
	case pagecursor.TypeBlob:
		v, err := cur.GetBlob(col)
		return "x'" + hex.EncodeToString(v) + "'", err
	default:
		_, err := cur.IsNull(col)
		return nullText, err
	}
}

// cellValue returns the current row's value of col for JSON output.
func cellValue(cur *pagecursor.Cursor, col int, typ pagecursor.ColumnType) (any, error) {
	switch typ {
	case pagecursor.TypeInteger:
		return cur.GetLong(col)
	case pagecursor.TypeFloat:
		return cur.GetDouble(col)
	case pagecursor.TypeString:
		return cur.GetString(col)
	case pagecursor.TypeBlob:
		return cur.GetBlob(col)
	default:
		_, err := cur.IsNull(col)
		return nil, err
	}
}

// jsonRow is one JSONL record: the row position and its values by column name.
type jsonRow struct {
	Row    int            `json:"row"`
	Values map[string]any `json:"values"`
}

func writeJSONL(w io.Writer, rows []jsonRow) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func statsRows(s pagecursor.Stats) [][]string {
	return [][]string{
		{"page loads", strconv.Itoa(s.PageLoads)},
		{"page load errors", strconv.Itoa(s.PageLoadErrors)},
		{"rows fetched", strconv.Itoa(s.RowsFetched)},
		{"rows skipped", strconv.Itoa(s.RowsSkipped)},
		{"moves", strconv.Itoa(s.Moves)},
		{"reloads", strconv.Itoa(s.Reloads)},
		{"demand loads", strconv.Itoa(s.DemandLoads)},
		{"cached rows", strconv.Itoa(s.CachedRows)},
		{"memory bytes", strconv.FormatInt(s.MemoryBytes, 10)},
	}
}

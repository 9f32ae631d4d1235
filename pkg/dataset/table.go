package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Row is one record of a table.
type Row []any

// Table is one named partition of the data expected by a statbank table.
// The name is what the receiving service matches against its partition
// list, e.g. "delfil1.dat".
type Table struct {
	Name string

	// Columns is informational only; it is never sent.
	Columns []string

	Rows []Row
}

// New creates a table from rows.
func New(name string, rows ...Row) Table {
	return Table{Name: name, Rows: rows}
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Records renders every row to strings with missing values as "".
func (t Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = FormatCell(cell)
		}
		out[i] = rec
	}
	return out
}

// FormatCell renders a single cell value. Missing values become "".
func FormatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case *string:
		if c == nil {
			return ""
		}
		return *c
	case float64:
		return formatFloat(c, 64)
	case float32:
		return formatFloat(float64(c), 32)
	case *float64:
		if c == nil {
			return ""
		}
		return formatFloat(*c, 64)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case *int:
		if c == nil {
			return ""
		}
		return strconv.Itoa(*c)
	case *int64:
		if c == nil {
			return ""
		}
		return strconv.FormatInt(*c, 10)
	case bool:
		return strconv.FormatBool(c)
	case time.Time:
		if c.IsZero() {
			return ""
		}
		return c.Format("2006-01-02")
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

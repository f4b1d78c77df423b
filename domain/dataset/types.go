package dataset

import (
	"strings"
)

// Row maps a column name to its raw value: string, a Go numeric type,
// time.Time, bool or nil. Rows are owned by the caller and never mutated.
type Row map[string]any

// Table is an ordered set of rows with the column order of its source.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// IndexedValue is a parsed numeric value together with its row position.
type IndexedValue struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// IsEmptyValue reports whether a raw value is null or a blank string.
func IsEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// NonEmptyValues returns the column's non-empty raw values in row order.
func NonEmptyValues(rows []Row, column string) []any {
	values := make([]any, 0, len(rows))
	for _, row := range rows {
		v, ok := row[column]
		if !ok || IsEmptyValue(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// SelectColumns returns the distinct names of columns in first-seen order,
// capped at max entries when max > 0. A column selected twice is analyzed once.
func SelectColumns(columns []string, max int) []string {
	selected := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, name := range columns {
		if seen[name] {
			continue
		}
		if max > 0 && len(selected) == max {
			break
		}
		seen[name] = true
		selected = append(selected, name)
	}
	return selected
}

// HasColumn reports whether the table header lists the column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Head returns a table limited to the first n rows; n <= 0 means no limit.
func (t Table) Head(n int) Table {
	if n <= 0 || n >= len(t.Rows) {
		return t
	}
	return Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Values returns the indexed values slice as plain floats.
func Values(points []IndexedValue) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

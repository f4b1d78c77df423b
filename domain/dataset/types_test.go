package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectColumns(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		max     int
		want    []string
	}{
		{"distinct", []string{"a", "b", "c"}, 2, []string{"a", "b"}},
		{"repeated pair", []string{"sales", "sales"}, 2, []string{"sales"}},
		{"repeat before second", []string{"a", "a", "b", "c"}, 2, []string{"a", "b"}},
		{"no limit", []string{"a", "b", "a", "c"}, 0, []string{"a", "b", "c"}},
		{"empty", nil, 2, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectColumns(tt.columns, tt.max))
		})
	}
}

func TestTableHead(t *testing.T) {
	table := Table{
		Columns: []string{"v"},
		Rows:    []Row{{"v": 1}, {"v": 2}, {"v": 3}},
	}

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, 2, table.Head(2).Len())
	assert.Equal(t, Row{"v": 2}, table.Head(2).Rows[1])
	assert.Equal(t, 3, table.Head(0).Len())
	assert.Equal(t, 3, table.Head(10).Len())
	assert.Equal(t, []string{"v"}, table.Head(1).Columns)
}

func TestTableHasColumn(t *testing.T) {
	table := Table{Columns: []string{"region", "sales"}}

	assert.True(t, table.HasColumn("sales"))
	assert.False(t, table.HasColumn("profit"))
}

func TestNonEmptyValues(t *testing.T) {
	rows := []Row{{"a": "x"}, {"a": " "}, {"a": nil}, {}, {"a": 3.5}}
	assert.Equal(t, []any{"x", 3.5}, NonEmptyValues(rows, "a"))
}

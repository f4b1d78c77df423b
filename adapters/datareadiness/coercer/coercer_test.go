package coercer

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"chartsense/domain/dataset"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name  string
		value any
		want  float64
		ok    bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"json number", json.Number("3.25"), 3.25, true},
		{"plain string", " 42 ", 42, true},
		{"negative exponent", "-1.5e3", -1500, true},
		{"leading dot", ".5", 0.5, true},
		{"currency", "$1,234.50", 1234.5, true},
		{"percent", "12.5%", 12.5, true},
		{"accounting negative", "(300)", -300, true},
		{"thousands", "1,000,000", 1000000, true},
		{"bad thousands grouping", "1,00", 0, false},
		{"hex float rejected", "0x1p-2", 0, false},
		{"nan string", "NaN", 0, false},
		{"inf string", "Inf", 0, false},
		{"nan float", math.NaN(), 0, false},
		{"inf float", math.Inf(1), 0, false},
		{"word", "East", 0, false},
		{"trailing junk", "12abc", 0, false},
		{"date", "2024-01-05", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"blank", "   ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ParseNumeric(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name  string
		value any
		want  time.Time
		ok    bool
	}{
		{"iso", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"iso single digits", "2024-3-5", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"iso with time", "2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"us slash", "03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"us slash short", "3/5/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"us dash", "12-31-1999", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"year slash", "2020/1/2", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"impossible day", "2023-02-30", time.Time{}, false},
		{"month thirteen", "13/01/2020", time.Time{}, false},
		{"year 1900 excluded", "1900-06-01", time.Time{}, false},
		{"year 2100 excluded", "2100-06-01", time.Time{}, false},
		{"text", "yesterday", time.Time{}, false},
		{"number", 20240315, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ParseDate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			}
		})
	}

	native := time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC)
	got, ok := c.ParseDate(native)
	assert.True(t, ok)
	assert.Equal(t, native, got)
}

func TestToString(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	assert.Equal(t, "100", c.ToString(100))
	assert.Equal(t, "100", c.ToString(100.0))
	assert.Equal(t, "0.25", c.ToString(0.25))
	assert.Equal(t, "East", c.ToString("  East "))
	assert.Equal(t, "true", c.ToString(true))
	assert.Equal(t, "", c.ToString(nil))
}

func TestNumericPointsKeepRowPositions(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	rows := []dataset.Row{
		{"v": "10"},
		{"v": nil},
		{"v": "n/a"},
		{"other": 1},
		{"v": 500},
		{"v": 500.0},
	}

	points := c.NumericPoints(rows, "v")
	assert.Equal(t, []dataset.IndexedValue{
		{Index: 0, Value: 10},
		{Index: 4, Value: 500},
		{Index: 5, Value: 500},
	}, points)
}

// Package testkit provides deterministic fixture datasets for tests.
package testkit

import (
	"fmt"
	"time"

	"chartsense/domain/dataset"
)

// RegionSalesRows is the three-row region/sales comparison dataset.
func RegionSalesRows() []dataset.Row {
	return []dataset.Row{
		{"region": "East", "sales": 100},
		{"region": "West", "sales": 150},
		{"region": "East", "sales": 120},
	}
}

// TimeSeriesRows returns n rows with a strictly increasing ISO "date" and a
// "value" that starts at start and grows by step each row.
func TimeSeriesRows(n int, start, step float64) []dataset.Row {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{
			"date":  base.AddDate(0, 0, i).Format("2006-01-02"),
			"value": start + float64(i)*step,
		}
	}
	return rows
}

// SpikeValues is a small series with a single high outlier at position 5.
func SpikeValues() []float64 {
	return []float64{10, 12, 11, 13, 9, 500}
}

// NumericRows puts values into a single column, one row each.
func NumericRows(column string, values ...float64) []dataset.Row {
	rows := make([]dataset.Row, len(values))
	for i, v := range values {
		rows[i] = dataset.Row{column: v}
	}
	return rows
}

// DateValues returns n ISO dates of which the last invalid entries are
// replaced by non-date text.
func DateValues(n, invalid int) []any {
	base := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	values := make([]any, n)
	for i := range values {
		if i >= n-invalid {
			values[i] = fmt.Sprintf("note %d", i)
			continue
		}
		values[i] = base.AddDate(0, 0, i).Format("2006-01-02")
	}
	return values
}

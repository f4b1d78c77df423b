package primitives

import (
	"math"
	"math/rand"
	"testing"

	"chartsense/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyInputFails(t *testing.T) {
	fns := map[string]func([]float64) error{
		"mean":     func(xs []float64) error { _, err := Mean(xs); return err },
		"variance": func(xs []float64) error { _, err := Variance(xs); return err },
		"stddev":   func(xs []float64) error { _, err := StdDev(xs); return err },
		"min":      func(xs []float64) error { _, err := Min(xs); return err },
		"max":      func(xs []float64) error { _, err := Max(xs); return err },
		"quartile": func(xs []float64) error { _, err := CalculateQuartiles(xs); return err },
		"slope":    func(xs []float64) error { _, err := LinearTrendSlope(xs); return err },
		"summary":  func(xs []float64) error { _, err := Summarize(xs); return err },
		"iqr":      func(xs []float64) error { _, err := DetectOutliersIQR(xs, 1.5); return err },
	}

	for name, fn := range fns {
		t.Run(name, func(t *testing.T) {
			err := fn(nil)
			require.Error(t, err)
			assert.True(t, core.IsEmptyInputError(err), "expected ErrEmptyInput, got %v", err)
		})
	}
}

func TestMeanVarianceStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	mean, err := Mean(xs)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, mean, 1e-12)

	variance, err := Variance(xs)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, variance, 1e-12, "population variance divides by n")

	sd, err := StdDev(xs)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sd, 1e-12)
}

func TestQuartilesUseFloorSelection(t *testing.T) {
	q, err := CalculateQuartiles([]float64{500, 13, 9, 12, 11, 10})
	require.NoError(t, err)

	// sorted: 9 10 11 12 13 500 -> indices 1, 3, 4
	assert.Equal(t, 10.0, q.Q1)
	assert.Equal(t, 12.0, q.Median)
	assert.Equal(t, 13.0, q.Q3)
	assert.Equal(t, 3.0, q.IQR())

	single, err := CalculateQuartiles([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, Quartiles{Q1: 7, Median: 7, Q3: 7}, single)
}

func TestQuartilesDoNotMutateInput(t *testing.T) {
	xs := []float64{3, 1, 2, 5, 4}
	_, err := CalculateQuartiles(xs)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2, 5, 4}, xs)
}

func TestQuartilesOrderedProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 500; trial++ {
		n := 4 + rng.Intn(200)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = rng.NormFloat64()*100 + float64(rng.Intn(10))
		}

		q, err := CalculateQuartiles(xs)
		require.NoError(t, err)
		if q.Q1 > q.Median || q.Median > q.Q3 {
			t.Fatalf("trial %d: quartiles out of order: %+v", trial, q)
		}
	}
}

func TestLinearTrendSlope(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want float64
	}{
		{"increasing by five", []float64{100, 105, 110, 115, 120}, 5},
		{"flat", []float64{3, 3, 3, 3}, 0},
		{"decreasing", []float64{10, 8, 6, 4}, -2},
		{"too short", []float64{1, 100}, 0},
		{"single", []float64{42}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LinearTrendSlope(tt.xs)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestDetectOutliersIQRBoundProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		n := 5 + rng.Intn(100)
		xs := make([]float64, n)
		for i := range xs {
			xs[i] = rng.ExpFloat64() * 10
		}
		k := 1.0 + rng.Float64()*2.0

		positions, err := DetectOutliersIQR(xs, k)
		require.NoError(t, err)

		q, _ := CalculateQuartiles(xs)
		lower, upper := IQRBounds(q, k)

		flagged := make(map[int]bool, len(positions))
		for _, p := range positions {
			flagged[p] = true
			assert.True(t, xs[p] < lower || xs[p] > upper, "flagged value %v inside [%v, %v]", xs[p], lower, upper)
		}
		for i, x := range xs {
			if !flagged[i] {
				assert.True(t, x >= lower && x <= upper, "unflagged value %v outside [%v, %v]", x, lower, upper)
			}
		}
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{10, 12, 11, 13, 9, 500})
	require.NoError(t, err)

	assert.Equal(t, 6, s.Count)
	assert.InDelta(t, 92.5, s.Mean, 1e-9)
	assert.Equal(t, 12.0, s.Median)
	assert.Equal(t, 9.0, s.Min)
	assert.Equal(t, 500.0, s.Max)
	assert.Equal(t, 10.0, s.Q1)
	assert.Equal(t, 13.0, s.Q3)
	assert.False(t, math.IsNaN(s.StdDev))
	assert.Greater(t, s.StdDev, 100.0)
}

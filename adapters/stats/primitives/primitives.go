// Package primitives holds the shared numeric utilities used by pattern
// analysis, outlier detection and recommendation scoring. Inputs must already
// be filtered of null, NaN and infinite values.
package primitives

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"chartsense/domain/core"
	"chartsense/domain/outlier"
)

// Quartiles holds the three cut points selected from the sorted input
type Quartiles struct {
	Q1     float64
	Median float64
	Q3     float64
}

// IQR returns q3 - q1.
func (q Quartiles) IQR() float64 { return q.Q3 - q.Q1 }

// Mean returns the arithmetic mean
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, core.NewEmptyInputError("mean")
	}
	return stats.Mean(xs)
}

// Variance returns the population variance (divisor n)
func Variance(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, core.NewEmptyInputError("variance")
	}
	return stats.PopulationVariance(xs)
}

// StdDev returns the population standard deviation
func StdDev(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, core.NewEmptyInputError("stddev")
	}
	return stats.StandardDeviationPopulation(xs)
}

// Min returns the smallest value
func Min(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, core.NewEmptyInputError("min")
	}
	return floats.Min(xs), nil
}

// Max returns the largest value
func Max(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, core.NewEmptyInputError("max")
	}
	return floats.Max(xs), nil
}

// CalculateQuartiles sorts a copy of xs and selects sorted[floor(n*p)] for
// p = 0.25, 0.5, 0.75. There is no interpolation; reference fixtures depend
// on this exact selection rule.
func CalculateQuartiles(xs []float64) (Quartiles, error) {
	if len(xs) == 0 {
		return Quartiles{}, core.NewEmptyInputError("quartiles")
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	return Quartiles{
		Q1:     selectAt(sorted, 0.25),
		Median: selectAt(sorted, 0.5),
		Q3:     selectAt(sorted, 0.75),
	}, nil
}

func selectAt(sorted []float64, p float64) float64 {
	i := int(math.Floor(float64(len(sorted)) * p))
	if i >= len(sorted) {
		i = len(sorted) - 1
	}
	return sorted[i]
}

// LinearTrendSlope returns the ordinary least squares slope of xs against
// its index positions. It returns 0 when fewer than 3 values are given or the
// regression is degenerate.
func LinearTrendSlope(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, core.NewEmptyInputError("linear trend slope")
	}
	if len(xs) < 3 {
		return 0, nil
	}

	idx := make([]float64, len(xs))
	for i := range idx {
		idx[i] = float64(i)
	}

	_, beta := stat.LinearRegression(idx, xs, nil, false)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, nil
	}
	return beta, nil
}

// IQRBounds returns [q1 - k*IQR, q3 + k*IQR].
func IQRBounds(q Quartiles, k float64) (lower, upper float64) {
	iqr := q.IQR()
	return q.Q1 - k*iqr, q.Q3 + k*iqr
}

// DetectOutliersIQR returns the positions in xs of values strictly outside
// the IQR bounds with multiplier k.
func DetectOutliersIQR(xs []float64, k float64) ([]int, error) {
	q, err := CalculateQuartiles(xs)
	if err != nil {
		return nil, err
	}

	lower, upper := IQRBounds(q, k)
	var positions []int
	for i, x := range xs {
		if x < lower || x > upper {
			positions = append(positions, i)
		}
	}
	return positions, nil
}

// Summarize computes count, mean, median, population stddev, min, max and
// quartiles in one pass over the primitives.
func Summarize(xs []float64) (outlier.Statistics, error) {
	if len(xs) == 0 {
		return outlier.Statistics{}, core.NewEmptyInputError("summary")
	}

	mean, err := Mean(xs)
	if err != nil {
		return outlier.Statistics{}, err
	}
	sd, err := StdDev(xs)
	if err != nil {
		return outlier.Statistics{}, err
	}
	q, err := CalculateQuartiles(xs)
	if err != nil {
		return outlier.Statistics{}, err
	}

	return outlier.Statistics{
		Count:  len(xs),
		Mean:   mean,
		Median: q.Median,
		StdDev: sd,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		Q1:     q.Q1,
		Q3:     q.Q3,
	}, nil
}

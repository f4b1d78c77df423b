package profiling

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"chartsense/adapters/stats/primitives"
	"chartsense/domain/profiling"
)

// AnalyzeShape computes skewness, kurtosis and an approximate normality
// test. It returns nil when the data has no spread or fewer than 4 values.
func AnalyzeShape(data []float64) *profiling.DistributionShape {
	if len(data) < 4 {
		return nil
	}

	mean, err := primitives.Mean(data)
	if err != nil {
		return nil
	}
	stdDev, err := primitives.StdDev(data)
	if err != nil || stdDev == 0 {
		return nil
	}

	skewness := calculateSkewness(data, mean, stdDev)
	kurtosis := calculateKurtosis(data, mean, stdDev)
	p := normalityP(skewness, kurtosis)

	return &profiling.DistributionShape{
		Skewness:   skewness,
		Kurtosis:   kurtosis,
		NormalityP: p,
		IsNormal:   p > 0.05,
	}
}

// calculateSkewness computes the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}

	return sumCubed / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// calculateKurtosis computes bias-corrected kurtosis (normal = 3)
func calculateKurtosis(data []float64, mean, stdDev float64) float64 {
	n := float64(len(data))
	sumFourth := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}

	excess := sumFourth/n - 3
	excess = excess*(n-1)/((n-2)*(n-3)) + 6/(n+1)
	return excess + 3
}

// normalityP approximates a skewness/kurtosis omnibus test with a
// chi-squared distribution on 2 degrees of freedom
func normalityP(skewness, kurtosis float64) float64 {
	stat := math.Abs(skewness) + math.Abs(kurtosis-3)/2
	chi := distuv.ChiSquared{K: 2}
	p := 1 - chi.CDF(stat*stat)
	if math.IsNaN(p) {
		return 0
	}
	return p
}

package outliers

import (
	"math"
	"math/rand"
	"testing"

	"chartsense/adapters/stats/primitives"
	"chartsense/domain/core"
	"chartsense/domain/dataset"
	"chartsense/domain/outlier"
	"chartsense/domain/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIQRSingleSpike(t *testing.T) {
	detector := NewDetector(nil, nil)

	report, err := detector.Detect([]float64{10, 12, 11, 13, 9, 500}, outlier.DefaultDetectionConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{5}, report.OutlierIndices)
	assert.Equal(t, []float64{500}, report.OutlierValues)
	assert.InDelta(t, 16.67, report.Percentage, 0.01)
	assert.Equal(t, 1, report.HighCount)
	assert.Equal(t, 0, report.LowCount)
	assert.Equal(t, 1.5, report.Threshold)
	assert.Equal(t, 5.5, report.LowerBound)
	assert.Equal(t, 17.5, report.UpperBound)

	require.NotEmpty(t, report.Insights)
	assert.Equal(t, profiling.InsightWarning, report.Insights[0].Kind)

	actions := make([]outlier.Action, len(report.Recommendations))
	for i, r := range report.Recommendations {
		actions[i] = r.Action
	}
	assert.Equal(t, []outlier.Action{outlier.ActionInvestigate, outlier.ActionValidate, outlier.ActionAnalyze}, actions)
}

func TestDetectColumnMapsRowPositions(t *testing.T) {
	detector := NewDetector(nil, nil)

	rows := []dataset.Row{
		{"v": 10}, {"v": "n/a"}, {"v": 12}, {"v": 500}, {"v": 11},
		{"v": nil}, {"v": 13}, {"v": 9}, {"v": "500"}, {"v": 10},
		{"v": 11}, {"v": 12}, {"v": 10}, {"v": 13}, {"v": 11}, {"v": 12},
	}

	report, err := detector.DetectColumn(rows, "v", outlier.DefaultDetectionConfig())
	require.NoError(t, err)

	// duplicate outlier values keep their own row positions
	assert.Equal(t, []int{3, 8}, report.OutlierIndices)
	assert.Equal(t, []float64{500, 500}, report.OutlierValues)
	assert.Equal(t, "v", report.TargetColumn)
	assert.Equal(t, 14, report.Statistics.Count)
	assert.True(t, report.IsOutlierRow(8))
	assert.False(t, report.IsOutlierRow(0))
}

func TestDetectZScore(t *testing.T) {
	detector := NewDetector(nil, nil)

	values := []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 100}

	// default sensitivity is reinterpreted as a z threshold of 2.0
	report, err := detector.Detect(values, outlier.DetectionConfig{Method: outlier.MethodZScore, Sensitivity: outlier.DefaultSensitivity})
	require.NoError(t, err)
	assert.Equal(t, 2.0, report.Threshold)
	assert.Equal(t, []int{9}, report.OutlierIndices)

	// z of the spike is exactly 3; a threshold of 3.5 keeps it
	report, err = detector.Detect(values, outlier.DetectionConfig{Method: outlier.MethodZScore, Sensitivity: 3.5})
	require.NoError(t, err)
	assert.Empty(t, report.OutlierIndices)
}

func TestDetectZScoreConstantSeries(t *testing.T) {
	detector := NewDetector(nil, nil)

	report, err := detector.Detect([]float64{4, 4, 4, 4}, outlier.DetectionConfig{Method: outlier.MethodZScore})
	require.NoError(t, err)
	assert.Empty(t, report.OutlierIndices)
	assert.Zero(t, report.Percentage)
}

func TestDetectIsolation(t *testing.T) {
	detector := NewDetector(nil, nil)

	// sorted -4,1..8,40: q1=2, median=5, q3=7, IQR=5, band = 5 +/- 10
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 40, -4}
	report, err := detector.Detect(values, outlier.DetectionConfig{Method: outlier.MethodIsolation, Sensitivity: 2.9})
	require.NoError(t, err)

	assert.Equal(t, 2.0, report.Threshold, "isolation ignores sensitivity")
	assert.Equal(t, []int{8}, report.OutlierIndices)
	assert.Equal(t, 1, report.HighCount)
}

func TestDetectNoOutliersIsValid(t *testing.T) {
	detector := NewDetector(nil, nil)

	report, err := detector.Detect([]float64{1, 2, 3, 4, 5}, outlier.DefaultDetectionConfig())
	require.NoError(t, err)

	assert.Empty(t, report.OutlierIndices)
	assert.NotNil(t, report.OutlierIndices)
	require.Len(t, report.Insights, 1)
	assert.Equal(t, profiling.InsightSuccess, report.Insights[0].Kind)
	require.Len(t, report.Recommendations, 1)
	assert.Equal(t, outlier.ActionMonitor, report.Recommendations[0].Action)
	assert.Equal(t, outlier.PriorityLow, report.Recommendations[0].Priority)
}

func TestDetectErrors(t *testing.T) {
	detector := NewDetector(nil, nil)

	_, err := detector.DetectColumn([]dataset.Row{{"v": "abc"}, {"v": nil}}, "v", outlier.DefaultDetectionConfig())
	assert.True(t, core.IsNoNumericDataError(err), "got %v", err)

	_, err = detector.Detect(nil, outlier.DefaultDetectionConfig())
	assert.True(t, core.IsNoNumericDataError(err), "got %v", err)

	_, err = detector.Detect([]float64{1, 2}, outlier.DetectionConfig{Method: "forest"})
	assert.ErrorIs(t, err, core.ErrInvalidDetectionConfig)

	_, err = detector.Detect([]float64{1, 2}, outlier.DetectionConfig{Method: outlier.MethodIQR, Sensitivity: math.NaN()})
	assert.ErrorIs(t, err, core.ErrInvalidDetectionConfig)
}

func TestDetectIQRBoundProperty(t *testing.T) {
	detector := NewDetector(nil, nil)
	rng := rand.New(rand.NewSource(3))

	for trial := 0; trial < 100; trial++ {
		n := 8 + rng.Intn(60)
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64() * 5
		}
		values[rng.Intn(n)] = 80
		k := 1.0 + rng.Float64()*2

		report, err := detector.Detect(values, outlier.DetectionConfig{Method: outlier.MethodIQR, Sensitivity: k})
		require.NoError(t, err)

		q, _ := primitives.CalculateQuartiles(values)
		lower, upper := primitives.IQRBounds(q, k)

		flagged := map[int]bool{}
		for _, i := range report.OutlierIndices {
			flagged[i] = true
			assert.True(t, values[i] < lower || values[i] > upper)
		}
		for i, v := range values {
			if !flagged[i] {
				assert.True(t, v >= lower && v <= upper)
			}
		}
		assert.Equal(t, len(report.OutlierIndices), len(report.OutlierValues))
		assert.GreaterOrEqual(t, report.Percentage, 0.0)
		assert.LessOrEqual(t, report.Percentage, 100.0)
	}
}

func TestSensitivityClampedForIQR(t *testing.T) {
	assert.Equal(t, 1.0, outlier.DetectionConfig{Method: outlier.MethodIQR, Sensitivity: 0.2}.Threshold())
	assert.Equal(t, 3.0, outlier.DetectionConfig{Method: outlier.MethodIQR, Sensitivity: 9}.Threshold())
	assert.Equal(t, 1.5, outlier.DetectionConfig{Method: outlier.MethodIQR}.Threshold())
	assert.Equal(t, 2.5, outlier.DetectionConfig{Method: outlier.MethodZScore, Sensitivity: 2.5}.Threshold())
}

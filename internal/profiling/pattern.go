package profiling

import (
	"math"

	"chartsense/adapters/datareadiness/coercer"
	"chartsense/adapters/stats/primitives"
	"chartsense/domain/profiling"
)

// PatternConfig holds the fixed thresholds of the per-column diagnostics.
// OutlierMultiplier is independent of the user-facing detector sensitivity.
type PatternConfig struct {
	CategoricalMaxUnique int     // distribution is categorical below this many unique values
	ContinuousRatio      float64 // distribution is continuous above this unique/total ratio
	MinNumericSample     int     // trend and outliers need more values than this
	TrendSlope           float64 // |slope| must exceed this for a trend
	OutlierMultiplier    float64 // IQR multiplier for the outlier count
}

// DefaultPatternConfig returns the thresholds shared with the recommender
func DefaultPatternConfig() PatternConfig {
	return PatternConfig{
		CategoricalMaxUnique: 10,
		ContinuousRatio:      0.8,
		MinNumericSample:     5,
		TrendSlope:           0.1,
		OutlierMultiplier:    1.5,
	}
}

// PatternAnalyzer computes distribution shape, trend presence and outlier
// count for one classified column
type PatternAnalyzer struct {
	coercer *coercer.TypeCoercer
	config  PatternConfig
}

// NewPatternAnalyzer creates an analyzer with the default thresholds
func NewPatternAnalyzer(c *coercer.TypeCoercer) *PatternAnalyzer {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &PatternAnalyzer{coercer: c, config: DefaultPatternConfig()}
}

// Analyze builds the column profile. It never fails: primitive errors on
// insufficient data leave the trend and outlier signals at zero.
func (pa *PatternAnalyzer) Analyze(name string, values []any, semType profiling.SemanticType) profiling.ColumnProfile {
	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		distinct[pa.coercer.ToString(v)] = struct{}{}
	}

	profile := profiling.ColumnProfile{
		Name:         name,
		SemanticType: semType,
		UniqueCount:  len(distinct),
		TotalCount:   len(values),
	}
	profile.Distribution = pa.distribution(profile)

	if semType != profiling.TypeNumeric {
		return profile
	}

	nums := pa.coercer.NumericValues(values)
	if len(nums) <= pa.config.MinNumericSample {
		return profile
	}

	if slope, err := primitives.LinearTrendSlope(nums); err == nil {
		profile.HasTrend = math.Abs(slope) > pa.config.TrendSlope
	}
	if positions, err := primitives.DetectOutliersIQR(nums, pa.config.OutlierMultiplier); err == nil {
		profile.OutlierCount = len(positions)
	}
	profile.Shape = AnalyzeShape(nums)

	return profile
}

func (pa *PatternAnalyzer) distribution(cp profiling.ColumnProfile) profiling.Distribution {
	switch {
	case cp.UniqueCount < pa.config.CategoricalMaxUnique:
		return profiling.DistributionCategorical
	case cp.UniqueRatio() > pa.config.ContinuousRatio:
		return profiling.DistributionContinuous
	default:
		return profiling.DistributionMixed
	}
}

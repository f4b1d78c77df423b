package outliers

import (
	"math"

	"chartsense/adapters/datareadiness/coercer"
	"chartsense/adapters/stats/primitives"
	"chartsense/domain/core"
	"chartsense/domain/dataset"
	"chartsense/domain/outlier"
	"chartsense/internal/insights"
)

// Detector is the user-facing, configurable outlier detector. It flags row
// positions of one numeric target column.
type Detector struct {
	coercer  *coercer.TypeCoercer
	insights *insights.Generator
}

// NewDetector creates a detector; nil arguments get defaults
func NewDetector(c *coercer.TypeCoercer, g *insights.Generator) *Detector {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	if g == nil {
		g = insights.NewGenerator()
	}
	return &Detector{coercer: c, insights: g}
}

// Detect runs detection over a plain numeric sequence. Reported indices are
// positions in values; non-finite entries are skipped but keep their slot.
func (d *Detector) Detect(values []float64, cfg outlier.DetectionConfig) (*outlier.Report, error) {
	points := make([]dataset.IndexedValue, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, dataset.IndexedValue{Index: i, Value: v})
	}
	return d.detect("", points, cfg)
}

// DetectColumn runs detection over one column of rows. Reported indices are
// row positions in rows; values that do not parse as finite numbers are
// skipped.
func (d *Detector) DetectColumn(rows []dataset.Row, column string, cfg outlier.DetectionConfig) (*outlier.Report, error) {
	return d.detect(column, d.coercer.NumericPoints(rows, column), cfg)
}

func (d *Detector) detect(target string, points []dataset.IndexedValue, cfg outlier.DetectionConfig) (*outlier.Report, error) {
	cfg = cfg.Normalized()
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, core.NewNoNumericDataError(target)
	}

	values := dataset.Values(points)
	statistics, err := primitives.Summarize(values)
	if err != nil {
		return nil, err
	}

	threshold := cfg.Threshold()
	lower, upper, isOutlier := rule(cfg.Method, threshold, statistics)

	report := &outlier.Report{
		TargetColumn:   target,
		Method:         cfg.Method,
		Threshold:      threshold,
		Statistics:     statistics,
		LowerBound:     lower,
		UpperBound:     upper,
		OutlierIndices: []int{},
		OutlierValues:  []float64{},
	}

	// Positions travel with values, so duplicate outliers keep distinct rows.
	for _, p := range points {
		if !isOutlier(p.Value) {
			continue
		}
		report.OutlierIndices = append(report.OutlierIndices, p.Index)
		report.OutlierValues = append(report.OutlierValues, p.Value)
		if p.Value > statistics.Median {
			report.HighCount++
		} else {
			report.LowCount++
		}
	}

	report.Percentage = float64(len(report.OutlierIndices)) / float64(len(points)) * 100
	report.Insights, report.Recommendations = d.insights.OutlierFindings(report)

	return report, nil
}

// rule returns the reporting band and the membership test of a method.
func rule(method outlier.Method, threshold float64, s outlier.Statistics) (lower, upper float64, isOutlier func(float64) bool) {
	switch method {
	case outlier.MethodZScore:
		lower, upper = s.Mean-threshold*s.StdDev, s.Mean+threshold*s.StdDev
		if s.StdDev == 0 {
			return lower, upper, func(float64) bool { return false }
		}
		return lower, upper, func(v float64) bool {
			return math.Abs(v-s.Mean)/s.StdDev > threshold
		}
	case outlier.MethodIsolation:
		spread := threshold * s.IQR()
		lower, upper = s.Median-spread, s.Median+spread
		return lower, upper, func(v float64) bool {
			return math.Abs(v-s.Median) > spread
		}
	default:
		lower, upper = primitives.IQRBounds(primitives.Quartiles{Q1: s.Q1, Median: s.Median, Q3: s.Q3}, threshold)
		return lower, upper, func(v float64) bool {
			return v < lower || v > upper
		}
	}
}

func validate(cfg outlier.DetectionConfig) error {
	switch cfg.Method {
	case outlier.MethodIQR, outlier.MethodZScore, outlier.MethodIsolation:
	default:
		return core.NewInvalidDetectionConfigError("unknown method " + string(cfg.Method))
	}
	if math.IsNaN(cfg.Sensitivity) || math.IsInf(cfg.Sensitivity, 0) || cfg.Sensitivity < 0 {
		return core.NewInvalidDetectionConfigError("sensitivity must be a finite, non-negative number")
	}
	return nil
}

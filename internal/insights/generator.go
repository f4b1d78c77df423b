// Package insights turns classification, pattern and outlier results into
// short findings. Output is deterministic and ordered by rule.
package insights

import (
	"fmt"

	"chartsense/domain/outlier"
	"chartsense/domain/profiling"
)

// Config holds the rate and cardinality tiers used by the rules
type Config struct {
	ErrorRate       float64 // outlier percentage above which the rate is an error
	ValidateRate    float64 // outlier percentage above which validation is advised
	HighCardinality int     // categorical unique count worth mentioning
}

// DefaultConfig returns the standard tiers
func DefaultConfig() Config {
	return Config{
		ErrorRate:       10,
		ValidateRate:    5,
		HighCardinality: 20,
	}
}

// Generator produces insights and action recommendations
type Generator struct {
	config Config
}

// NewGenerator creates a generator with the standard tiers
func NewGenerator() *Generator {
	return &Generator{config: DefaultConfig()}
}

// NewGeneratorWithConfig creates a generator with custom tiers
func NewGeneratorWithConfig(config Config) *Generator {
	return &Generator{config: config}
}

// DatasetInsights builds the dataset-level findings from the analyzed column
// profiles and, when present, the outlier report of the target column.
func (g *Generator) DatasetInsights(columns []profiling.ColumnProfile, report *outlier.Report) []profiling.Insight {
	insights := make([]profiling.Insight, 0)

	var numeric, categorical, date []string
	for _, cp := range columns {
		switch cp.SemanticType {
		case profiling.TypeNumeric:
			numeric = append(numeric, cp.Name)
		case profiling.TypeCategorical:
			categorical = append(categorical, cp.Name)
		case profiling.TypeDate:
			date = append(date, cp.Name)
		}
	}

	if len(numeric) > 0 && len(categorical) > 0 {
		insights = append(insights, profiling.Insight{
			Kind:    profiling.InsightInfo,
			Message: fmt.Sprintf("Dataset pairs categorical %q with numeric %q: values can be compared across categories", categorical[0], numeric[0]),
		})
	}

	if len(date) > 0 {
		insights = append(insights, profiling.Insight{
			Kind:          profiling.InsightTrend,
			Message:       fmt.Sprintf("Time-based column %q detected: values can be tracked over time", date[0]),
			RelatedColumn: date[0],
		})
	}

	for _, cp := range columns {
		insights = append(insights, g.columnInsights(cp)...)
	}

	if report != nil {
		found, _ := g.OutlierFindings(report)
		insights = append(insights, found...)
	}

	return insights
}

func (g *Generator) columnInsights(cp profiling.ColumnProfile) []profiling.Insight {
	var out []profiling.Insight

	if cp.SemanticType == profiling.TypeEmpty {
		out = append(out, profiling.Insight{
			Kind:          profiling.InsightWarning,
			Message:       fmt.Sprintf("%q has no values to analyze", cp.Name),
			RelatedColumn: cp.Name,
		})
		return out
	}

	if cp.HasTrend {
		out = append(out, profiling.Insight{
			Kind:          profiling.InsightTrend,
			Message:       fmt.Sprintf("%q shows a linear trend across rows", cp.Name),
			RelatedColumn: cp.Name,
		})
	}

	if cp.OutlierCount > 0 {
		out = append(out, profiling.Insight{
			Kind:          profiling.InsightWarning,
			Message:       fmt.Sprintf("%q contains %d potential %s", cp.Name, cp.OutlierCount, plural(cp.OutlierCount, "outlier", "outliers")),
			RelatedColumn: cp.Name,
		})
	}

	if cp.SemanticType == profiling.TypeCategorical && cp.UniqueCount > g.config.HighCardinality {
		out = append(out, profiling.Insight{
			Kind:          profiling.InsightInfo,
			Message:       fmt.Sprintf("%q has %d categories; consider grouping the smaller ones", cp.Name, cp.UniqueCount),
			RelatedColumn: cp.Name,
		})
	}

	if cp.Shape != nil && cp.Shape.IsNormal {
		out = append(out, profiling.Insight{
			Kind:          profiling.InsightInfo,
			Message:       fmt.Sprintf("%q looks approximately normally distributed", cp.Name),
			RelatedColumn: cp.Name,
		})
	}

	return out
}

// OutlierFindings returns the insights and the prioritized follow-up
// actions for a detection result.
func (g *Generator) OutlierFindings(report *outlier.Report) ([]profiling.Insight, []outlier.ActionRecommendation) {
	insights := make([]profiling.Insight, 0, 3)
	recs := make([]outlier.ActionRecommendation, 0, 3)

	name := report.TargetColumn
	label := fmt.Sprintf("%q", name)
	if name == "" {
		label = "the values"
	}
	count := report.OutlierCount()

	if count == 0 {
		insights = append(insights, profiling.Insight{
			Kind:          profiling.InsightSuccess,
			Message:       fmt.Sprintf("No outliers detected in %s using the %s method", label, report.Method),
			RelatedColumn: name,
		})
		recs = append(recs, outlier.ActionRecommendation{
			Action:   outlier.ActionMonitor,
			Message:  "Data looks consistent; keep monitoring new values",
			Priority: outlier.PriorityLow,
		})
		return insights, recs
	}

	insights = append(insights, profiling.Insight{
		Kind:          profiling.InsightWarning,
		Message:       fmt.Sprintf("Found %d %s (%.1f%%) in %s", count, plural(count, "outlier", "outliers"), report.Percentage, label),
		RelatedColumn: name,
	})

	if report.Percentage > g.config.ErrorRate {
		insights = append(insights, profiling.Insight{
			Kind:          profiling.InsightError,
			Message:       fmt.Sprintf("Outlier rate of %.1f%% is high and may indicate data quality issues", report.Percentage),
			RelatedColumn: name,
		})
	}

	switch {
	case report.HighCount > report.LowCount:
		insights = append(insights, profiling.Insight{
			Kind:          profiling.InsightInfo,
			Message:       fmt.Sprintf("Most outliers (%d of %d) are above the typical range", report.HighCount, count),
			RelatedColumn: name,
		})
	case report.LowCount > report.HighCount:
		insights = append(insights, profiling.Insight{
			Kind:          profiling.InsightInfo,
			Message:       fmt.Sprintf("Most outliers (%d of %d) are below the typical range", report.LowCount, count),
			RelatedColumn: name,
		})
	}

	recs = append(recs, outlier.ActionRecommendation{
		Action:   outlier.ActionInvestigate,
		Message:  fmt.Sprintf("Review the %d flagged %s for entry errors or special events", count, plural(count, "row", "rows")),
		Priority: outlier.PriorityHigh,
	})
	if report.Percentage > g.config.ValidateRate {
		recs = append(recs, outlier.ActionRecommendation{
			Action:   outlier.ActionValidate,
			Message:  fmt.Sprintf("Validate the collection process; the outlier rate is above %.0f%%", g.config.ValidateRate),
			Priority: outlier.PriorityMedium,
		})
	}
	recs = append(recs, outlier.ActionRecommendation{
		Action:   outlier.ActionAnalyze,
		Message:  "Compare results with and without the flagged rows",
		Priority: outlier.PriorityLow,
	})

	return insights, recs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

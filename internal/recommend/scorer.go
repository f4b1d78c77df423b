// Package recommend ranks chart types for the analyzed columns using a
// declarative scoring table.
package recommend

import (
	"fmt"
	"strings"

	"chartsense/domain/chart"
	"chartsense/domain/core"
	"chartsense/domain/dataset"
	"chartsense/domain/profiling"
)

const (
	// MaxScore caps every rule-based confidence.
	MaxScore = 98

	// MaxScoredColumns is how many distinct selected columns feed the rules.
	MaxScoredColumns = 2
)

// Reclassifier is the classifier's secondary text -> numeric pass
type Reclassifier interface {
	Reclassify(current profiling.SemanticType, values []any) profiling.SemanticType
}

// Predicates are the boolean signals the scoring table keys on
type Predicates struct {
	HasTimeSeries      bool `json:"has_time_series"`
	HasComparisons     bool `json:"has_comparisons"`
	HasCorrelations    bool `json:"has_correlations"`
	HasProportions     bool `json:"has_proportions"`
	HasNumericOnly     bool `json:"has_numeric_only"`
	HasCategoricalOnly bool `json:"has_categorical_only"`
}

// Any reports whether at least one predicate holds.
func (p Predicates) Any() bool {
	return p.HasTimeSeries || p.HasComparisons || p.HasCorrelations ||
		p.HasProportions || p.HasNumericOnly || p.HasCategoricalOnly
}

// Scorer turns classified column profiles into ranked chart recommendations
type Scorer struct {
	reclassifier Reclassifier
}

// NewScorer creates a scorer; reclassifier may be nil to skip the second pass
func NewScorer(reclassifier Reclassifier) *Scorer {
	return &Scorer{reclassifier: reclassifier}
}

// Recommend returns recommendations sorted by confidence, then kind priority.
// It only fails when no column was selected. Every other problem, including
// profiles that trigger no rule, yields the unconditioned fallback set built
// on the raw selected columns.
func (s *Scorer) Recommend(profile profiling.DatasetProfile, rows []dataset.Row, columns []string) ([]chart.Recommendation, error) {
	if len(columns) == 0 {
		return nil, core.NewInsufficientColumnsError(0, 1)
	}

	columns = dataset.SelectColumns(columns, MaxScoredColumns)
	recs, err := s.score(profile, rows, columns)
	if err != nil || len(recs) == 0 {
		recs = Fallback(columns, len(rows))
	}

	chart.Sort(recs)
	return recs, nil
}

// DerivePredicates exposes the signals computed for the first distinct
// profiled columns.
func (s *Scorer) DerivePredicates(profile profiling.DatasetProfile, rows []dataset.Row) Predicates {
	selected, _ := selectProfiles(profile, dataset.SelectColumns(profile.Names(), MaxScoredColumns))
	return s.deriveFacts(selected, rows).predicates
}

func (s *Scorer) score(profile profiling.DatasetProfile, rows []dataset.Row, columns []string) ([]chart.Recommendation, error) {
	selected, err := selectProfiles(profile, columns)
	if err != nil {
		return nil, err
	}

	f := s.deriveFacts(selected, rows)
	if !f.predicates.Any() {
		return nil, nil
	}

	recs := make([]chart.Recommendation, 0, len(scoringRules))
	for _, r := range scoringRules {
		if !r.fires(f) {
			continue
		}
		recs = append(recs, r.evaluate(f))
	}
	return recs, nil
}

// selectProfiles looks up one profile per column name
func selectProfiles(profile profiling.DatasetProfile, columns []string) ([]profiling.ColumnProfile, error) {
	selected := make([]profiling.ColumnProfile, 0, len(columns))
	for _, name := range columns {
		cp, ok := profile.Get(name)
		if !ok {
			return nil, fmt.Errorf("column %q was not profiled", name)
		}
		selected = append(selected, cp)
	}
	return selected, nil
}

func (s *Scorer) deriveFacts(columns []profiling.ColumnProfile, rows []dataset.Row) facts {
	f := facts{rowCount: len(rows)}

	for _, cp := range columns {
		role := cp.SemanticType
		if role == profiling.TypeText && s.reclassifier != nil {
			role = s.reclassifier.Reclassify(role, dataset.NonEmptyValues(rows, cp.Name))
		}

		switch role {
		case profiling.TypeNumeric:
			f.numeric = append(f.numeric, cp)
		case profiling.TypeCategorical:
			f.categorical = append(f.categorical, cp)
		case profiling.TypeDate:
			f.date = append(f.date, cp)
		case profiling.TypeText:
			f.text = append(f.text, cp)
		}
	}

	typed := len(f.numeric) + len(f.categorical) + len(f.date) + len(f.text)

	f.predicates = Predicates{
		HasTimeSeries:      len(f.date) > 0,
		HasComparisons:     len(f.categorical) > 0 && len(f.numeric) > 0,
		HasCorrelations:    len(f.numeric) >= 2,
		HasNumericOnly:     len(f.numeric) > 0 && len(f.numeric) == typed,
		HasCategoricalOnly: len(f.categorical) > 0 && len(f.categorical) == typed,
	}
	f.predicates.HasProportions = f.predicates.HasComparisons

	return f
}

func (r rule) evaluate(f facts) chart.Recommendation {
	score := r.base
	applied := []string{fmt.Sprintf("base %d", r.base)}

	for _, adj := range r.adjustments {
		d := adj.delta(f)
		if d == 0 {
			continue
		}
		score += d
		applied = append(applied, fmt.Sprintf("%+d %s", d, adj.label))
	}

	confidence := clamp(score, r.floor, MaxScore)
	if confidence != score {
		applied = append(applied, fmt.Sprintf("clamped to %d", confidence))
	}

	return chart.Recommendation{
		Kind:        r.kind,
		Confidence:  confidence,
		Reason:      r.reason(f),
		Explanation: strings.Join(applied, "; "),
		Axes:        r.axes(f),
	}
}

// Fallback returns the unconditioned default set. Axes use the first two
// selected columns regardless of their types.
func Fallback(columns []string, rowCount int) []chart.Recommendation {
	axes := chart.Axes{}
	if len(columns) > 0 {
		axes.X = columns[0]
		axes.Y = columns[0]
	}
	if len(columns) > 1 {
		axes.Y = columns[1]
	}

	recs := make([]chart.Recommendation, 0, len(fallbackRules))
	for _, fb := range fallbackRules {
		if fb.minRows >= 0 && rowCount <= fb.minRows {
			continue
		}
		recs = append(recs, chart.Recommendation{
			Kind:        fb.kind,
			Confidence:  fb.confidence,
			Reason:      fb.reason,
			Explanation: "default suggestion; the selected columns did not match a specific chart pattern",
			Axes:        axes,
		})
	}
	return recs
}

func clamp(v, lo, hi int) int {
	if lo < chart.MinConfidence {
		lo = chart.MinConfidence
	}
	if hi > chart.MaxConfidence {
		hi = chart.MaxConfidence
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

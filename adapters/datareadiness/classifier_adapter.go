package datareadiness

import (
	"chartsense/adapters/datareadiness/coercer"
	"chartsense/domain/profiling"
)

// ClassifierAdapter implements ClassifierPort by inferring a semantic type
// from a sample of a column's raw values
type ClassifierAdapter struct {
	coercer *coercer.TypeCoercer
	config  profiling.ClassificationConfig
}

// NewClassifierAdapter creates a classifier with the default thresholds
func NewClassifierAdapter(c *coercer.TypeCoercer) *ClassifierAdapter {
	return NewClassifierAdapterWithConfig(c, profiling.DefaultClassificationConfig())
}

// NewClassifierAdapterWithConfig creates a classifier with explicit thresholds
func NewClassifierAdapterWithConfig(c *coercer.TypeCoercer, config profiling.ClassificationConfig) *ClassifierAdapter {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	return &ClassifierAdapter{coercer: c, config: config}
}

// Classify determines a column's semantic type. values must already be
// stripped of null and empty entries. Rules are applied in priority order
// and the first match wins: empty, date, numeric, categorical, text.
func (a *ClassifierAdapter) Classify(name string, values []any) profiling.Classification {
	sample := values
	if len(sample) > a.config.SampleSize {
		sample = sample[:a.config.SampleSize]
	}

	result := profiling.Classification{
		Name:       name,
		SampleSize: len(sample),
	}

	if len(sample) == 0 {
		result.Type = profiling.TypeEmpty
		return result
	}

	n := float64(len(sample))
	dateCount, numericCount := 0, 0
	distinct := make(map[string]struct{}, len(sample))

	for _, v := range sample {
		if _, ok := a.coercer.ParseDate(v); ok {
			dateCount++
		}
		if _, ok := a.coercer.ParseNumeric(v); ok {
			numericCount++
		}
		distinct[a.coercer.ToString(v)] = struct{}{}
	}

	result.DateRatio = float64(dateCount) / n
	result.NumericRatio = float64(numericCount) / n
	result.UniquenessRatio = float64(len(distinct)) / n

	switch {
	case result.DateRatio > a.config.DateThreshold:
		result.Type = profiling.TypeDate
	case result.NumericRatio > a.config.NumericThreshold:
		result.Type = profiling.TypeNumeric
	case result.UniquenessRatio < a.config.CategoricalUniqueRatio && len(sample) > a.config.CategoricalMinSample:
		result.Type = profiling.TypeCategorical
	default:
		result.Type = profiling.TypeText
	}

	return result
}

// Reclassify is the recommender's second pass. Upstream values may arrive
// as strings, so a text column whose first values mostly parse as finite
// numbers is treated as numeric. Other types are returned unchanged.
func (a *ClassifierAdapter) Reclassify(current profiling.SemanticType, values []any) profiling.SemanticType {
	if current != profiling.TypeText || len(values) == 0 {
		return current
	}

	sample := values
	if len(sample) > a.config.ReclassifySampleSize {
		sample = sample[:a.config.ReclassifySampleSize]
	}

	numericCount := 0
	for _, v := range sample {
		if _, ok := a.coercer.ParseNumeric(v); ok {
			numericCount++
		}
	}

	if float64(numericCount)/float64(len(sample)) >= a.config.ReclassifyThreshold {
		return profiling.TypeNumeric
	}
	return current
}

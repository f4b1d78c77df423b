package profiling

// SemanticType represents the automatically detected meaning of a column
type SemanticType string

const (
	TypeNumeric     SemanticType = "numeric"
	TypeDate        SemanticType = "date"
	TypeCategorical SemanticType = "categorical"
	TypeText        SemanticType = "text"
	TypeEmpty       SemanticType = "empty"
)

// Distribution describes the cardinality shape of a column
type Distribution string

const (
	DistributionCategorical Distribution = "categorical"
	DistributionContinuous  Distribution = "continuous"
	DistributionMixed       Distribution = "mixed"
)

// ColumnProfile is the per-column summary of semantic type and statistical
// pattern. Profiles are created once per analysis and never patched.
type ColumnProfile struct {
	Name         string             `json:"name"`
	SemanticType SemanticType       `json:"semantic_type"`
	UniqueCount  int                `json:"unique_count"`
	TotalCount   int                `json:"total_count"`
	Distribution Distribution       `json:"distribution"`
	HasTrend     bool               `json:"has_trend"`
	OutlierCount int                `json:"outlier_count"`
	Shape        *DistributionShape `json:"shape,omitempty"`
}

// DistributionShape holds moment-based diagnostics for numeric columns
type DistributionShape struct {
	Skewness   float64 `json:"skewness"`
	Kurtosis   float64 `json:"kurtosis"`
	NormalityP float64 `json:"normality_p"`
	IsNormal   bool    `json:"is_normal"`
}

// UniqueRatio returns unique/total, or 0 for an empty column.
func (cp ColumnProfile) UniqueRatio() float64 {
	if cp.TotalCount == 0 {
		return 0
	}
	return float64(cp.UniqueCount) / float64(cp.TotalCount)
}

// InsightKind classifies a finding for display
type InsightKind string

const (
	InsightInfo    InsightKind = "info"
	InsightTrend   InsightKind = "trend"
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightError   InsightKind = "error"
)

// Insight is a short human-readable finding
type Insight struct {
	Kind          InsightKind `json:"kind"`
	Message       string      `json:"message"`
	RelatedColumn string      `json:"related_column,omitempty"`
}

// DatasetProfile holds the analyzed column profiles in analysis order
// together with the dataset-level insights.
type DatasetProfile struct {
	Columns  []ColumnProfile `json:"columns"`
	Insights []Insight       `json:"insights"`
}

// Get returns the profile for a column name.
func (dp DatasetProfile) Get(name string) (ColumnProfile, bool) {
	for _, cp := range dp.Columns {
		if cp.Name == name {
			return cp, true
		}
	}
	return ColumnProfile{}, false
}

// Names returns the analyzed column names in order.
func (dp DatasetProfile) Names() []string {
	names := make([]string, len(dp.Columns))
	for i, cp := range dp.Columns {
		names[i] = cp.Name
	}
	return names
}

// CountByType returns how many analyzed columns have the given type.
func (dp DatasetProfile) CountByType(t SemanticType) int {
	n := 0
	for _, cp := range dp.Columns {
		if cp.SemanticType == t {
			n++
		}
	}
	return n
}

// Classification records how a column's semantic type was decided
type Classification struct {
	Name            string       `json:"name"`
	Type            SemanticType `json:"type"`
	SampleSize      int          `json:"sample_size"`
	DateRatio       float64      `json:"date_ratio"`
	NumericRatio    float64      `json:"numeric_ratio"`
	UniquenessRatio float64      `json:"uniqueness_ratio"`
}

// ClassificationConfig defines the type inference thresholds. The
// recommender and the pattern analyzer rely on these exact values.
type ClassificationConfig struct {
	SampleSize             int     `json:"sample_size"`              // values inspected per column
	DateThreshold          float64 `json:"date_threshold"`           // date ratio must exceed
	NumericThreshold       float64 `json:"numeric_threshold"`        // numeric ratio must exceed
	CategoricalUniqueRatio float64 `json:"categorical_unique_ratio"` // uniqueness must stay below
	CategoricalMinSample   int     `json:"categorical_min_sample"`   // sample must exceed
	ReclassifySampleSize   int     `json:"reclassify_sample_size"`   // text -> numeric second pass
	ReclassifyThreshold    float64 `json:"reclassify_threshold"`     // numeric ratio must reach
}

// DefaultClassificationConfig returns the thresholds the scoring rules were tuned against
func DefaultClassificationConfig() ClassificationConfig {
	return ClassificationConfig{
		SampleSize:             100,
		DateThreshold:          0.7,
		NumericThreshold:       0.6,
		CategoricalUniqueRatio: 0.5,
		CategoricalMinSample:   5,
		ReclassifySampleSize:   10,
		ReclassifyThreshold:    0.7,
	}
}

package ports

import (
	"chartsense/domain/chart"
	"chartsense/domain/dataset"
	"chartsense/domain/outlier"
	"chartsense/domain/profiling"
)

// ClassifierPort assigns a semantic type to a column from its non-empty values
type ClassifierPort interface {
	Classify(name string, values []any) profiling.Classification
	Reclassify(current profiling.SemanticType, values []any) profiling.SemanticType
}

// PatternAnalyzerPort computes distinct counts, trend and outliers for one column
type PatternAnalyzerPort interface {
	Analyze(name string, values []any, semType profiling.SemanticType) profiling.ColumnProfile
}

// OutlierDetectorPort flags anomalous rows of one numeric column
type OutlierDetectorPort interface {
	DetectColumn(rows []dataset.Row, column string, cfg outlier.DetectionConfig) (*outlier.Report, error)
}

// RecommenderPort ranks chart kinds for the analyzed columns
type RecommenderPort interface {
	Recommend(profile profiling.DatasetProfile, rows []dataset.Row, columns []string) ([]chart.Recommendation, error)
}

// InsightPort produces dataset-level findings
type InsightPort interface {
	DatasetInsights(columns []profiling.ColumnProfile, report *outlier.Report) []profiling.Insight
}

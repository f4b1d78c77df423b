package app

import (
	"context"
	"fmt"
	"time"

	"chartsense/adapters/datareadiness"
	"chartsense/adapters/datareadiness/coercer"
	"chartsense/domain/chart"
	"chartsense/domain/core"
	"chartsense/domain/dataset"
	"chartsense/domain/outlier"
	"chartsense/domain/profiling"
	"chartsense/internal"
	"chartsense/internal/insights"
	"chartsense/internal/outliers"
	patterns "chartsense/internal/profiling"
	"chartsense/internal/recommend"
	"chartsense/ports"
)

// MaxAnalyzedColumns is how many selected columns are classified and scored.
// Further columns are accepted and ignored.
const MaxAnalyzedColumns = 2

// AnalysisService is the explicit analyze(rows, columns, config) entry point.
// It owns no scheduling policy; callers sequence or memoize around it.
type AnalysisService struct {
	classifier  ports.ClassifierPort
	analyzer    ports.PatternAnalyzerPort
	recommender ports.RecommenderPort
	detector    ports.OutlierDetectorPort
	insights    ports.InsightPort
	logger      *internal.Logger
}

// AnalysisRequest defines the inputs of one analysis
type AnalysisRequest struct {
	Rows         []dataset.Row           `json:"rows"`
	Columns      []string                `json:"columns"`
	TargetColumn string                  `json:"target_column,omitempty"` // optional, first numeric analyzed column if empty
	Detection    outlier.DetectionConfig `json:"detection"`
}

// Hash returns the exact-match key of the request.
func (r AnalysisRequest) Hash() core.AnalysisHash {
	return core.ComputeAnalysisHash(r.Rows, r.Columns, r.TargetColumn, r.Detection)
}

// AnalysisResult bundles the profile, ranked recommendations and the
// outlier report of the target column, if one could be chosen.
type AnalysisResult struct {
	RunID           core.RunID               `json:"run_id"`
	Fingerprint     core.AnalysisHash        `json:"fingerprint"`
	Profile         profiling.DatasetProfile `json:"profile"`
	Predicates      recommend.Predicates     `json:"predicates"`
	Recommendations []chart.Recommendation   `json:"recommendations"`
	Outliers        *outlier.Report          `json:"outliers,omitempty"`
	RowCount        int                      `json:"row_count"`
	RuntimeMs       int64                    `json:"runtime_ms"`
}

// NewAnalysisService creates an analysis service from its collaborators
func NewAnalysisService(
	classifier ports.ClassifierPort,
	analyzer ports.PatternAnalyzerPort,
	recommender ports.RecommenderPort,
	detector ports.OutlierDetectorPort,
	insightPort ports.InsightPort,
	logger *internal.Logger,
) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		classifier:  classifier,
		analyzer:    analyzer,
		recommender: recommender,
		detector:    detector,
		insights:    insightPort,
		logger:      logger.WithComponent("analysis"),
	}
}

// NewDefaultAnalysisService wires the standard classifier, analyzer, scorer,
// detector and insight generator around one shared coercer.
func NewDefaultAnalysisService(logger *internal.Logger) *AnalysisService {
	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	generator := insights.NewGenerator()
	classifier := datareadiness.NewClassifierAdapter(c)

	return NewAnalysisService(
		classifier,
		patterns.NewPatternAnalyzer(c),
		recommend.NewScorer(classifier),
		outliers.NewDetector(c, generator),
		generator,
		logger,
	)
}

// Analyze profiles up to the first two selected columns, ranks chart kinds
// and runs outlier detection on the target column. It fails only when no
// column was selected or an explicitly named target has no numeric data.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	startTime := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Columns) == 0 {
		return nil, core.NewInsufficientColumnsError(0, 1)
	}

	analyzed := dataset.SelectColumns(req.Columns, MaxAnalyzedColumns)
	if len(analyzed) < len(req.Columns) {
		s.logger.Debug("analyzing %d of %d selected columns", len(analyzed), len(req.Columns))
	}

	profile := profiling.DatasetProfile{Columns: make([]profiling.ColumnProfile, 0, len(analyzed))}
	for _, name := range analyzed {
		values := dataset.NonEmptyValues(req.Rows, name)
		class := s.classifier.Classify(name, values)
		cp := s.analyzer.Analyze(name, values, class.Type)
		s.logger.Trace("column %s: type=%s unique=%d total=%d trend=%t outliers=%d",
			name, cp.SemanticType, cp.UniqueCount, cp.TotalCount, cp.HasTrend, cp.OutlierCount)
		profile.Columns = append(profile.Columns, cp)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs, err := s.recommender.Recommend(profile, req.Rows, analyzed)
	if err != nil {
		return nil, fmt.Errorf("recommendation failed: %w", err)
	}

	report, err := s.detectOutliers(req, profile)
	if err != nil {
		return nil, err
	}

	profile.Insights = s.insights.DatasetInsights(profile.Columns, report)

	result := &AnalysisResult{
		RunID:           core.NewRunID(),
		Fingerprint:     req.Hash(),
		Profile:         profile,
		Recommendations: recs,
		Outliers:        report,
		RowCount:        len(req.Rows),
		RuntimeMs:       time.Since(startTime).Milliseconds(),
	}
	if scorer, ok := s.recommender.(*recommend.Scorer); ok {
		result.Predicates = scorer.DerivePredicates(profile, req.Rows)
	}

	s.logger.Info("analysis %s: %d rows, %d columns, %d recommendations", result.RunID, result.RowCount, len(profile.Columns), len(recs))
	return result, nil
}

// DetectOutliers runs the standalone detector against one column.
func (s *AnalysisService) DetectOutliers(ctx context.Context, rows []dataset.Row, column string, cfg outlier.DetectionConfig) (*outlier.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report, err := s.detector.DetectColumn(rows, column, cfg)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("outliers in %s: %d of %d (%.1f%%)", column, report.OutlierCount(), report.Statistics.Count, report.Percentage)
	return report, nil
}

// detectOutliers returns nil without error when no target was named and no
// analyzed column is numeric.
func (s *AnalysisService) detectOutliers(req AnalysisRequest, profile profiling.DatasetProfile) (*outlier.Report, error) {
	target := req.TargetColumn
	if target == "" {
		target = s.defaultTarget(req.Rows, profile)
		if target == "" {
			return nil, nil
		}
	}

	report, err := s.detector.DetectColumn(req.Rows, target, req.Detection)
	if err != nil {
		if req.TargetColumn == "" && core.IsNoNumericDataError(err) {
			s.logger.Warn("implicit target %s has no numeric data", target)
			return nil, nil
		}
		return nil, err
	}
	return report, nil
}

func (s *AnalysisService) defaultTarget(rows []dataset.Row, profile profiling.DatasetProfile) string {
	for _, cp := range profile.Columns {
		switch cp.SemanticType {
		case profiling.TypeNumeric:
			return cp.Name
		case profiling.TypeText:
			if s.classifier.Reclassify(cp.SemanticType, dataset.NonEmptyValues(rows, cp.Name)) == profiling.TypeNumeric {
				return cp.Name
			}
		}
	}
	return ""
}

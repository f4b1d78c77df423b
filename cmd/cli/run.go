package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chartsense/adapters/api"
	"chartsense/adapters/excel"
	"chartsense/app"
	"chartsense/domain/chart"
	"chartsense/domain/dataset"
	"chartsense/domain/outlier"
	"chartsense/internal"
	"chartsense/internal/config"
	"chartsense/internal/report"
	"chartsense/ports"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type cliOptions struct {
	config      *config.Config
	format      string
	method      string
	sensitivity float64
}

func (o *cliOptions) logger() *internal.Logger {
	level, _ := internal.ParseLogLevel(o.config.Logging.Level)
	return internal.NewLogger(level)
}

func (o *cliOptions) service() *app.AnalysisService {
	return app.NewDefaultAnalysisService(o.logger())
}

// detection applies flag overrides to the configured detector settings
func (o *cliOptions) detection() (outlier.DetectionConfig, error) {
	cfg := o.config.Analysis.Detection
	if o.method != "" {
		method, err := outlier.ParseMethod(o.method)
		if err != nil {
			return cfg, err
		}
		cfg.Method = method
	}
	if o.sensitivity != 0 {
		cfg.Sensitivity = o.sensitivity
	}
	return cfg, nil
}

func (o *cliOptions) fileSource(path string) ports.RowSource {
	return excel.NewDataReaderWithConfig(excel.ReaderConfig{FilePath: path, MaxRows: o.config.Analysis.MaxRows})
}

func runAnalyze(cmd *cobra.Command, opts *cliOptions, path string, columns []string, target string) error {
	result, err := analyzeSource(cmd.Context(), opts, opts.fileSource(path), columns, target)
	if err != nil {
		return err
	}
	return write(cmd, opts.format, result, func() string {
		return report.Markdown(filepath.Base(path), result)
	})
}

func runOutliers(cmd *cobra.Command, opts *cliOptions, path, column string) error {
	table, err := opts.fileSource(path).Load(cmd.Context())
	if err != nil {
		return err
	}
	if !table.HasColumn(column) {
		return fmt.Errorf("column %q not found in %s", column, filepath.Base(path))
	}
	detection, err := opts.detection()
	if err != nil {
		return err
	}

	rep, err := opts.service().DetectOutliers(cmd.Context(), table.Rows, column, detection)
	if err != nil {
		return err
	}
	return write(cmd, opts.format, rep, func() string {
		return report.OutliersMarkdown(rep)
	})
}

func runReport(cmd *cobra.Command, opts *cliOptions, path string, columns []string, title, out string, asHTML bool) error {
	result, err := analyzeSource(cmd.Context(), opts, opts.fileSource(path), columns, "")
	if err != nil {
		return err
	}

	if title == "" {
		title = filepath.Base(path)
	}
	content := []byte(report.Markdown(title, result))
	if asHTML {
		content = report.HTML(title, string(content))
	}

	if out == "" {
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}
	return os.WriteFile(out, content, 0o644)
}

// batchLine is one file's summary in batch output
type batchLine struct {
	File       string     `json:"file"`
	Rows       int        `json:"rows"`
	TopChart   chart.Kind `json:"top_chart,omitempty"`
	Confidence int        `json:"confidence"`
	X          string     `json:"x,omitempty"`
	Y          string     `json:"y,omitempty"`
	Outliers   int        `json:"outliers"`
	Error      string     `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, opts *cliOptions, paths, columns []string, concurrency int) error {
	if concurrency <= 0 {
		concurrency = opts.config.Batch.Concurrency
	}

	lines := make([]batchLine, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			line := batchLine{File: path}
			result, err := analyzeSource(ctx, opts, opts.fileSource(path), columns, "")
			if err != nil {
				// one bad file must not stop the others
				line.Error = err.Error()
				lines[i] = line
				return nil
			}

			line.Rows = result.RowCount
			if top, ok := chart.Top(result.Recommendations); ok {
				line.TopChart = top.Kind
				line.Confidence = top.Confidence
				line.X, line.Y = top.Axes.X, top.Axes.Y
			}
			if result.Outliers != nil {
				line.Outliers = result.Outliers.OutlierCount()
			}
			lines[i] = line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return write(cmd, opts.format, lines, func() string {
		var b strings.Builder
		b.WriteString("| File | Rows | Top chart | Confidence | X | Y | Outliers |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, l := range lines {
			if l.Error != "" {
				fmt.Fprintf(&b, "| %s | - | error: %s | - | - | - | - |\n", l.File, l.Error)
				continue
			}
			fmt.Fprintf(&b, "| %s | %d | %s | %d | %s | %s | %d |\n",
				l.File, l.Rows, l.TopChart, l.Confidence, l.X, l.Y, l.Outliers)
		}
		return b.String()
	})
}

func runFetch(cmd *cobra.Command, opts *cliOptions, url, dataPath string, columns []string, target string) error {
	if url == "" {
		return fmt.Errorf("no URL given and SOURCE_URL is not set")
	}
	if dataPath == "" {
		dataPath = opts.config.Source.DataPath
	}

	sourceConfig := api.DefaultSourceConfig(url)
	sourceConfig.DataPath = dataPath
	sourceConfig.Timeout = opts.config.Source.Timeout
	sourceConfig.MaxRows = opts.config.Analysis.MaxRows
	sourceConfig.MaxBodyBytes = int64(opts.config.Source.MaxBytes)

	source, err := api.NewJSONSource(sourceConfig)
	if err != nil {
		return err
	}

	result, err := analyzeSource(cmd.Context(), opts, source, columns, target)
	if err != nil {
		return err
	}
	return write(cmd, opts.format, result, func() string {
		return report.Markdown(source.Name(), result)
	})
}

func analyzeSource(ctx context.Context, opts *cliOptions, source ports.RowSource, columns []string, target string) (*app.AnalysisResult, error) {
	table, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	if target != "" && !table.HasColumn(target) {
		return nil, fmt.Errorf("target column %q not found in %s", target, source.Name())
	}
	detection, err := opts.detection()
	if err != nil {
		return nil, err
	}

	return opts.service().Analyze(ctx, app.AnalysisRequest{
		Rows:         table.Rows,
		Columns:      selectColumns(table, columns),
		TargetColumn: target,
		Detection:    detection,
	})
}

// selectColumns defaults to the first two table columns
func selectColumns(table dataset.Table, columns []string) []string {
	if len(columns) > 0 {
		return columns
	}
	if len(table.Columns) > app.MaxAnalyzedColumns {
		return table.Columns[:app.MaxAnalyzedColumns]
	}
	return table.Columns
}

func write(cmd *cobra.Command, format string, v interface{}, markdown func() string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "markdown", "md", "":
		_, err := fmt.Fprint(out, markdown())
		return err
	default:
		return fmt.Errorf("unknown format %q (use markdown|json)", format)
	}
}

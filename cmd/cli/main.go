package main

import (
	"fmt"
	"log"
	"os"

	"chartsense/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "chartsense",
		Short:         "Profile tabular data, recommend charts and flag outliers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				log.Printf("Ignoring .env: %v", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.config = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "markdown", "Output format: markdown|json")
	rootCmd.PersistentFlags().StringVar(&opts.method, "method", "", "Outlier method: iqr|zscore|isolation (default from DETECTION_METHOD)")
	rootCmd.PersistentFlags().Float64Var(&opts.sensitivity, "sensitivity", 0, "Outlier sensitivity (default from DETECTION_SENSITIVITY)")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newOutliersCmd(opts),
		newReportCmd(opts),
		newBatchCmd(opts),
		newFetchCmd(opts),
	)

	return rootCmd
}

func newAnalyzeCmd(opts *cliOptions) *cobra.Command {
	var columns []string
	var target string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Profile columns and rank chart recommendations",
		Long: `Profile up to the first two selected columns of a CSV or XLSX file, rank
chart types for them and run outlier detection on a numeric column.

Example: chartsense analyze sales.csv --columns region,sales --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args[0], columns, target)
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to analyze (default: the first two)")
	cmd.Flags().StringVar(&target, "target", "", "Numeric column for outlier detection (default: first numeric)")
	return cmd
}

func newOutliersCmd(opts *cliOptions) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "outliers [file]",
		Short: "Flag anomalous rows of one numeric column",
		Long: `Run the configurable outlier detector on one column.

Example: chartsense outliers sales.csv --column revenue --method zscore --sensitivity 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutliers(cmd, opts, args[0], column)
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Column to check")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func newReportCmd(opts *cliOptions) *cobra.Command {
	var columns []string
	var title, out string
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write a markdown or HTML analysis report",
		Long: `Analyze a file and render the result as a report.

Example: chartsense report sales.csv --html --out report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args[0], columns, title, out, asHTML)
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to analyze (default: the first two)")
	cmd.Flags().StringVar(&title, "title", "", "Report title (default: file name)")
	cmd.Flags().StringVar(&out, "out", "", "Output path (default: stdout)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render HTML instead of markdown")
	return cmd
}

func newBatchCmd(opts *cliOptions) *cobra.Command {
	var columns []string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Analyze several files concurrently and summarize the top charts",
		Long: `Analyze every file and print one summary line per file, in argument order.

Example: chartsense batch q1.csv q2.csv q3.xlsx --concurrency 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, opts, args, columns, concurrency)
		},
	}

	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to analyze in every file (default: the first two)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Files analyzed at once (default from BATCH_CONCURRENCY)")
	return cmd
}

func newFetchCmd(opts *cliOptions) *cobra.Command {
	var columns []string
	var dataPath, target string

	cmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Analyze rows fetched from a JSON endpoint",
		Long: `Fetch a JSON document, locate its records with a gjson path and analyze them.
The URL and path default to SOURCE_URL and SOURCE_DATA_PATH.

Example: chartsense fetch https://example.com/api/sales --path data.items --columns region,total`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := opts.config.Source.URL
			if len(args) == 1 {
				url = args[0]
			}
			return runFetch(cmd, opts, url, dataPath, columns, target)
		},
	}

	cmd.Flags().StringVar(&dataPath, "path", "", "gjson path of the record array (default from SOURCE_DATA_PATH)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to analyze (default: the first two)")
	cmd.Flags().StringVar(&target, "target", "", "Numeric column for outlier detection")
	return cmd
}

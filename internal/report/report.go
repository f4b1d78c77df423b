// Package report renders analysis results as markdown and HTML.
package report

import (
	"fmt"
	"strings"

	"chartsense/app"
	"chartsense/domain/outlier"
	"chartsense/domain/profiling"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MaxListedOutliers caps the row positions printed in a report
const MaxListedOutliers = 20

// DefaultTitle heads reports rendered without an explicit title
const DefaultTitle = "Dataset analysis"

// Markdown renders a full analysis result
func Markdown(title string, result *app.AnalysisResult) string {
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", text(title))
	fmt.Fprintf(&b, "Run `%s` over %d rows.\n\n", result.RunID, result.RowCount)

	writeColumns(&b, result.Profile)
	writeRecommendations(&b, result)
	if result.Outliers != nil {
		writeOutliers(&b, result.Outliers)
	}
	writeInsights(&b, "Insights", result.Profile.Insights)

	return b.String()
}

// OutliersMarkdown renders a standalone outlier report
func OutliersMarkdown(report *outlier.Report) string {
	var b strings.Builder
	writeOutliers(&b, report)
	writeInsights(&b, "Findings", report.Insights)
	return b.String()
}

// HTML converts markdown into a complete HTML page
func HTML(title, md string) []byte {
	if title == "" {
		title = DefaultTitle
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank | html.SkipHTML | html.Safelink,
	})
	return markdown.Render(doc, renderer)
}

// typeOrder fixes the order of the column type summary
var typeOrder = []profiling.SemanticType{
	profiling.TypeNumeric,
	profiling.TypeCategorical,
	profiling.TypeDate,
	profiling.TypeText,
	profiling.TypeEmpty,
}

func writeColumns(b *strings.Builder, profile profiling.DatasetProfile) {
	columns := profile.Columns
	b.WriteString("## Columns\n\n")
	if len(columns) == 0 {
		b.WriteString("No columns analyzed.\n\n")
		return
	}
	b.WriteString("| Column | Type | Unique | Total | Distribution | Trend | Outliers |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, cp := range columns {
		fmt.Fprintf(b, "| %s | %s | %d | %d | %s | %s | %d |\n",
			cell(cp.Name), cp.SemanticType, cp.UniqueCount, cp.TotalCount,
			orDash(string(cp.Distribution)), yesNo(cp.HasTrend), cp.OutlierCount)
	}
	b.WriteString("\n")

	var counts []string
	for _, t := range typeOrder {
		if n := profile.CountByType(t); n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", n, t))
		}
	}
	fmt.Fprintf(b, "Types: %s.\n\n", strings.Join(counts, ", "))
}

func writeRecommendations(b *strings.Builder, result *app.AnalysisResult) {
	b.WriteString("## Chart recommendations\n\n")
	if len(result.Recommendations) == 0 {
		b.WriteString("No recommendations.\n\n")
		return
	}
	b.WriteString("| # | Chart | Confidence | X | Y | Reason |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for i, r := range result.Recommendations {
		fmt.Fprintf(b, "| %d | %s | %d | %s | %s | %s |\n",
			i+1, r.Kind, r.Confidence, cell(r.Axes.X), cell(r.Axes.Y), cell(r.Reason))
	}
	b.WriteString("\n")

	top := result.Recommendations[0]
	fmt.Fprintf(b, "Top pick **%s**: %s.\n\n", top.Kind, text(top.Explanation))
}

func writeOutliers(b *strings.Builder, report *outlier.Report) {
	target := report.TargetColumn
	if target == "" {
		target = "values"
	}
	fmt.Fprintf(b, "## Outliers in %s\n\n", text(target))
	fmt.Fprintf(b, "Method `%s` with threshold %.2f; bounds [%.2f, %.2f].\n\n",
		report.Method, report.Threshold, report.LowerBound, report.UpperBound)

	s := report.Statistics
	b.WriteString("| Count | Mean | Median | Std dev | Min | Max | Q1 | Q3 |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	fmt.Fprintf(b, "| %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n\n",
		s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max, s.Q1, s.Q3)

	fmt.Fprintf(b, "%d outliers (%.1f%%), %d high and %d low.\n\n",
		report.OutlierCount(), report.Percentage, report.HighCount, report.LowCount)

	if n := report.OutlierCount(); n > 0 {
		listed := report.OutlierIndices
		if n > MaxListedOutliers {
			listed = listed[:MaxListedOutliers]
		}
		parts := make([]string, len(listed))
		for i, idx := range listed {
			parts[i] = fmt.Sprintf("%d (%g)", idx, report.OutlierValues[i])
		}
		fmt.Fprintf(b, "Rows: %s", strings.Join(parts, ", "))
		if n > MaxListedOutliers {
			fmt.Fprintf(b, " and %d more", n-MaxListedOutliers)
		}
		b.WriteString("\n\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("### Actions\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(b, "- **%s** (%s priority): %s\n", rec.Action, rec.Priority, text(rec.Message))
		}
		b.WriteString("\n")
	}
}

func writeInsights(b *strings.Builder, heading string, insights []profiling.Insight) {
	if len(insights) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, in := range insights {
		fmt.Fprintf(b, "- **%s**: %s\n", in.Kind, text(in.Message))
	}
	b.WriteString("\n")
}

// markup is backslash-escaped so dataset names and titles render as text
var markup = strings.NewReplacer(
	`\`, `\\`,
	"<", `\<`,
	">", `\>`,
	"&", `\&`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

func text(s string) string {
	return markup.Replace(s)
}

func cell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text(s), "|", `\|`), "\n", " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartsense/app"
	"chartsense/domain/chart"
	"chartsense/domain/outlier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "ERROR")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", "region,sales,note\nEast,100,a\nWest,150,b\nEast,120,c\n")

	out, err := run(t, "analyze", path, "--format", "json")
	require.NoError(t, err)

	var result app.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"region", "sales"}, result.Profile.Names())
	assert.Equal(t, chart.KindBar, result.Recommendations[0].Kind)

	_, err = run(t, "analyze", path, "--target", "profit")
	assert.ErrorContains(t, err, `target column "profit" not found`)
}

func TestOutliersCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "v.csv", "v\n10\n12\n11\n13\n9\n500\n")

	out, err := run(t, "outliers", path, "--column", "v", "--format", "json")
	require.NoError(t, err)

	var rep outlier.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []int{5}, rep.OutlierIndices)

	_, err = run(t, "outliers", path, "--column", "v", "--method", "lof")
	assert.Error(t, err)

	_, err = run(t, "outliers", path, "--column", "missing")
	assert.ErrorContains(t, err, `column "missing" not found`)
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "series.csv", "date,value\n2024-01-01,1\n2024-01-02,2\n2024-01-03,3\n")
	out := filepath.Join(dir, "report.html")

	_, err := run(t, "report", path, "--html", "--out", out, "--title", "Series")
	require.NoError(t, err)

	page, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Series</title>")
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "region,sales\nEast,100\nWest,150\nEast,120\n")
	b := writeFile(t, dir, "b.csv", "x,y\n1,2\n2,4\n3,6\n")
	missing := filepath.Join(dir, "missing.csv")

	out, err := run(t, "batch", a, b, missing, "--concurrency", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[2], a)
	assert.Contains(t, lines[2], "| bar | 85 | region | sales |")
	assert.Contains(t, lines[3], b)
	assert.Contains(t, lines[4], "error:")
}

func TestFetchCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"region":"East","sales":100},{"region":"West","sales":150},{"region":"East","sales":120}]}`)
	}))
	defer server.Close()

	out, err := run(t, "fetch", server.URL, "--path", "data")
	require.NoError(t, err)
	assert.Contains(t, out, "## Chart recommendations")
	assert.Contains(t, out, "| 1 | bar |")

	t.Setenv("SOURCE_URL", "")
	_, err = run(t, "fetch")
	assert.ErrorContains(t, err, "SOURCE_URL")
}

package recommend

import (
	"fmt"
	"math/rand"
	"testing"

	"chartsense/domain/chart"
	"chartsense/domain/core"
	"chartsense/domain/dataset"
	"chartsense/domain/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReclassifier records second-pass calls
type MockReclassifier struct {
	mock.Mock
}

func (m *MockReclassifier) Reclassify(current profiling.SemanticType, values []any) profiling.SemanticType {
	args := m.Called(current, values)
	return args.Get(0).(profiling.SemanticType)
}

func rowsOf(n int) []dataset.Row {
	rows := make([]dataset.Row, n)
	for i := range rows {
		rows[i] = dataset.Row{}
	}
	return rows
}

func profileOf(columns ...profiling.ColumnProfile) profiling.DatasetProfile {
	return profiling.DatasetProfile{Columns: columns}
}

func numericCol(name string) profiling.ColumnProfile {
	return profiling.ColumnProfile{Name: name, SemanticType: profiling.TypeNumeric, UniqueCount: 50, TotalCount: 100}
}

func categoricalCol(name string, unique int) profiling.ColumnProfile {
	return profiling.ColumnProfile{Name: name, SemanticType: profiling.TypeCategorical, UniqueCount: unique, TotalCount: 200}
}

func dateCol(name string) profiling.ColumnProfile {
	return profiling.ColumnProfile{Name: name, SemanticType: profiling.TypeDate, UniqueCount: 20, TotalCount: 20}
}

type ranked struct {
	Kind       chart.Kind
	Confidence int
}

func ranking(recs []chart.Recommendation) []ranked {
	out := make([]ranked, len(recs))
	for i, r := range recs {
		out[i] = ranked{r.Kind, r.Confidence}
	}
	return out
}

func TestRecommendComparisons(t *testing.T) {
	scorer := NewScorer(nil)

	profile := profileOf(categoricalCol("region", 5), numericCol("sales"))
	recs, err := scorer.Recommend(profile, rowsOf(120), []string{"region", "sales"})
	require.NoError(t, err)

	assert.Equal(t, []ranked{
		{chart.KindBar, 98},
		{chart.KindPie, 95},
		{chart.KindPie3D, 90},
		{chart.KindDoughnut, 80},
	}, ranking(recs))

	for _, r := range recs {
		assert.Equal(t, chart.Axes{X: "region", Y: "sales"}, r.Axes)
		assert.NotEmpty(t, r.Reason)
		assert.Contains(t, r.Explanation, "base")
	}
	assert.Contains(t, recs[0].Explanation, "clamped to 98")
}

func TestRecommendManyCategories(t *testing.T) {
	scorer := NewScorer(nil)

	profile := profileOf(categoricalCol("city", 25), numericCol("visits"))
	recs, err := scorer.Recommend(profile, rowsOf(50), []string{"city", "visits"})
	require.NoError(t, err)

	assert.Equal(t, []ranked{{chart.KindBar, 70}}, ranking(recs))
}

func TestRecommendTimeSeries(t *testing.T) {
	scorer := NewScorer(nil)

	value := numericCol("value")
	value.HasTrend = true
	profile := profileOf(dateCol("date"), value)

	recs, err := scorer.Recommend(profile, rowsOf(20), []string{"date", "value"})
	require.NoError(t, err)

	assert.Equal(t, []ranked{{chart.KindLine, 98}, {chart.KindArea, 93}}, ranking(recs))
	assert.Equal(t, chart.Axes{X: "date", Y: "value"}, recs[0].Axes)
}

func TestRecommendShortTimeSeries(t *testing.T) {
	scorer := NewScorer(nil)

	profile := profileOf(dateCol("date"), numericCol("value"))
	recs, err := scorer.Recommend(profile, rowsOf(3), []string{"date", "value"})
	require.NoError(t, err)

	assert.Equal(t, []ranked{{chart.KindArea, 75}, {chart.KindLine, 70}}, ranking(recs))
}

func TestRecommendNumericPair(t *testing.T) {
	scorer := NewScorer(nil)

	x := numericCol("height")
	x.OutlierCount = 2
	y := numericCol("weight")
	y.OutlierCount = 1
	y.HasTrend = true

	recs, err := scorer.Recommend(profileOf(x, y), rowsOf(25), []string{"height", "weight"})
	require.NoError(t, err)

	assert.Equal(t, []ranked{{chart.KindScatter, 98}, {chart.KindLine, 90}}, ranking(recs))
	assert.Equal(t, chart.Axes{X: "height", Y: "weight"}, recs[0].Axes)
}

func TestRecommendFallbackOrdering(t *testing.T) {
	scorer := NewScorer(nil)

	text := profiling.ColumnProfile{Name: "comment", SemanticType: profiling.TypeText, UniqueCount: 20, TotalCount: 20}
	text2 := profiling.ColumnProfile{Name: "author", SemanticType: profiling.TypeText, UniqueCount: 20, TotalCount: 20}

	recs, err := scorer.Recommend(profileOf(text, text2), rowsOf(20), []string{"comment", "author"})
	require.NoError(t, err)

	assert.Equal(t, []ranked{
		{chart.KindBar, 85},
		{chart.KindLine, 80},
		{chart.KindArea, 75},
		{chart.KindPie, 75},
		{chart.KindPie3D, 70},
		{chart.KindDoughnut, 70},
	}, ranking(recs))
	for _, r := range recs {
		assert.Equal(t, chart.Axes{X: "comment", Y: "author"}, r.Axes)
	}
}

func TestRecommendCategoricalOnlyFallsBack(t *testing.T) {
	scorer := NewScorer(nil)

	profile := profileOf(categoricalCol("a", 3), categoricalCol("b", 4))
	assert.True(t, scorer.DerivePredicates(profile, rowsOf(4)).HasCategoricalOnly)

	recs, err := scorer.Recommend(profile, rowsOf(4), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []ranked{
		{chart.KindBar, 85},
		{chart.KindPie, 75},
		{chart.KindPie3D, 70},
		{chart.KindDoughnut, 70},
	}, ranking(recs))
}

func TestRecommendSingleColumnFallback(t *testing.T) {
	scorer := NewScorer(nil)

	recs, err := scorer.Recommend(profileOf(numericCol("x")), rowsOf(8), []string{"x"})
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Equal(t, chart.Axes{X: "x", Y: "x"}, recs[0].Axes)
}

func TestRecommendUnprofiledColumnFallsBack(t *testing.T) {
	scorer := NewScorer(nil)

	recs, err := scorer.Recommend(profileOf(numericCol("x")), rowsOf(8), []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, Fallback([]string{"x", "y"}, 8)[0], recs[0])
}

func TestRecommendRepeatedColumnScoredOnce(t *testing.T) {
	scorer := NewScorer(nil)
	sales := numericCol("sales")
	sales.HasTrend = true

	tests := []struct {
		name    string
		profile profiling.DatasetProfile
		columns []string
	}{
		{"repeated selection", profileOf(sales), []string{"sales", "sales"}},
		{"repeated profile", profileOf(sales, sales), []string{"sales", "sales"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, scorer.DerivePredicates(tt.profile, rowsOf(10)).HasCorrelations)

			want := Fallback([]string{"sales"}, 10)
			chart.Sort(want)

			recs, err := scorer.Recommend(tt.profile, rowsOf(10), tt.columns)
			require.NoError(t, err)
			assert.Equal(t, want, recs)
			for _, r := range recs {
				assert.NotEqual(t, chart.KindScatter, r.Kind)
			}
		})
	}
}

func TestRecommendRepeatedColumnKeepsSecondDistinct(t *testing.T) {
	scorer := NewScorer(nil)

	profile := profileOf(categoricalCol("region", 5), numericCol("sales"))
	recs, err := scorer.Recommend(profile, rowsOf(120), []string{"region", "region", "sales"})
	require.NoError(t, err)
	assert.Equal(t, chart.KindBar, recs[0].Kind)
	assert.Equal(t, chart.Axes{X: "region", Y: "sales"}, recs[0].Axes)
}

func TestRecommendNoColumns(t *testing.T) {
	scorer := NewScorer(nil)

	_, err := scorer.Recommend(profiling.DatasetProfile{}, rowsOf(3), nil)
	assert.True(t, core.IsInsufficientColumnsError(err), "got %v", err)
}

func TestRecommendReclassifiesText(t *testing.T) {
	reclassifier := new(MockReclassifier)

	rows := []dataset.Row{
		{"region": "East", "amount": "100"},
		{"region": "West", "amount": "150"},
	}
	reclassifier.On("Reclassify", profiling.TypeText, []any{"100", "150"}).Return(profiling.TypeNumeric)

	scorer := NewScorer(reclassifier)
	profile := profileOf(
		categoricalCol("region", 2),
		profiling.ColumnProfile{Name: "amount", SemanticType: profiling.TypeText, UniqueCount: 2, TotalCount: 2},
	)

	predicates := scorer.DerivePredicates(profile, rows)
	assert.True(t, predicates.HasComparisons)
	assert.True(t, predicates.HasProportions)

	recs, err := scorer.Recommend(profile, rows, []string{"region", "amount"})
	require.NoError(t, err)
	assert.Equal(t, chart.KindBar, recs[0].Kind)
	assert.Equal(t, 95, recs[0].Confidence)

	reclassifier.AssertExpectations(t)
}

func TestRecommendIdempotent(t *testing.T) {
	scorer := NewScorer(nil)

	value := numericCol("value")
	value.HasTrend = true
	profile := profileOf(dateCol("date"), value)
	rows := rowsOf(12)

	first, err := scorer.Recommend(profile, rows, []string{"date", "value"})
	require.NoError(t, err)
	second, err := scorer.Recommend(profile, rows, []string{"date", "value"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommendConfidenceProperty(t *testing.T) {
	scorer := NewScorer(nil)
	rng := rand.New(rand.NewSource(5))

	types := []profiling.SemanticType{
		profiling.TypeNumeric, profiling.TypeCategorical, profiling.TypeDate,
		profiling.TypeText, profiling.TypeEmpty,
	}

	for trial := 0; trial < 300; trial++ {
		var cols []profiling.ColumnProfile
		for i := 0; i < 2; i++ {
			cols = append(cols, profiling.ColumnProfile{
				Name:         fmt.Sprintf("c%d", i),
				SemanticType: types[rng.Intn(len(types))],
				UniqueCount:  rng.Intn(40),
				TotalCount:   40,
				HasTrend:     rng.Intn(2) == 0,
				OutlierCount: rng.Intn(3),
			})
		}

		recs, err := scorer.Recommend(profileOf(cols...), rowsOf(rng.Intn(200)), []string{"c0", "c1"})
		require.NoError(t, err)
		require.NotEmpty(t, recs)

		for i, r := range recs {
			assert.True(t, r.Kind.Valid())
			assert.GreaterOrEqual(t, r.Confidence, chart.MinConfidence)
			assert.LessOrEqual(t, r.Confidence, chart.MaxConfidence)
			if i > 0 {
				assert.GreaterOrEqual(t, recs[i-1].Confidence, r.Confidence)
			}
		}
	}
}

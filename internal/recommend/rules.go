package recommend

import (
	"fmt"

	"chartsense/domain/chart"
	"chartsense/domain/profiling"
)

// facts is everything a rule may look at, derived once per scoring run.
type facts struct {
	rowCount    int
	numeric     []profiling.ColumnProfile
	categorical []profiling.ColumnProfile
	date        []profiling.ColumnProfile
	text        []profiling.ColumnProfile
	predicates  Predicates
}

// categoryCount is the unique count of the first categorical column.
func (f facts) categoryCount() int {
	if len(f.categorical) == 0 {
		return 0
	}
	return f.categorical[0].UniqueCount
}

func (f facts) numericTrend() bool {
	for _, cp := range f.numeric {
		if cp.HasTrend {
			return true
		}
	}
	return false
}

func (f facts) numericWithOutliers() int {
	n := 0
	for _, cp := range f.numeric {
		if cp.OutlierCount > 0 {
			n++
		}
	}
	return n
}

// adjustment is one additive or subtractive term of a rule's score.
type adjustment struct {
	label string
	delta func(f facts) int
}

// when returns a fixed delta applied only while cond holds.
func when(label string, delta int, cond func(f facts) bool) adjustment {
	return adjustment{label: label, delta: func(f facts) int {
		if cond(f) {
			return delta
		}
		return 0
	}}
}

// rule is one row of the scoring table.
type rule struct {
	kind        chart.Kind
	base        int
	floor       int
	fires       func(f facts) bool
	axes        func(f facts) chart.Axes
	reason      func(f facts) string
	adjustments []adjustment
}

func categoryVsValue(f facts) chart.Axes {
	return chart.Axes{X: f.categorical[0].Name, Y: f.numeric[0].Name}
}

func timeVsValue(f facts) chart.Axes {
	return chart.Axes{X: f.date[0].Name, Y: f.numeric[0].Name}
}

func valueVsValue(f facts) chart.Axes {
	return chart.Axes{X: f.numeric[0].Name, Y: f.numeric[1].Name}
}

func proportionsUpTo(max int) func(f facts) bool {
	return func(f facts) bool {
		return f.predicates.HasProportions && f.categoryCount() <= max
	}
}

func timeSeries(f facts) bool {
	return f.predicates.HasTimeSeries && len(f.numeric) > 0
}

func between(lo, hi int) func(f facts) bool {
	return func(f facts) bool {
		n := f.categoryCount()
		return n >= lo && n <= hi
	}
}

// scoringRules is evaluated top to bottom; the order is the generation order
// used when confidence and kind priority tie.
var scoringRules = []rule{
	{
		kind:  chart.KindBar,
		base:  85,
		fires: func(f facts) bool { return f.predicates.HasComparisons },
		axes:  categoryVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Compare %s across %d %s categories", f.numeric[0].Name, f.categoryCount(), f.categorical[0].Name)
		},
		adjustments: []adjustment{
			when("at most 15 categories", 10, func(f facts) bool { return f.categoryCount() <= 15 }),
			when("more than 20 categories", -15, func(f facts) bool { return f.categoryCount() > 20 }),
			when("more than 100 rows", 5, func(f facts) bool { return f.rowCount > 100 }),
		},
	},
	{
		kind:  chart.KindLine,
		base:  90,
		fires: timeSeries,
		axes:  timeVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Track %s over %s", f.numeric[0].Name, f.date[0].Name)
		},
		adjustments: []adjustment{
			when("linear trend present", 8, facts.numericTrend),
			when("at least 10 rows", 5, func(f facts) bool { return f.rowCount >= 10 }),
			when("fewer than 5 rows", -20, func(f facts) bool { return f.rowCount < 5 }),
		},
	},
	{
		kind: chart.KindLine,
		base: 75,
		fires: func(f facts) bool {
			return f.predicates.HasNumericOnly && len(f.numeric) >= 2
		},
		axes: valueVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Follow %s against %s in row order", f.numeric[1].Name, f.numeric[0].Name)
		},
		adjustments: []adjustment{
			when("linear trend present", 10, facts.numericTrend),
			when("at least 10 rows", 5, func(f facts) bool { return f.rowCount >= 10 }),
		},
	},
	{
		kind:  chart.KindPie,
		base:  80,
		floor: 60,
		fires: proportionsUpTo(8),
		axes:  categoryVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Show each %s's share of total %s", f.categorical[0].Name, f.numeric[0].Name)
		},
		adjustments: []adjustment{
			when("3 to 6 slices", 15, between(3, 6)),
			when("more than 8 slices", -30, func(f facts) bool { return f.categoryCount() > 8 }),
		},
	},
	{
		kind:  chart.KindPie3D,
		base:  75,
		floor: 65,
		fires: proportionsUpTo(10),
		axes:  categoryVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Show %s shares by %s with depth", f.numeric[0].Name, f.categorical[0].Name)
		},
		adjustments: []adjustment{
			when("3 to 8 slices", 10, between(3, 8)),
			when("more than 50 rows", 5, func(f facts) bool { return f.rowCount > 50 }),
		},
	},
	{
		kind:  chart.KindScatter,
		base:  85,
		fires: func(f facts) bool { return f.predicates.HasCorrelations },
		axes:  valueVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Explore the relationship between %s and %s", f.numeric[0].Name, f.numeric[1].Name)
		},
		adjustments: []adjustment{
			{label: "numeric columns with outliers", delta: func(f facts) int {
				n := f.numericWithOutliers()
				if n > 2 {
					n = 2
				}
				return 10 * n
			}},
			when("at least 20 rows", 5, func(f facts) bool { return f.rowCount >= 20 }),
		},
	},
	{
		kind:  chart.KindArea,
		base:  75,
		fires: timeSeries,
		axes:  timeVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Show cumulative %s over %s", f.numeric[0].Name, f.date[0].Name)
		},
		adjustments: []adjustment{
			when("at least 15 rows", 10, func(f facts) bool { return f.rowCount >= 15 }),
			when("linear trend present", 8, facts.numericTrend),
		},
	},
	{
		kind:  chart.KindDoughnut,
		base:  70,
		floor: 60,
		fires: proportionsUpTo(8),
		axes:  categoryVsValue,
		reason: func(f facts) string {
			return fmt.Sprintf("Show %s composition by %s", f.numeric[0].Name, f.categorical[0].Name)
		},
		adjustments: []adjustment{
			when("3 to 6 segments", 10, between(3, 6)),
		},
	},
}

// fallbackEntry is one row of the unconditioned default set.
type fallbackEntry struct {
	kind       chart.Kind
	confidence int
	minRows    int // emitted only when rowCount exceeds this; -1 means always
	reason     string
}

var fallbackRules = []fallbackEntry{
	{kind: chart.KindBar, confidence: 85, minRows: -1, reason: "Bar charts read well for most column pairs"},
	{kind: chart.KindLine, confidence: 80, minRows: 5, reason: "Line charts show how values move across rows"},
	{kind: chart.KindPie, confidence: 75, minRows: -1, reason: "Pie charts show parts of a whole"},
	{kind: chart.KindPie3D, confidence: 70, minRows: -1, reason: "3D pie charts show parts of a whole with depth"},
	{kind: chart.KindArea, confidence: 75, minRows: 10, reason: "Area charts show volume across rows"},
	{kind: chart.KindDoughnut, confidence: 70, minRows: -1, reason: "Doughnut charts show composition"},
}

package chart

import "sort"

// Kind is one chart type of the fixed vocabulary
type Kind string

const (
	KindBar      Kind = "bar"
	KindLine     Kind = "line"
	KindPie      Kind = "pie"
	KindDoughnut Kind = "doughnut"
	KindArea     Kind = "area"
	KindScatter  Kind = "scatter"
	KindPie3D    Kind = "pie3d"
)

// priority breaks confidence ties; lower ranks first.
var priority = map[Kind]int{
	KindLine:     0,
	KindScatter:  1,
	KindBar:      2,
	KindArea:     3,
	KindPie3D:    4,
	KindPie:      5,
	KindDoughnut: 6,
}

// Priority returns the tie-break rank of a kind.
func (k Kind) Priority() int {
	if p, ok := priority[k]; ok {
		return p
	}
	return len(priority)
}

// Valid reports whether k belongs to the vocabulary.
func (k Kind) Valid() bool {
	_, ok := priority[k]
	return ok
}

// Axes names the columns pre-filled into a chart's axes
type Axes struct {
	X string `json:"x"`
	Y string `json:"y"`
}

// Recommendation is one ranked chart suggestion
type Recommendation struct {
	Kind        Kind   `json:"chart_kind"`
	Confidence  int    `json:"confidence"` // 0-100, heuristic, not a probability
	Reason      string `json:"reason"`
	Explanation string `json:"explanation"`
	Axes        Axes   `json:"axes"`
}

const (
	MinConfidence = 0
	MaxConfidence = 100
)

// Sort orders recommendations by confidence descending, then by kind
// priority. Equal entries keep their generation order.
func Sort(recs []Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Confidence != recs[j].Confidence {
			return recs[i].Confidence > recs[j].Confidence
		}
		return recs[i].Kind.Priority() < recs[j].Kind.Priority()
	})
}

// Top returns the highest ranked recommendation of an already sorted list.
func Top(recs []Recommendation) (Recommendation, bool) {
	if len(recs) == 0 {
		return Recommendation{}, false
	}
	return recs[0], true
}

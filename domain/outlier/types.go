package outlier

import (
	"fmt"
	"strings"

	"chartsense/domain/profiling"
)

// Method selects an outlier detection rule
type Method string

const (
	MethodIQR       Method = "iqr"
	MethodZScore    Method = "zscore"
	MethodIsolation Method = "isolation"
)

const (
	// DefaultSensitivity is the shared knob default (IQR multiplier).
	DefaultSensitivity = 1.5
	// DefaultZThreshold replaces DefaultSensitivity when the method is zscore.
	DefaultZThreshold = 2.0
	// IsolationIQRFactor is the fixed median-distance factor of the isolation heuristic.
	IsolationIQRFactor = 2.0

	MinIQRMultiplier = 1.0
	MaxIQRMultiplier = 3.0
)

// ParseMethod parses a method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodIQR:
		return MethodIQR, nil
	case MethodZScore, "z-score", "z":
		return MethodZScore, nil
	case MethodIsolation:
		return MethodIsolation, nil
	}
	return "", fmt.Errorf("unknown detection method %q (use iqr|zscore|isolation)", s)
}

// DetectionConfig holds the user-facing detector settings. One sensitivity
// knob is shared by all methods with a method-specific meaning.
type DetectionConfig struct {
	Method      Method  `json:"method"`
	Sensitivity float64 `json:"sensitivity"`
}

// DefaultDetectionConfig returns iqr with the 1.5 multiplier
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		Method:      MethodIQR,
		Sensitivity: DefaultSensitivity,
	}
}

// Threshold returns the method-specific interpretation of Sensitivity.
//   - iqr: the multiplier k, clamped to [1.0, 3.0]; 0 means default.
//   - zscore: the |z| threshold; 0 or the untouched shared default mean 2.0.
//   - isolation: the fixed 2×IQR factor; sensitivity is not consulted.
func (c DetectionConfig) Threshold() float64 {
	switch c.Method {
	case MethodZScore:
		if c.Sensitivity <= 0 || c.Sensitivity == DefaultSensitivity {
			return DefaultZThreshold
		}
		return c.Sensitivity
	case MethodIsolation:
		return IsolationIQRFactor
	default:
		k := c.Sensitivity
		if k <= 0 {
			return DefaultSensitivity
		}
		if k < MinIQRMultiplier {
			return MinIQRMultiplier
		}
		if k > MaxIQRMultiplier {
			return MaxIQRMultiplier
		}
		return k
	}
}

// Normalized fills an unset method with iqr.
func (c DetectionConfig) Normalized() DetectionConfig {
	if c.Method == "" {
		c.Method = MethodIQR
	}
	return c
}

// Statistics summarizes the target column's numeric values
type Statistics struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// IQR returns q3 - q1.
func (s Statistics) IQR() float64 { return s.Q3 - s.Q1 }

// Priority ranks an action recommendation
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Action names a follow-up step
type Action string

const (
	ActionInvestigate Action = "investigate"
	ActionValidate    Action = "validate"
	ActionAnalyze     Action = "analyze"
	ActionMonitor     Action = "monitor"
)

// ActionRecommendation is a prioritized follow-up for a detection result
type ActionRecommendation struct {
	Action   Action   `json:"action"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority"`
}

// Report is the outcome of running the detector on one target column.
// OutlierIndices are row positions in the supplied row sequence and are
// parallel to OutlierValues.
type Report struct {
	TargetColumn    string                 `json:"target_column"`
	Method          Method                 `json:"method"`
	Threshold       float64                `json:"threshold"`
	Statistics      Statistics             `json:"statistics"`
	LowerBound      float64                `json:"lower_bound"`
	UpperBound      float64                `json:"upper_bound"`
	OutlierIndices  []int                  `json:"outlier_indices"`
	OutlierValues   []float64              `json:"outlier_values"`
	HighCount       int                    `json:"high_count"`
	LowCount        int                    `json:"low_count"`
	Percentage      float64                `json:"percentage"`
	Insights        []profiling.Insight    `json:"insights"`
	Recommendations []ActionRecommendation `json:"recommendations"`
}

// OutlierCount returns the number of flagged rows.
func (r *Report) OutlierCount() int {
	return len(r.OutlierIndices)
}

// IsOutlierRow reports whether a row position was flagged.
func (r *Report) IsOutlierRow(index int) bool {
	for _, i := range r.OutlierIndices {
		if i == index {
			return true
		}
	}
	return false
}

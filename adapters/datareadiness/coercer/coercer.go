package coercer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"chartsense/domain/dataset"
)

// TypeCoercer turns raw cell values into strings, finite numbers and
// calendar dates with fixed, deterministic rules
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines which common notations are accepted
type CoercionConfig struct {
	AllowCurrency  bool `json:"allow_currency"`  // leading $, €, £, ¥
	AllowPercent   bool `json:"allow_percent"`   // trailing %
	AllowThousands bool `json:"allow_thousands"` // 1,234,567.89
	AllowParens    bool `json:"allow_parens"`    // (123) -> -123
	MinYear        int  `json:"min_year"`        // exclusive
	MaxYear        int  `json:"max_year"`        // exclusive
}

// DefaultCoercionConfig returns the notations accepted by the classifier
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		AllowCurrency:  true,
		AllowPercent:   true,
		AllowThousands: true,
		AllowParens:    true,
		MinYear:        1900,
		MaxYear:        2100,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

var (
	plainNumber     = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	thousandsNumber = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

	// Literal date layouts. Groups are (year, month, day) positions per pattern.
	isoDate   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:[T ]\d{1,2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?$`)
	usSlash   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	usDash    = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	yearSlash = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
)

type datePattern struct {
	re               *regexp.Regexp
	year, month, day int
}

var datePatterns = []datePattern{
	{re: isoDate, year: 1, month: 2, day: 3},
	{re: usSlash, year: 3, month: 1, day: 2},
	{re: usDash, year: 3, month: 1, day: 2},
	{re: yearSlash, year: 1, month: 2, day: 3},
}

// ToString converts a raw value to the string used for distinct counting
func (c *TypeCoercer) ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		if s, ok := val.(fmt.Stringer); ok {
			return strings.TrimSpace(s.String())
		}
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

// ParseNumeric returns the finite number a raw value represents
func (c *TypeCoercer) ParseNumeric(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil, bool, time.Time:
		return 0, false
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case int16:
		f = float64(val)
	case int8:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint64:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint8:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		return c.parseNumericString(val)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseNumericString accepts plain decimals plus the common currency,
// percent, thousands-separator and accounting-negative notations
func (c *TypeCoercer) parseNumericString(s string) (float64, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, false
	}

	negative := false
	if c.config.AllowParens && strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSpace(clean[1 : len(clean)-1])
		negative = true
	}

	if c.config.AllowCurrency {
		for _, symbol := range []string{"$", "€", "£", "¥"} {
			if strings.HasPrefix(clean, symbol) {
				clean = strings.TrimSpace(strings.TrimPrefix(clean, symbol))
				break
			}
			if strings.HasPrefix(clean, "-"+symbol) {
				clean = "-" + strings.TrimSpace(strings.TrimPrefix(clean, "-"+symbol))
				break
			}
		}
	}

	if c.config.AllowPercent && strings.HasSuffix(clean, "%") {
		clean = strings.TrimSpace(strings.TrimSuffix(clean, "%"))
	}

	if c.config.AllowThousands && thousandsNumber.MatchString(clean) {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	if !plainNumber.MatchString(clean) {
		return 0, false
	}

	f, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// ParseDate returns the calendar date a raw value represents. Only the
// literal layouts are accepted, the date must exist, and the year must lie
// strictly between MinYear and MaxYear.
func (c *TypeCoercer) ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if !c.yearInRange(val.Year()) {
			return time.Time{}, false
		}
		return val, true
	case string:
		return c.parseDateString(strings.TrimSpace(val))
	default:
		return time.Time{}, false
	}
}

func (c *TypeCoercer) parseDateString(s string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}

		year, _ := strconv.Atoi(m[p.year])
		month, _ := strconv.Atoi(m[p.month])
		day, _ := strconv.Atoi(m[p.day])

		if !c.yearInRange(year) || month < 1 || month > 12 || day < 1 {
			return time.Time{}, false
		}

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes Feb 30 into March; reject it
		if t.Month() != time.Month(month) || t.Day() != day {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

func (c *TypeCoercer) yearInRange(year int) bool {
	return year > c.config.MinYear && year < c.config.MaxYear
}

// NumericValues parses each raw value, dropping the ones that are not finite numbers
func (c *TypeCoercer) NumericValues(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := c.ParseNumeric(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// NumericPoints parses one column of rows, keeping each value's row position
func (c *TypeCoercer) NumericPoints(rows []dataset.Row, column string) []dataset.IndexedValue {
	points := make([]dataset.IndexedValue, 0, len(rows))
	for i, row := range rows {
		v, ok := row[column]
		if !ok || dataset.IsEmptyValue(v) {
			continue
		}
		if f, ok := c.ParseNumeric(v); ok {
			points = append(points, dataset.IndexedValue{Index: i, Value: f})
		}
	}
	return points
}

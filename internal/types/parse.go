package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// floatStrategy is one way of reading a number out of a loosely typed JSON value.
type floatStrategy func(v any) (float64, bool)

// quantityStrategies are tried in order; the first success wins.
var quantityStrategies = []floatStrategy{
	fromNumber,
	fromNumericString,
	fromGramString,
}

// ParseQuantity reads a finite number from v, returning 0 and false when no
// strategy applies.
func ParseQuantity(v any) (float64, bool) {
	return firstFloat(quantityStrategies, v)
}

// ParseFlag reads a feature value: booleans map to 0/1, numbers are taken as-is.
func ParseFlag(v any) (float64, bool) {
	return firstFloat([]floatStrategy{fromBool, fromNumber, fromNumericString}, v)
}

// ParseLimit reads a whole number for a field checked against an upper
// bound. Fractional input rounds up and out-of-range input saturates, so a
// parsable value never lands below what the caller sent. Unparsable input is 0.
func ParseLimit(v any) int {
	f, ok := firstFloat([]floatStrategy{fromNumber, fromNumericString}, v)
	if !ok {
		return 0
	}
	f = math.Ceil(f)
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// ParseID reads a positive integral id.
func ParseID(v any) (int64, bool) {
	f, ok := firstFloat([]floatStrategy{fromNumber, fromNumericString}, v)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64/2 {
		return 0, false
	}
	return int64(f), true
}

func firstFloat(strategies []floatStrategy, v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	for _, s := range strategies {
		if f, ok := s(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}

func fromNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func fromNumericString(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// fromGramString accepts values such as "250g" or "250 g".
func fromGramString(v any) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if !strings.HasSuffix(s, "g") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "g")), 64)
	return f, err == nil
}

func fromBool(v any) (float64, bool) {
	b, ok := v.(bool)
	if !ok {
		return 0, false
	}
	if b {
		return 1, true
	}
	return 0, true
}

// timeLayouts are tried in order. Layouts without a zone are read in the
// reference location.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// ParseTime reads a timestamp or calendar date from v.
func ParseTime(v any, loc *time.Location) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Package formula evaluates the hardcoded workbook formulas of the project finance model.
// Each formula is an entry in a fixed table keyed by field id; there is no expression parser.
package formula

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format used for every date the engine emits.
const DateLayout = "2006-01-02"

// dateLayouts are the accepted input formats, tried in order.
// The workbook export writes dates as "2025-01-01 00:00:00+00:00".
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Context maps a field id to the raw value supplied by form input.
// Values are numbers, ISO date strings, time.Time, plain strings or absent.
type Context map[string]interface{}

// Results maps a derived field id to its computed value.
type Results map[string]interface{}

// Has reports whether the field is present with a non-nil value.
func (c Context) Has(id string) bool {
	v, ok := c[id]
	return ok && v != nil
}

// Raw returns the stored value untouched.
func (c Context) Raw(id string) (interface{}, bool) {
	v, ok := c[id]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Number returns the field as a float64.
// Numeric strings are accepted since form payloads often carry them.
func (c Context) Number(id string) (float64, bool) {
	v, ok := c.Raw(id)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// NumberOr returns the field as a number, or def when the field is absent, unparsable or zero.
// This mirrors the `value || def` fallback of the workbook port.
func (c Context) NumberOr(id string, def float64) float64 {
	n, ok := c.Number(id)
	if !ok || n == 0 {
		return def
	}
	return n
}

// Date returns the field as a calendar date (midnight UTC), keeping the day as written.
func (c Context) Date(id string) (time.Time, bool) {
	v, ok := c.Raw(id)
	if !ok {
		return time.Time{}, false
	}
	return toDate(v)
}

// Truthy reports whether the field is present and not a zero value.
func (c Context) Truthy(id string) bool {
	v, ok := c.Raw(id)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case time.Time:
		return !t.IsZero()
	}
	if n, ok := toNumber(v); ok {
		return n != 0
	}
	return true
}

// toNumber converts v to a finite float64. NaN and infinities are rejected.
func toNumber(v interface{}) (float64, bool) {
	f, ok := rawNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func rawNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

func toDate(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				y, m, d := parsed.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

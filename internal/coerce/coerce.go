// Package coerce turns the loosely typed scalars found in export payloads
// into typed values. Every function reports absence with ok == false instead
// of substituting a default; whether absence is fatal is up to the caller.
package coerce

import (
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Common unit scale factors.
const (
	HoursToMinutes   = 60.0
	SecondsToMinutes = 1.0 / 60.0
	Identity         = 1.0
)

// scaledPrecision drops binary float noise (1.15*60 = 68.99999999999999)
// before truncating a scaled quantity.
const scaledPrecision = 1e6

// Absent reports whether raw carries no usable value.
func Absent(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}

// Float parses a numeric scalar. Booleans, containers, NaN and Inf are absent.
func Float(raw any) (float64, bool) {
	if Absent(raw) {
		return 0, false
	}
	switch v := raw.(type) {
	case bool, map[string]any, []any:
		return 0, false
	case string:
		raw = strings.TrimSpace(v)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int multiplies a numeric scalar by scale and truncates toward zero.
func Int(raw any, scale float64) (int64, bool) {
	f, ok := Float(raw)
	if !ok {
		return 0, false
	}
	v := math.Round(f*scale*scaledPrecision) / scaledPrecision
	v = math.Trunc(v)
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, false
	}
	return int64(v), true
}

// String returns the trimmed textual form of a scalar.
func String(raw any) (string, bool) {
	if Absent(raw) {
		return "", false
	}
	switch raw.(type) {
	case map[string]any, []any:
		return "", false
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Timestamp parses a date-time in any of the layouts the export apps emit
// ("2024-01-15 07:00:00 -0800", RFC3339, naive ISO, date only). Values without
// a zone are read as UTC. The result is always in UTC.
func Timestamp(raw any) (time.Time, bool) {
	t, ok := parse(raw)
	if !ok {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// Date returns the calendar date of raw as midnight UTC. The date is taken
// from the wall clock of the source value, so "2024-01-15 00:30:00 +0100"
// stays on the 15th.
func Date(raw any) (time.Time, bool) {
	t, ok := parse(raw)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func parse(raw any) (time.Time, bool) {
	if Absent(raw) {
		return time.Time{}, false
	}
	switch v := raw.(type) {
	case bool, float64, float32, map[string]any, []any:
		return time.Time{}, false
	case string:
		raw = strings.TrimSpace(v)
	}
	t, err := cast.ToTimeInDefaultLocationE(raw, time.UTC)
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	// Time-only and year-less layouts ("7:00AM", "Jan 15 08:00:00") parse
	// into year 0 and would all share one key.
	if t.Year() < 1 {
		return time.Time{}, false
	}
	return t, true
}

// NonNegativeInt is Int restricted to values >= 0; anything else is absent.
func NonNegativeInt(raw any, scale float64) *int64 {
	v, ok := Int(raw, scale)
	if !ok || v < 0 {
		return nil
	}
	return &v
}

// PositiveInt is Int restricted to values > 0; used for heart rates.
func PositiveInt(raw any) *int64 {
	v, ok := Int(raw, Identity)
	if !ok || v <= 0 {
		return nil
	}
	return &v
}

// NonNegativeFloat is Float restricted to values >= 0.
func NonNegativeFloat(raw any, scale float64) *float64 {
	v, ok := Float(raw)
	if !ok {
		return nil
	}
	v *= scale
	if v < 0 {
		return nil
	}
	return &v
}

// OptionalString returns a pointer to the trimmed string or nil.
func OptionalString(raw any) *string {
	s, ok := String(raw)
	if !ok {
		return nil
	}
	return &s
}

// OptionalTimestamp returns a pointer to the parsed UTC time or nil.
func OptionalTimestamp(raw any) *time.Time {
	t, ok := Timestamp(raw)
	if !ok {
		return nil
	}
	return &t
}

package coerce

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
		ok   bool
	}{
		{"float", 7.5, 7.5, true},
		{"int", 110, 110, true},
		{"numeric string", " 98.6 ", 98.6, true},
		{"nil", nil, 0, false},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"garbage", "abc", 0, false},
		{"bool", true, 0, false},
		{"object", map[string]any{"qty": 1}, 0, false},
		{"nan", "NaN", 0, false},
		{"zero stays zero", 0.0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Float(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntScalesAndTruncates(t *testing.T) {
	v, ok := Int(7.5, HoursToMinutes)
	require.True(t, ok)
	assert.Equal(t, int64(450), v)

	v, ok = Int("1.5", HoursToMinutes)
	require.True(t, ok)
	assert.Equal(t, int64(90), v)

	// 1.15h is 69 minutes even though 1.15*60 is not exact in binary.
	v, ok = Int(1.15, HoursToMinutes)
	require.True(t, ok)
	assert.Equal(t, int64(69), v)

	v, ok = Int(12.9, Identity)
	require.True(t, ok)
	assert.Equal(t, int64(12), v)

	v, ok = Int(-0.5, HoursToMinutes)
	require.True(t, ok)
	assert.Equal(t, int64(-30), v, "no clamping")

	_, ok = Int(nil, HoursToMinutes)
	assert.False(t, ok)
}

func TestIntRejectsOutOfRange(t *testing.T) {
	_, ok := Int(int64(math.MaxInt64), Identity)
	assert.False(t, ok, "2^63 does not fit in int64")

	_, ok = Int(1e19, Identity)
	assert.False(t, ok)

	_, ok = Int("-1e19", Identity)
	assert.False(t, ok)

	v, ok := Int(int64(1)<<53, Identity)
	require.True(t, ok)
	assert.Equal(t, int64(1)<<53, v)
}

func TestRangeHelpers(t *testing.T) {
	assert.Nil(t, NonNegativeInt(-1, Identity))
	require.NotNil(t, NonNegativeInt(0, Identity))
	assert.Equal(t, int64(0), *NonNegativeInt(0, Identity))
	assert.Nil(t, PositiveInt(0))
	assert.Equal(t, int64(62), *PositiveInt("62"))
	assert.Nil(t, NonNegativeFloat("x", Identity))
	assert.InDelta(t, 2.5, *NonNegativeFloat(2500.0, 0.001), 1e-9)
}

func TestString(t *testing.T) {
	s, ok := String("  Running ")
	assert.True(t, ok)
	assert.Equal(t, "Running", s)

	s, ok = String(42)
	assert.True(t, ok)
	assert.Equal(t, "42", s)

	_, ok = String("")
	assert.False(t, ok)
	assert.Nil(t, OptionalString(nil))
}

func TestTimestampLayouts(t *testing.T) {
	want := time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC)
	for _, raw := range []string{
		"2024-01-15 07:00:00 -0800",
		"2024-01-15T07:00:00-08:00",
		"2024-01-15T15:00:00Z",
		"2024-01-15T15:00:00",
		"2024-01-15 15:00:00",
	} {
		got, ok := Timestamp(raw)
		require.True(t, ok, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
		assert.Equal(t, time.UTC, got.Location())
	}

	_, ok := Timestamp("yesterday")
	assert.False(t, ok)
	_, ok = Timestamp(nil)
	assert.False(t, ok)
	_, ok = Timestamp(12.5)
	assert.False(t, ok)
}

func TestTimestampRejectsYearlessLayouts(t *testing.T) {
	for _, raw := range []string{"7:00AM", "Jan 15 08:00:00", "Jan 15 08:00:00.000"} {
		_, ok := Timestamp(raw)
		assert.False(t, ok, raw)
		_, ok = Date(raw)
		assert.False(t, ok, raw)
		assert.Nil(t, OptionalTimestamp(raw), raw)
	}
}

func TestDateStripsTimeOfDay(t *testing.T) {
	d, ok := Date("2024-01-15 00:00:00")
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", d.Format("2006-01-02"))

	// Wall clock date of the source value, not the UTC date.
	d, ok = Date("2024-01-15 23:30:00 -0800")
	require.True(t, ok)
	assert.Equal(t, "2024-01-15", d.Format("2006-01-02"))
	assert.Zero(t, d.Hour())

	_, ok = Date("")
	assert.False(t, ok)
}

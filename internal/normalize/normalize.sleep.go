// FilePath: internal/normalize/normalize.sleep.go
package normalize

import (
	"math"

	"github.com/itsatony/healthhub/internal/coerce"
	"github.com/itsatony/healthhub/internal/models"
)

func decodeSleepMetrics(ms []Metric) []models.SleepRecord {
	var out []models.SleepRecord
	for _, m := range ms {
		for _, sample := range m.Data {
			out = append(out, sleepFromSample(sample))
		}
	}
	return out
}

// sleepFromSample converts one nightly sleep_analysis sample. Stage values
// are exported in hours.
func sleepFromSample(s map[string]any) models.SleepRecord {
	var r models.SleepRecord
	if d, ok := coerce.Date(s["date"]); ok {
		r.Date = d
	}
	r.Bedtime = coerce.OptionalTimestamp(first(s, "inBedStart", "sleepStart"))
	r.WakeTime = coerce.OptionalTimestamp(first(s, "inBedEnd", "sleepEnd"))
	r.SleepDurationMinutes = coerce.NonNegativeInt(first(s, "totalSleep", "asleep"), coerce.HoursToMinutes)
	r.DeepSleepMinutes = coerce.NonNegativeInt(s["deep"], coerce.HoursToMinutes)
	r.LightSleepMinutes = coerce.NonNegativeInt(first(s, "core", "light"), coerce.HoursToMinutes)
	r.RemSleepMinutes = coerce.NonNegativeInt(s["rem"], coerce.HoursToMinutes)
	r.SleepEfficiency = sleepEfficiency(s)
	r.HeartRateAvg = coerce.PositiveInt(first(s, "heartRateAvg", "avgHeartRate"))
	r.HeartRateMin = coerce.PositiveInt(first(s, "heartRateMin", "minHeartRate"))
	r.HeartRateMax = coerce.PositiveInt(first(s, "heartRateMax", "maxHeartRate"))
	return r
}

// sleepEfficiency prefers an explicit percentage and otherwise derives it
// from time asleep over time in bed. Values outside 0..100 are dropped.
func sleepEfficiency(s map[string]any) *float64 {
	if v, ok := coerce.Float(first(s, "sleepEfficiency", "efficiency")); ok {
		return percent(v)
	}
	asleep, ok := coerce.Float(first(s, "totalSleep", "asleep"))
	if !ok {
		return nil
	}
	inBed, ok := coerce.Float(s["inBed"])
	if !ok || inBed <= 0 {
		return nil
	}
	return percent(math.Round(asleep/inBed*10000) / 100)
}

func percent(v float64) *float64 {
	if v < 0 || v > 100 {
		return nil
	}
	return &v
}

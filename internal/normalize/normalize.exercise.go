// FilePath: internal/normalize/normalize.exercise.go
package normalize

import (
	"strings"

	"github.com/itsatony/healthhub/internal/coerce"
	"github.com/itsatony/healthhub/internal/models"
)

const (
	kcalPerKJ = 1 / 4.184
	kmPerMile = 1.609344
	kmPerYard = 0.0009144
)

func decodeWorkouts(ws []map[string]any) []models.ExerciseRecord {
	out := make([]models.ExerciseRecord, 0, len(ws))
	for _, w := range ws {
		out = append(out, exerciseFromWorkout(w))
	}
	return out
}

func exerciseFromWorkout(w map[string]any) models.ExerciseRecord {
	var r models.ExerciseRecord
	start, hasStart := coerce.Timestamp(w["start"])
	if hasStart {
		r.Timestamp = start
	}

	label, ok := coerce.String(first(w, "name", "workoutName", "workoutActivityType"))
	if !ok {
		label = models.DefaultActivityType
	}
	r.ActivityType = &label

	if end, ok := coerce.Timestamp(w["end"]); ok && hasStart && end.After(start) {
		minutes := int64(end.Sub(start).Minutes())
		r.DurationMinutes = &minutes
	} else {
		qty, units := quantity(w["duration"])
		r.DurationMinutes = coerce.NonNegativeInt(qty, durationScale(units))
	}

	qty, units := quantity(w["activeEnergyBurned"])
	if kcal := coerce.NonNegativeFloat(qty, energyScale(units)); kcal != nil {
		active := *kcal
		r.CaloriesBurned = kcal
		r.ActiveEnergyKcal = &active
	}

	qty, units = quantity(w["distance"])
	r.DistanceKm = coerce.NonNegativeFloat(qty, distanceScale(units))

	r.Steps = workoutSteps(w["stepCount"])
	r.HeartRateAvg, r.HeartRateMax = workoutHeartRate(w)
	return r
}

func decodeExerciseMetrics(ms []Metric) []models.ExerciseRecord {
	var out []models.ExerciseRecord
	for _, m := range ms {
		for _, sample := range m.Data {
			r := models.ExerciseRecord{}
			if ts, ok := coerce.Timestamp(sample["date"]); ok {
				r.Timestamp = ts
			}
			label := models.DefaultActivityType
			r.ActivityType = &label
			r.DurationMinutes = coerce.NonNegativeInt(sample["qty"], coerce.Identity)
			out = append(out, r)
		}
	}
	return out
}

// workoutSteps accepts a scalar, a quantity object, or a list of per-minute
// samples that are summed.
func workoutSteps(raw any) *int64 {
	if list, ok := raw.([]any); ok {
		var total int64
		var seen bool
		for _, item := range objects(list) {
			if v, ok := coerce.Int(item["qty"], coerce.Identity); ok && v >= 0 {
				total += v
				seen = true
			}
		}
		if !seen {
			return nil
		}
		return &total
	}
	qty, _ := quantity(raw)
	return coerce.NonNegativeInt(qty, coerce.Identity)
}

func workoutHeartRate(w map[string]any) (avgHR, maxHR *int64) {
	if hr, ok := w["heartRate"].(map[string]any); ok {
		a, _ := quantity(hr["avg"])
		m, _ := quantity(hr["max"])
		avgHR, maxHR = coerce.PositiveInt(a), coerce.PositiveInt(m)
	}
	if avgHR == nil {
		a, _ := quantity(w["avgHeartRate"])
		avgHR = coerce.PositiveInt(a)
	}
	if maxHR == nil {
		m, _ := quantity(w["maxHeartRate"])
		maxHR = coerce.PositiveInt(m)
	}
	return avgHR, maxHR
}

func energyScale(units string) float64 {
	switch strings.ToLower(units) {
	case "kj":
		return kcalPerKJ
	}
	return coerce.Identity
}

// durationScale converts a workout duration to minutes; a bare number is
// seconds.
func durationScale(units string) float64 {
	switch strings.ToLower(units) {
	case "min":
		return coerce.Identity
	case "hr", "h":
		return coerce.HoursToMinutes
	}
	return coerce.SecondsToMinutes
}

func distanceScale(units string) float64 {
	switch strings.ToLower(units) {
	case "mi":
		return kmPerMile
	case "m":
		return 0.001
	case "yd":
		return kmPerYard
	}
	return coerce.Identity
}

// FilePath: internal/models/models.exercise.go
package models

import "time"

// DefaultActivityType labels exercise samples whose source carries no name.
const DefaultActivityType = "Exercise"

// ExerciseRecord is one workout or exercise-time sample, keyed by its timestamp.
type ExerciseRecord struct {
	ID                int64     `json:"id,omitempty" db:"id"`
	Timestamp         time.Time `json:"timestamp" db:"timestamp"`
	ActivityType      *string   `json:"activity_type,omitempty" db:"activity_type"`
	DurationMinutes   *int64    `json:"duration_minutes,omitempty" db:"duration_minutes"`
	CaloriesBurned    *float64  `json:"calories_burned,omitempty" db:"calories_burned"`
	DistanceKm        *float64  `json:"distance_km,omitempty" db:"distance_km"`
	Steps             *int64    `json:"steps,omitempty" db:"steps"`
	HeartRateAvg      *int64    `json:"heart_rate_avg,omitempty" db:"heart_rate_avg"`
	HeartRateMax      *int64    `json:"heart_rate_max,omitempty" db:"heart_rate_max"`
	ActiveEnergyKcal  *float64  `json:"active_energy_kcal,omitempty" db:"active_energy_kcal"`
	RestingEnergyKcal *float64  `json:"resting_energy_kcal,omitempty" db:"resting_energy_kcal"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

func (r ExerciseRecord) Key() string {
	if r.Timestamp.IsZero() {
		return ""
	}
	return r.Timestamp.UTC().Format(time.RFC3339)
}

// Validate rejects records that must not be stored.
func (r ExerciseRecord) Validate() error {
	if r.Timestamp.IsZero() {
		return ErrMissingKey
	}
	return nil
}

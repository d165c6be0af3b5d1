// FilePath: internal/models/models.sleep.go
package models

import "time"

// SleepRecord is one night of sleep, keyed by calendar date.
type SleepRecord struct {
	ID                   int64      `json:"id,omitempty" db:"id"`
	Date                 time.Time  `json:"date" db:"date"`
	Bedtime              *time.Time `json:"bedtime,omitempty" db:"bedtime"`
	WakeTime             *time.Time `json:"wake_time,omitempty" db:"wake_time"`
	SleepDurationMinutes *int64     `json:"sleep_duration_minutes,omitempty" db:"sleep_duration_minutes"`
	DeepSleepMinutes     *int64     `json:"deep_sleep_minutes,omitempty" db:"deep_sleep_minutes"`
	LightSleepMinutes    *int64     `json:"light_sleep_minutes,omitempty" db:"light_sleep_minutes"`
	RemSleepMinutes      *int64     `json:"rem_sleep_minutes,omitempty" db:"rem_sleep_minutes"`
	SleepEfficiency      *float64   `json:"sleep_efficiency,omitempty" db:"sleep_efficiency"`
	HeartRateAvg         *int64     `json:"heart_rate_avg,omitempty" db:"heart_rate_avg"`
	HeartRateMin         *int64     `json:"heart_rate_min,omitempty" db:"heart_rate_min"`
	HeartRateMax         *int64     `json:"heart_rate_max,omitempty" db:"heart_rate_max"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// Key returns the natural key formatted as YYYY-MM-DD, or "" when absent.
func (r SleepRecord) Key() string {
	if r.Date.IsZero() {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// Validate rejects records that must not be stored.
func (r SleepRecord) Validate() error {
	if r.Date.IsZero() {
		return ErrMissingKey
	}
	return nil
}

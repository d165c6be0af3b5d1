// FilePath: internal/models/models.glucose.go
package models

import "time"

// DefaultGlucoseUnit is assumed when the export does not name a unit.
const DefaultGlucoseUnit = "mg/dL"

// GlucoseRecord is a single blood glucose reading, keyed by its timestamp.
// Value is a pointer so that a candidate whose quantity could not be parsed
// still reaches validation and is rejected there.
type GlucoseRecord struct {
	ID        int64     `json:"id,omitempty" db:"id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
	Value     *float64  `json:"value" db:"value"`
	Unit      string    `json:"unit" db:"unit"`
	Source    *string   `json:"source,omitempty" db:"source"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (r GlucoseRecord) Key() string {
	if r.Timestamp.IsZero() {
		return ""
	}
	return r.Timestamp.UTC().Format(time.RFC3339)
}

// Validate enforces a present key and a strictly positive value.
func (r GlucoseRecord) Validate() error {
	if r.Timestamp.IsZero() {
		return ErrMissingKey
	}
	if r.Value == nil {
		return ErrMissingValue
	}
	if *r.Value <= 0 {
		return ErrNonPositiveValue
	}
	return nil
}

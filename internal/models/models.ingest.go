// FilePath: internal/models/models.ingest.go
package models

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

var (
	// ErrMissingKey is returned for records without a natural key
	ErrMissingKey = errors.New("missing natural key")
	// ErrMissingValue is returned for glucose readings without a parseable value
	ErrMissingValue = errors.New("missing or unparseable value")
	// ErrNonPositiveValue is returned for glucose readings <= 0
	ErrNonPositiveValue = errors.New("value must be greater than zero")
)

// Status is the terminal outcome of one ingestion call.
type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// UnavailableMessagePrefix starts the message of results that failed because
// the store could not be reached.
const UnavailableMessagePrefix = "database unavailable: "

// IngestResult is what every transport returns to its caller.
type IngestResult struct {
	Kind      Kind   `json:"kind,omitempty"`
	Status    Status `json:"status"`
	Processed int    `json:"processed"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Extracted int    `json:"extracted"`
	Skipped   int    `json:"skipped"`
}

// NewIngestResult stamps a result with the given time in ISO-8601.
func NewIngestResult(kind Kind, status Status, processed int, message string, at time.Time) IngestResult {
	return IngestResult{
		Kind:      kind,
		Status:    status,
		Processed: processed,
		Message:   message,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// StoreUnavailable reports whether the call failed on store connectivity.
func (r IngestResult) StoreUnavailable() bool {
	return r.Status == StatusError && strings.HasPrefix(r.Message, UnavailableMessagePrefix)
}

// HTTPStatus maps the result onto the status code REST callers receive.
func (r IngestResult) HTTPStatus() int {
	switch {
	case r.StoreUnavailable():
		return http.StatusServiceUnavailable
	case r.Status == StatusError:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// Rejection describes one record the store refused.
type Rejection struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// BatchResult summarizes one UpsertBatch call.
type BatchResult struct {
	Inserted int         `json:"inserted"`
	Updated  int         `json:"updated"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// Processed is the number of records written.
func (b BatchResult) Processed() int {
	return b.Inserted + b.Updated
}

// Batch holds the canonical records produced for exactly one kind.
type Batch struct {
	Kind     Kind
	Sleep    []SleepRecord
	Exercise []ExerciseRecord
	Glucose  []GlucoseRecord
}

// Len returns the number of records for the batch's kind.
func (b Batch) Len() int {
	switch b.Kind {
	case KindSleep:
		return len(b.Sleep)
	case KindExercise:
		return len(b.Exercise)
	case KindGlucose:
		return len(b.Glucose)
	}
	return 0
}

// IngestStatus is the last recorded outcome and running totals for one kind.
type IngestStatus struct {
	Kind           Kind         `json:"kind"`
	Last           IngestResult `json:"last"`
	Calls          int64        `json:"calls"`
	TotalProcessed int64        `json:"total_processed"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates that the input data is invalid
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnavailable indicates the store could not be reached
	ErrUnavailable = database.ErrUnavailable
)

// SleepRepository defines the interface for sleep record storage
type SleepRepository interface {
	// UpsertBatch writes records in order inside one transaction. Invalid
	// records are reported in the result and do not fail the call.
	UpsertBatch(ctx context.Context, records []models.SleepRecord) (models.BatchResult, error)
	List(ctx context.Context, q models.ListQuery) ([]models.SleepRecord, error)
	Count(ctx context.Context) (int64, error)
}

// ExerciseRepository defines the interface for exercise record storage
type ExerciseRepository interface {
	UpsertBatch(ctx context.Context, records []models.ExerciseRecord) (models.BatchResult, error)
	List(ctx context.Context, q models.ListQuery) ([]models.ExerciseRecord, error)
	Count(ctx context.Context) (int64, error)
}

// GlucoseRepository defines the interface for blood glucose storage
type GlucoseRepository interface {
	UpsertBatch(ctx context.Context, records []models.GlucoseRecord) (models.BatchResult, error)
	List(ctx context.Context, q models.ListQuery) ([]models.GlucoseRecord, error)
	Count(ctx context.Context) (int64, error)
}

// StatusRepository keeps the latest ingestion outcome per kind.
type StatusRepository interface {
	Record(ctx context.Context, result models.IngestResult) error
	Get(ctx context.Context, kind models.Kind) (*models.IngestStatus, error)
	Ping(ctx context.Context) error
}

// Store bundles the three metric repositories.
type Store struct {
	Sleep    SleepRepository
	Exercise ExerciseRepository
	Glucose  GlucoseRepository
}

package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	"github.com/itsatony/healthhub/internal/repository/sqlstore"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func newPipeline(t *testing.T) (*Pipeline, *repository.Store) {
	t.Helper()
	p := database.NewProviderWithOpener(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ingest.db"),
	}, database.Open)
	t.Cleanup(func() { _ = p.Close() })

	store := sqlstore.NewStore(p)
	return New(store, WithClock(func() time.Time { return fixedNow })), store
}

type panickingGlucose struct{}

func (panickingGlucose) UpsertBatch(context.Context, []models.GlucoseRecord) (models.BatchResult, error) {
	panic("boom")
}

func (panickingGlucose) List(context.Context, models.ListQuery) ([]models.GlucoseRecord, error) {
	return nil, nil
}

func (panickingGlucose) Count(context.Context) (int64, error) { return 0, nil }

const glucoseBody = `{"data":{"metrics":[{"name":"blood_glucose","units":"mg/dL","data":[
	{"date":"2024-01-15 08:00:00 +0000","qty":0},
	{"date":"2024-01-15 08:05:00 +0000","qty":110}
]}]}}`

func TestIngestGlucoseSkipsNonPositive(t *testing.T) {
	pipeline, store := newPipeline(t)

	res := pipeline.IngestJSON(context.Background(), models.KindGlucose, []byte(glucoseBody))
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 2, res.Extracted)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "Processed 1 glucose records", res.Message)
	assert.Equal(t, "2024-02-01T12:00:00Z", res.Timestamp)

	n, err := store.Glucose.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Re-ingesting the same payload updates instead of duplicating.
	res = pipeline.IngestJSON(context.Background(), models.KindGlucose, []byte(glucoseBody))
	assert.Equal(t, 1, res.Processed)
	n, err = store.Glucose.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIngestWarningWhenNothingValid(t *testing.T) {
	pipeline, _ := newPipeline(t)

	res := pipeline.IngestJSON(context.Background(), models.KindGlucose,
		[]byte(`{"data":{"metrics":[{"data":[{"date":"2024-01-15 08:00:00 +0000","qty":-3}]}]}}`))
	assert.Equal(t, models.StatusWarning, res.Status)
	assert.Zero(t, res.Processed)
	assert.Equal(t, "No valid glucose records to save", res.Message)
}

func TestIngestEmptyPayloadIsSuccess(t *testing.T) {
	pipeline, _ := newPipeline(t)

	for _, kind := range models.Kinds {
		res := pipeline.IngestJSON(context.Background(), kind, []byte(`{"data":{"metrics":[]}}`))
		assert.Equal(t, models.StatusSuccess, res.Status, kind)
		assert.Zero(t, res.Processed, kind)
	}
}

func TestIngestSleepScenario(t *testing.T) {
	pipeline, store := newPipeline(t)

	res := pipeline.IngestJSON(context.Background(), models.KindSleep, []byte(`{"data":{"metrics":[{"data":[
		{"date":"2024-01-15","inBedStart":"2024-01-14T23:00:00","inBedEnd":"2024-01-15T07:00:00","totalSleep":7.5,"deep":1.5}
	]}]}}`))
	require.Equal(t, models.StatusSuccess, res.Status, res.Message)
	assert.Equal(t, 1, res.Processed)

	rows, err := store.Sleep.List(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(450), *rows[0].SleepDurationMinutes)
	assert.Equal(t, int64(90), *rows[0].DeepSleepMinutes)
	assert.Nil(t, rows[0].RemSleepMinutes)
}

func TestIngestExerciseWorkoutsOnly(t *testing.T) {
	pipeline, store := newPipeline(t)

	res := pipeline.Ingest(context.Background(), models.KindExercise, map[string]any{
		"data": map[string]any{
			"workouts": []any{
				map[string]any{"name": "Walk", "start": "2024-01-15T07:00:00Z", "end": "2024-01-15T07:30:00Z"},
			},
			"metrics": []any{
				map[string]any{"data": []any{map[string]any{"date": "2024-01-15T09:00:00Z", "qty": 10.0}}},
			},
		},
	})
	assert.Equal(t, models.StatusSuccess, res.Status)
	assert.Equal(t, 1, res.Processed)

	rows, err := store.Exercise.List(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Walk", *rows[0].ActivityType)
	assert.Equal(t, int64(30), *rows[0].DurationMinutes)
}

func TestIngestDatabaseUnavailable(t *testing.T) {
	p := database.NewProviderWithOpener(config.DatabaseConfig{Driver: config.DriverPostgres}, func(context.Context, config.DatabaseConfig) (*sqlx.DB, error) {
		return nil, errors.New("connection refused")
	})
	pipeline := New(sqlstore.NewStore(p))

	res := pipeline.IngestJSON(context.Background(), models.KindGlucose, []byte(glucoseBody))
	assert.Equal(t, models.StatusError, res.Status)
	assert.Zero(t, res.Processed)
	assert.True(t, strings.HasPrefix(res.Message, "database unavailable: "), res.Message)
	assert.True(t, res.StoreUnavailable())
	assert.Equal(t, 2, res.Extracted)
}

func TestIngestMalformedJSON(t *testing.T) {
	pipeline, _ := newPipeline(t)

	res := pipeline.IngestJSON(context.Background(), models.KindSleep, []byte(`{"data":`))
	assert.Equal(t, models.StatusError, res.Status)
	assert.Zero(t, res.Processed)
	assert.Contains(t, res.Message, "invalid JSON payload")
}

func TestIngestRecoversFromPanic(t *testing.T) {
	pipeline := New(&repository.Store{Glucose: panickingGlucose{}})

	var res models.IngestResult
	require.NotPanics(t, func() {
		res = pipeline.IngestJSON(context.Background(), models.KindGlucose, []byte(glucoseBody))
	})
	assert.Equal(t, models.StatusError, res.Status)
	assert.Contains(t, res.Message, "boom")
}

func TestOnCompleted(t *testing.T) {
	pipeline, _ := newPipeline(t)

	var mu sync.Mutex
	var got []Completed
	pipeline.OnCompleted(func(c Completed) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, c)
	})

	pipeline.IngestJSON(context.Background(), models.KindGlucose, []byte(glucoseBody))
	pipeline.IngestJSON(context.Background(), models.KindSleep, []byte(`nope`))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	kinds := map[models.Kind]Completed{}
	for _, c := range got {
		kinds[c.Result.Kind] = c
	}
	assert.Equal(t, 1, kinds[models.KindGlucose].Batch.Inserted)
	assert.Len(t, kinds[models.KindGlucose].Batch.Rejected, 1)
	assert.Equal(t, models.StatusError, kinds[models.KindSleep].Result.Status)
}

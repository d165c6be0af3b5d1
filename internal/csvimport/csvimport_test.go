package csvimport

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/database"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	"github.com/itsatony/healthhub/internal/repository/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *repository.Store {
	t.Helper()
	p := database.NewProviderWithOpener(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "import.db"),
	}, database.Open)
	t.Cleanup(func() { _ = p.Close() })
	return sqlstore.NewStore(p)
}

func TestReadSleep(t *testing.T) {
	in := "\ufeffdate,bedtime,wake_time,sleep_duration_minutes,deep_sleep_minutes,sleep_efficiency,heart_rate_avg\n" +
		"2024-01-15,2024-01-14 23:00:00,2024-01-15 07:00:00,450,90,93.75,52\n" +
		",,,,,,\n" +
		"2024-01-16,,,not-a-number,,,\n" +
		"2024-01-17,,,400,,,\n"

	batch, res, err := Read(models.KindSleep, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 1, res.Empty)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, batch.Sleep, 2)

	first := batch.Sleep[0]
	assert.Equal(t, "2024-01-15", first.Key())
	assert.Equal(t, int64(450), *first.SleepDurationMinutes)
	assert.Equal(t, int64(90), *first.DeepSleepMinutes)
	assert.Nil(t, first.LightSleepMinutes)
	assert.InDelta(t, 93.75, *first.SleepEfficiency, 1e-9)
	require.NotNil(t, first.Bedtime)
	assert.Equal(t, 23, first.Bedtime.Hour())
}

func TestReadMissingKeyColumn(t *testing.T) {
	_, _, err := Read(models.KindGlucose, strings.NewReader("date,value\n2024-01-15,100\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestImportGlucose(t *testing.T) {
	store := newStore(t)
	in := "timestamp,value,unit,source\n" +
		"2024-01-15 08:00:00,104,,Dexcom\n" +
		"2024-01-15 08:05:00,0,mg/dL,Dexcom\n" +
		"2024-01-15 08:10:00,5.9,mmol/L,\n"

	res, err := Import(context.Background(), store, models.KindGlucose, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Uploaded)
	assert.Equal(t, 1, res.Skipped, "zero reading is rejected by the store")

	rows, err := store.Glucose.List(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "mmol/L", rows[0].Unit)
	assert.Equal(t, models.DefaultGlucoseUnit, rows[1].Unit)
	require.NotNil(t, rows[1].Source)
	assert.Equal(t, "Dexcom", *rows[1].Source)

	// Re-import is idempotent
	res, err = Import(context.Background(), store, models.KindGlucose, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Uploaded)
	n, err := store.Glucose.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestImportExercise(t *testing.T) {
	store := newStore(t)
	in := "timestamp,activity_type,duration_minutes,calories_burned,distance_km,steps\n" +
		"2024-01-15T07:00:00Z,Run,30,300.5,5.2,6000\n" +
		"yesterday,Walk,10,,,\n"

	res, err := Import(context.Background(), store, models.KindExercise, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Uploaded)
	assert.Equal(t, 1, res.Skipped)

	rows, err := store.Exercise.List(context.Background(), models.ListQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Run", *rows[0].ActivityType)
	assert.Equal(t, int64(6000), *rows[0].Steps)
}

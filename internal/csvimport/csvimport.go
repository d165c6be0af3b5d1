// Package csvimport backfills the store from the CSV files written by the
// older export tooling: sleep_data.csv, exercise_data.csv and
// blood_glucose.csv, one header row each with the table's column names.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/itsatony/healthhub/internal/coerce"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// ErrMissingHeader is returned when the key column of a kind is not in the header.
var ErrMissingHeader = errors.New("missing key column")

// Result counts the rows of one import.
type Result struct {
	Kind     models.Kind
	Rows     int
	Uploaded int
	Skipped  int
	// Empty counts rows without a key; they are ignored, not skipped.
	Empty int
}

type row map[string]string

// Read parses r into a batch for kind. Rows with an unparseable value are
// counted in skipped and left out of the batch.
func Read(kind models.Kind, r io.Reader) (batch models.Batch, res Result, err error) {
	batch.Kind = kind
	res.Kind = kind

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return batch, res, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	keyColumn := keyColumnFor(kind)
	if !slices.Contains(header, keyColumn) {
		return batch, res, fmt.Errorf("%w %q for %s", ErrMissingHeader, keyColumn, kind)
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return batch, res, fmt.Errorf("line %d: %w", line, err)
		}
		res.Rows++

		rw := make(row, len(header))
		for i, name := range header {
			if i < len(fields) {
				rw[name] = strings.TrimSpace(fields[i])
			}
		}
		if rw[keyColumn] == "" {
			res.Empty++
			continue
		}

		if err := appendRow(&batch, kind, rw); err != nil {
			nuts.L.Warnf("[CSVImport] %s line %d skipped: %v", kind, line, err)
			res.Skipped++
		}
	}
	return batch, res, nil
}

// Import reads r and upserts the rows. Records the store rejects are added
// to Skipped.
func Import(ctx context.Context, store *repository.Store, kind models.Kind, r io.Reader) (Result, error) {
	batch, res, err := Read(kind, r)
	if err != nil {
		return res, err
	}
	if batch.Len() == 0 {
		return res, nil
	}

	var br models.BatchResult
	switch kind {
	case models.KindSleep:
		br, err = store.Sleep.UpsertBatch(ctx, batch.Sleep)
	case models.KindExercise:
		br, err = store.Exercise.UpsertBatch(ctx, batch.Exercise)
	case models.KindGlucose:
		br, err = store.Glucose.UpsertBatch(ctx, batch.Glucose)
	}
	if err != nil {
		return res, err
	}
	res.Uploaded = br.Processed()
	res.Skipped += len(br.Rejected)
	nuts.L.Infof("[CSVImport] Uploaded %d %s records (skipped %d)", res.Uploaded, kind, res.Skipped)
	return res, nil
}

func keyColumnFor(kind models.Kind) string {
	if kind == models.KindSleep {
		return "date"
	}
	return "timestamp"
}

func appendRow(batch *models.Batch, kind models.Kind, rw row) error {
	p := parser{row: rw}
	switch kind {
	case models.KindSleep:
		rec := models.SleepRecord{
			Bedtime:              p.timestamp("bedtime"),
			WakeTime:             p.timestamp("wake_time"),
			SleepDurationMinutes: p.int("sleep_duration_minutes"),
			DeepSleepMinutes:     p.int("deep_sleep_minutes"),
			LightSleepMinutes:    p.int("light_sleep_minutes"),
			RemSleepMinutes:      p.int("rem_sleep_minutes"),
			SleepEfficiency:      p.float("sleep_efficiency"),
			HeartRateAvg:         p.int("heart_rate_avg"),
			HeartRateMin:         p.int("heart_rate_min"),
			HeartRateMax:         p.int("heart_rate_max"),
		}
		if d, ok := coerce.Date(rw["date"]); ok {
			rec.Date = d
		} else {
			p.fail("date", rw["date"])
		}
		if p.err != nil {
			return p.err
		}
		batch.Sleep = append(batch.Sleep, rec)

	case models.KindExercise:
		rec := models.ExerciseRecord{
			Timestamp:         p.key(),
			ActivityType:      coerce.OptionalString(rw["activity_type"]),
			DurationMinutes:   p.int("duration_minutes"),
			CaloriesBurned:    p.float("calories_burned"),
			DistanceKm:        p.float("distance_km"),
			Steps:             p.int("steps"),
			HeartRateAvg:      p.int("heart_rate_avg"),
			HeartRateMax:      p.int("heart_rate_max"),
			ActiveEnergyKcal:  p.float("active_energy_kcal"),
			RestingEnergyKcal: p.float("resting_energy_kcal"),
		}
		if p.err != nil {
			return p.err
		}
		batch.Exercise = append(batch.Exercise, rec)

	case models.KindGlucose:
		rec := models.GlucoseRecord{
			Timestamp: p.key(),
			Value:     p.float("value"),
			Unit:      models.DefaultGlucoseUnit,
			Source:    coerce.OptionalString(rw["source"]),
		}
		if unit, ok := coerce.String(rw["unit"]); ok {
			rec.Unit = unit
		}
		if p.err != nil {
			return p.err
		}
		batch.Glucose = append(batch.Glucose, rec)

	default:
		return fmt.Errorf("unsupported metric kind %q", kind)
	}
	return nil
}

// parser reads optional typed columns; the first bad value is kept in err.
type parser struct {
	row row
	err error
}

func (p *parser) fail(column, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q", column, value)
	}
}

func (p *parser) key() time.Time {
	t, ok := coerce.Timestamp(p.row["timestamp"])
	if !ok {
		p.fail("timestamp", p.row["timestamp"])
	}
	return t
}

func (p *parser) timestamp(column string) *time.Time {
	v := p.row[column]
	if v == "" {
		return nil
	}
	t, ok := coerce.Timestamp(v)
	if !ok {
		p.fail(column, v)
		return nil
	}
	return &t
}

func (p *parser) int(column string) *int64 {
	v := p.row[column]
	if v == "" {
		return nil
	}
	n, ok := coerce.Int(v, coerce.Identity)
	if !ok {
		p.fail(column, v)
		return nil
	}
	return &n
}

func (p *parser) float(column string) *float64 {
	v := p.row[column]
	if v == "" {
		return nil
	}
	f, ok := coerce.Float(v)
	if !ok {
		p.fail(column, v)
		return nil
	}
	return &f
}

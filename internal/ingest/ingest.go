// FilePath: internal/ingest/ingest.go
// Package ingest runs one ingestion call end to end: normalize the payload,
// store the batch and summarize the outcome for the transport.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/normalize"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// EventCompleted is emitted once after every Ingest call with a Completed value.
const EventCompleted = "ingest.completed"

// Completed describes a finished ingestion call.
type Completed struct {
	Result   models.IngestResult
	Batch    models.BatchResult
	Duration time.Duration
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock sets the clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// Pipeline is shared by every transport.
type Pipeline struct {
	store  *repository.Store
	events *nuts.EventEmitter
	now    func() time.Time
}

// New creates a pipeline writing to store.
func New(store *repository.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  store,
		events: nuts.NewEventEmitter(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IngestJSON decodes body and ingests it. Malformed JSON yields an error result.
func (p *Pipeline) IngestJSON(ctx context.Context, kind models.Kind, body []byte) models.IngestResult {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		res := models.NewIngestResult(kind, models.StatusError, 0, fmt.Sprintf("invalid JSON payload: %v", err), p.now())
		p.emit(Completed{Result: res})
		return res
	}
	return p.Ingest(ctx, kind, payload)
}

// Ingest normalizes payload for kind and upserts the records. It always
// returns a result, never an error or a panic.
func (p *Pipeline) Ingest(ctx context.Context, kind models.Kind, payload map[string]any) (res models.IngestResult) {
	started := time.Now()
	var batchRes models.BatchResult
	var extracted int

	defer func() {
		if r := recover(); r != nil {
			nuts.L.Errorf("[Ingest] Recovered from panic while ingesting %s: %v", kind, r)
			res = models.NewIngestResult(kind, models.StatusError, 0, fmt.Sprintf("internal error: %v", r), p.now())
			res.Extracted = extracted
		}
		p.emit(Completed{Result: res, Batch: batchRes, Duration: time.Since(started)})
	}()

	batch, err := normalize.Normalize(kind, payload)
	if err != nil {
		return models.NewIngestResult(kind, models.StatusError, 0, err.Error(), p.now())
	}
	extracted = batch.Len()
	nuts.L.Debugf("[Ingest] Extracted %d %s records", extracted, kind)

	batchRes, err = p.upsert(ctx, batch)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			nuts.L.Errorf("[Ingest] Store unavailable for %s: %v", kind, err)
			res = models.NewIngestResult(kind, models.StatusError, 0, models.UnavailableMessagePrefix+err.Error(), p.now())
		} else {
			nuts.L.Errorf("[Ingest] Failed to store %s records: %v", kind, err)
			res = models.NewIngestResult(kind, models.StatusError, 0, err.Error(), p.now())
		}
		res.Extracted = extracted
		return res
	}

	return p.summarize(kind, extracted, batchRes)
}

// OnCompleted registers handler for EventCompleted.
func (p *Pipeline) OnCompleted(handler func(Completed)) {
	p.events.On(EventCompleted, nuts.NID("hnd", 8), func(args ...interface{}) {
		if len(args) > 0 {
			if c, ok := args[0].(Completed); ok {
				handler(c)
			}
		}
	})
}

func (p *Pipeline) emit(c Completed) {
	p.events.Emit(EventCompleted, c)
}

func (p *Pipeline) upsert(ctx context.Context, batch models.Batch) (models.BatchResult, error) {
	if batch.Len() == 0 {
		return models.BatchResult{}, nil
	}
	switch batch.Kind {
	case models.KindSleep:
		return p.store.Sleep.UpsertBatch(ctx, batch.Sleep)
	case models.KindExercise:
		return p.store.Exercise.UpsertBatch(ctx, batch.Exercise)
	case models.KindGlucose:
		return p.store.Glucose.UpsertBatch(ctx, batch.Glucose)
	}
	return models.BatchResult{}, fmt.Errorf("unknown metric kind %q", batch.Kind)
}

func (p *Pipeline) summarize(kind models.Kind, extracted int, br models.BatchResult) models.IngestResult {
	processed := br.Processed()
	var res models.IngestResult
	if extracted > 0 && processed == 0 {
		res = models.NewIngestResult(kind, models.StatusWarning, 0, fmt.Sprintf("No valid %s records to save", kind), p.now())
	} else {
		res = models.NewIngestResult(kind, models.StatusSuccess, processed, fmt.Sprintf("Processed %d %s records", processed, kind), p.now())
	}
	res.Extracted = extracted
	res.Skipped = len(br.Rejected)

	nuts.L.Infof("[Ingest] %s: extracted=%d inserted=%d updated=%d rejected=%d",
		kind, extracted, br.Inserted, br.Updated, len(br.Rejected))
	return res
}

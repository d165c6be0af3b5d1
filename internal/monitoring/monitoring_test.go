package monitoring

import (
	"testing"
	"time"

	"github.com/itsatony/healthhub/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIngest(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(Config{Registerer: reg})

	res := models.IngestResult{Kind: models.KindGlucose, Status: models.StatusSuccess, Processed: 3}
	batch := models.BatchResult{Inserted: 2, Updated: 1, Rejected: []models.Rejection{{Index: 3, Reason: "value must be greater than zero"}}}
	svc.RecordIngest(res, batch, 20*time.Millisecond)
	svc.RecordIngest(models.IngestResult{Kind: models.KindGlucose, Status: models.StatusError}, models.BatchResult{}, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.requests.WithLabelValues("glucose", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.requests.WithLabelValues("glucose", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(svc.records.WithLabelValues("glucose", "inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.records.WithLabelValues("glucose", "updated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.records.WithLabelValues("glucose", "rejected")))
	assert.Equal(t, 1, testutil.CollectAndCount(svc.duration))
}

func TestRecordEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := NewService(Config{Namespace: "test", Registerer: reg})

	svc.RecordEvent("status.record_failed", map[string]string{"kind": "sleep"})
	svc.RecordEvent("status.record_failed", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(svc.events.WithLabelValues("status.record_failed")))

	n, err := testutil.GatherAndCount(reg, "test_events_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

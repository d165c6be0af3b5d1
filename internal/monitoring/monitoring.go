// FilePath: internal/monitoring/monitoring.go
package monitoring

import (
	"time"

	"github.com/itsatony/healthhub/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	nuts "github.com/vaudience/go-nuts"
)

// Config holds monitoring configuration
type Config struct {
	Namespace  string
	Registerer prometheus.Registerer
}

// Service provides monitoring functionality
type Service struct {
	config   Config
	requests *prometheus.CounterVec
	records  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.CounterVec
}

// NewService creates a new monitoring service and registers its collectors.
func NewService(config Config) *Service {
	if config.Namespace == "" {
		config.Namespace = "healthhub"
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(config.Registerer)

	return &Service{
		config: config,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "ingest_requests_total",
			Help:      "Ingestion calls by metric kind and result status",
		}, []string{"kind", "status"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "ingest_records_total",
			Help:      "Records handled by the store by metric kind and outcome",
		}, []string{"kind", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent in one ingestion call",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"kind"}),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "events_total",
			Help:      "Operational events",
		}, []string{"event"}),
	}
}

// RecordIngest updates the ingestion collectors for one finished call.
func (s *Service) RecordIngest(res models.IngestResult, batch models.BatchResult, took time.Duration) {
	kind := res.Kind.String()
	s.requests.WithLabelValues(kind, string(res.Status)).Inc()
	s.records.WithLabelValues(kind, "inserted").Add(float64(batch.Inserted))
	s.records.WithLabelValues(kind, "updated").Add(float64(batch.Updated))
	s.records.WithLabelValues(kind, "rejected").Add(float64(len(batch.Rejected)))
	s.duration.WithLabelValues(kind).Observe(took.Seconds())
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.events.WithLabelValues(eventName).Inc()
	nuts.L.Debugf("[Monitoring] Event %s recorded at %v with labels: %v", eventName, time.Now(), labels)
}

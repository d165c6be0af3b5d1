// FilePath: internal/normalize/normalize.glucose.go
package normalize

import (
	"github.com/itsatony/healthhub/internal/coerce"
	"github.com/itsatony/healthhub/internal/models"
)

// decodeGlucoseMetrics yields one candidate per sample. Values are not
// checked here; the store rejects non-positive or unparseable readings.
func decodeGlucoseMetrics(ms []Metric) []models.GlucoseRecord {
	var out []models.GlucoseRecord
	for _, m := range ms {
		unit := m.Units
		if unit == "" {
			unit = models.DefaultGlucoseUnit
		}
		for _, sample := range m.Data {
			r := models.GlucoseRecord{Unit: unit}
			if ts, ok := coerce.Timestamp(first(sample, "date", "timestamp")); ok {
				r.Timestamp = ts
			}
			if v, ok := coerce.Float(first(sample, "qty", "value")); ok {
				r.Value = &v
			}
			r.Source = coerce.OptionalString(sample["source"])
			out = append(out, r)
		}
	}
	return out
}

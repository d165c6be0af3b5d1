// FilePath: internal/normalize/normalize.go
package normalize

import (
	"fmt"

	"github.com/itsatony/healthhub/internal/coerce"
	"github.com/itsatony/healthhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Shape names the payload layout detected for a call.
type Shape int

const (
	// ShapeNone means no known layout was found; the call yields no records.
	ShapeNone Shape = iota
	// ShapeMetrics is data.metrics[].data[]
	ShapeMetrics
	// ShapeWorkouts is data.workouts[]
	ShapeWorkouts
)

func (s Shape) String() string {
	switch s {
	case ShapeMetrics:
		return "metrics"
	case ShapeWorkouts:
		return "workouts"
	}
	return "none"
}

// Metric is one entry of data.metrics.
type Metric struct {
	Name  string
	Units string
	Data  []map[string]any
}

// Envelope is the decoded payload reduced to exactly one shape. Only the
// field matching Shape is populated.
type Envelope struct {
	Shape    Shape
	Metrics  []Metric
	Workouts []map[string]any
}

// DetectShape picks the layout for kind by looking at which keys the payload
// carries. For exercise a workouts key wins over metrics, and the two are
// never combined in one call.
func DetectShape(kind models.Kind, payload map[string]any) Envelope {
	data, ok := payload["data"].(map[string]any)
	if !ok {
		return Envelope{Shape: ShapeNone}
	}

	if kind == models.KindExercise {
		if raw, present := data["workouts"]; present {
			return Envelope{Shape: ShapeWorkouts, Workouts: objects(raw)}
		}
	}
	if raw, present := data["metrics"]; present {
		return Envelope{Shape: ShapeMetrics, Metrics: metrics(raw)}
	}
	return Envelope{Shape: ShapeNone}
}

// Normalize maps a decoded request body onto canonical records of one kind.
// Unknown layouts produce an empty batch. Records with missing keys are kept
// so the store can reject and count them.
func Normalize(kind models.Kind, payload map[string]any) (models.Batch, error) {
	batch := models.Batch{Kind: kind}
	env := DetectShape(kind, payload)

	switch kind {
	case models.KindSleep:
		if env.Shape == ShapeMetrics {
			batch.Sleep = decodeSleepMetrics(env.Metrics)
		}
	case models.KindExercise:
		switch env.Shape {
		case ShapeWorkouts:
			batch.Exercise = decodeWorkouts(env.Workouts)
		case ShapeMetrics:
			batch.Exercise = decodeExerciseMetrics(env.Metrics)
		}
	case models.KindGlucose:
		if env.Shape == ShapeMetrics {
			batch.Glucose = decodeGlucoseMetrics(env.Metrics)
		}
	default:
		return batch, fmt.Errorf("unsupported metric kind %q", kind)
	}

	nuts.L.Debugf("[Normalize] %s payload shape=%s records=%d", kind, env.Shape, batch.Len())
	return batch, nil
}

func metrics(raw any) []Metric {
	var out []Metric
	for _, m := range objects(raw) {
		metric := Metric{Data: objects(m["data"])}
		metric.Name, _ = coerce.String(m["name"])
		metric.Units, _ = coerce.String(m["units"])
		out = append(out, metric)
	}
	return out
}

// objects returns the JSON objects contained in a list, skipping anything else.
func objects(raw any) []map[string]any {
	list, ok := raw.([]any)
	if !ok {
		if typed, ok := raw.([]map[string]any); ok {
			return typed
		}
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// first returns the value of the first key that is present and non-empty.
func first(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !coerce.Absent(v) {
			return v
		}
	}
	return nil
}

// quantity unwraps {"qty": x, "units": u} objects; plain scalars pass through.
func quantity(raw any) (any, string) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return raw, ""
	}
	units, _ := coerce.String(obj["units"])
	return obj["qty"], units
}

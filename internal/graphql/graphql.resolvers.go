// FilePath: internal/graphql/graphql.resolvers.go
package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// JSONObject is the JSON scalar. It accepts an object literal, an object
// variable, or a string holding an object.
type JSONObject struct {
	Object map[string]any
}

// ImplementsGraphQLType binds JSONObject to the JSON scalar.
func (JSONObject) ImplementsGraphQLType(name string) bool {
	return name == "JSON"
}

// UnmarshalGraphQL decodes an argument value.
func (j *JSONObject) UnmarshalGraphQL(input any) error {
	switch v := input.(type) {
	case map[string]any:
		j.Object = v
		return nil
	case string:
		var payload map[string]any
		if err := json.Unmarshal([]byte(v), &payload); err != nil {
			return fmt.Errorf("payload is not a JSON object: %w", err)
		}
		j.Object = payload
		return nil
	}
	return fmt.Errorf("payload must be a JSON object, got %T", input)
}

type rootResolver struct {
	ingester Ingester
	status   repository.StatusRepository
}

type payloadArgs struct {
	Payload JSONObject
}

type kindArgs struct {
	Kind string
}

type ingestArgs struct {
	Kind    string
	Payload JSONObject
}

func (r *rootResolver) HealthCheck() string {
	return healthMessage
}

func (r *rootResolver) LastIngest(ctx context.Context, args kindArgs) (*statusResolver, error) {
	kind, err := models.ParseKind(args.Kind)
	if err != nil {
		return nil, err
	}
	if r.status == nil {
		return nil, nil
	}
	status, err := r.status.Get(ctx, kind)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		nuts.L.Warnf("[GraphQL] Failed to read ingest status for %s: %v", kind, err)
		return nil, fmt.Errorf("status unavailable: %w", err)
	}
	return &statusResolver{status: status}, nil
}

func (r *rootResolver) IngestSleep(ctx context.Context, args payloadArgs) *resultResolver {
	return r.ingest(ctx, models.KindSleep, args.Payload)
}

func (r *rootResolver) IngestExercise(ctx context.Context, args payloadArgs) *resultResolver {
	return r.ingest(ctx, models.KindExercise, args.Payload)
}

func (r *rootResolver) IngestGlucose(ctx context.Context, args payloadArgs) *resultResolver {
	return r.ingest(ctx, models.KindGlucose, args.Payload)
}

func (r *rootResolver) Ingest(ctx context.Context, args ingestArgs) (*resultResolver, error) {
	kind, err := models.ParseKind(args.Kind)
	if err != nil {
		return nil, err
	}
	return r.ingest(ctx, kind, args.Payload), nil
}

func (r *rootResolver) ingest(ctx context.Context, kind models.Kind, payload JSONObject) *resultResolver {
	return &resultResolver{res: r.ingester.Ingest(ctx, kind, payload.Object)}
}

type resultResolver struct {
	res models.IngestResult
}

func (r *resultResolver) Kind() *string {
	if r.res.Kind == "" {
		return nil
	}
	kind := r.res.Kind.String()
	return &kind
}

func (r *resultResolver) Status() string { return string(r.res.Status) }
func (r *resultResolver) Processed() int32 { return int32(r.res.Processed) }
func (r *resultResolver) Message() string { return r.res.Message }
func (r *resultResolver) Timestamp() string { return r.res.Timestamp }
func (r *resultResolver) Extracted() int32 { return int32(r.res.Extracted) }
func (r *resultResolver) Skipped() int32 { return int32(r.res.Skipped) }

type statusResolver struct {
	status *models.IngestStatus
}

func (r *statusResolver) Kind() string { return r.status.Kind.String() }
func (r *statusResolver) Last() *resultResolver { return &resultResolver{res: r.status.Last} }
func (r *statusResolver) Calls() int32 { return int32(r.status.Calls) }
func (r *statusResolver) TotalProcessed() int32 { return int32(r.status.TotalProcessed) }
func (r *statusResolver) UpdatedAt() string { return r.status.UpdatedAt.UTC().Format(time.RFC3339) }

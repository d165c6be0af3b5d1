// FilePath: api/resources/resources.go
package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/itsatony/healthhub/internal/errors"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Ingester is the ingestion pipeline as seen by the HTTP handlers.
type Ingester interface {
	IngestJSON(ctx context.Context, kind models.Kind, body []byte) models.IngestResult
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers need. Status and Redis may be nil.
type Deps struct {
	Ingester     Ingester
	Store        *repository.Store
	Status       repository.StatusRepository
	Database     Pinger
	Version      string
	MaxBodyBytes int64
}

// Resources holds all HTTP resource handlers
type Resources struct {
	Ingest  *IngestHandlers
	Records *RecordHandlers
	Status  *StatusHandlers
	Health  *HealthHandlers
}

// NewResources creates a new Resources instance
func NewResources(deps Deps) *Resources {
	return &Resources{
		Ingest:  &IngestHandlers{ingester: deps.Ingester, maxBodyBytes: deps.MaxBodyBytes},
		Records: &RecordHandlers{store: deps.Store, now: time.Now},
		Status:  &StatusHandlers{status: deps.Status},
		Health:  &HealthHandlers{database: deps.Database, status: deps.Status, version: deps.Version},
	}
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	nuts.L.Errorf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

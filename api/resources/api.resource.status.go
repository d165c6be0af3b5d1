// FilePath: api/resources/api.resource.status.go
package resources

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/itsatony/healthhub/internal/errors"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// StatusHandlers expose the last ingestion outcome per kind
type StatusHandlers struct {
	status repository.StatusRepository
}

// @Summary Last ingestion outcome per kind
// @Description Requires the Redis status tracker. Kinds that were never ingested are omitted.
// @Tags status
// @Produce json
// @Success 200 {array} models.IngestStatus
// @Failure 404 {object} errors.APIError
// @Router /api/status [get]
// @Security BearerAuth
func (h *StatusHandlers) List(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	if h.status == nil {
		respondWithError(w, errors.NewNotFoundError("status tracking is disabled", nil).WithRequestID(requestID))
		return
	}

	out := []models.IngestStatus{}
	for _, kind := range models.Kinds {
		st, err := h.status.Get(r.Context(), kind)
		if stderrors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			respondWithError(w, errors.NewUnavailableError("status store unavailable", err).WithRequestID(requestID))
			return
		}
		out = append(out, *st)
	}
	respondWithJSON(w, http.StatusOK, out)
}

// HealthHandlers serve liveness and connectivity endpoints
type HealthHandlers struct {
	database Pinger
	status   repository.StatusRepository
	version  string
}

// Health is the body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Database  string `json:"database"`
	Redis     string `json:"redis,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Root is the plain liveness endpoint.
func (h *HealthHandlers) Root(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Health Export API is running",
	})
}

// @Summary Connectivity test
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/test [get]
func (h *HealthHandlers) Test(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"message":   "API is accessible",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": map[string]string{
			"sleep":    "/api/sleep",
			"exercise": "/api/exercise",
			"glucose":  "/api/glucose",
			"test":     "/api/test",
		},
	})
}

// @Summary Service health
// @Description Reports database and Redis reachability. 503 when the database is down.
// @Tags health
// @Produce json
// @Success 200 {object} Health
// @Failure 503 {object} Health
// @Router /health [get]
func (h *HealthHandlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	res := Health{
		Status:    "ok",
		Version:   h.version,
		Database:  "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if h.database == nil || h.database.Ping(ctx) != nil {
		res.Status = "degraded"
		res.Database = "unavailable"
		code = http.StatusServiceUnavailable
	}
	if h.status != nil {
		res.Redis = "ok"
		if err := h.status.Ping(ctx); err != nil {
			nuts.L.Warnf("[HealthHandler] Redis ping failed: %v", err)
			res.Redis = "unavailable"
			if res.Status == "ok" {
				res.Status = "degraded"
			}
		}
	}
	respondWithJSON(w, code, res)
}

// FilePath: api/resources/api.resource.ingest.go
package resources

import (
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/healthhub/internal/errors"
	"github.com/itsatony/healthhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// IngestHandlers accepts Auto Export payloads
type IngestHandlers struct {
	ingester     Ingester
	maxBodyBytes int64
}

// @Summary Ingest an Auto Export payload
// @Description Normalizes the payload for the given kind and upserts every valid record.
// @Description success and warning map to 200, error to 500 and an unreachable store to 503.
// @Tags ingest
// @Accept json
// @Produce json
// @Param kind path string true "Metric kind" Enums(sleep, exercise, glucose)
// @Param payload body object true "Auto Export JSON"
// @Success 200 {object} models.IngestResult
// @Failure 413 {object} errors.APIError
// @Failure 500 {object} models.IngestResult
// @Failure 503 {object} models.IngestResult
// @Router /api/{kind} [post]
// @Security BearerAuth
func (h *IngestHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	kind, err := models.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		respondWithError(w, errors.NewNotFoundError("unknown metric kind", err).WithRequestID(requestID))
		return
	}

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			respondWithError(w, errors.NewPayloadTooLargeError("request body too large", err).WithRequestID(requestID))
			return
		}
		respondWithError(w, errors.NewValidationError("failed to read request body", err).WithRequestID(requestID))
		return
	}
	nuts.L.Debugf("[IngestHandler] %s %s received %d bytes (%s)", r.Method, r.URL.Path, len(raw), requestID)

	res := h.ingester.IngestJSON(r.Context(), kind, raw)
	respondWithJSON(w, res.HTTPStatus(), res)
}

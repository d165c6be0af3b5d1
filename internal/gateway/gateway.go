// FilePath: internal/gateway/gateway.go
package gateway

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/itsatony/healthhub/internal/errors"
	"github.com/itsatony/healthhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Exporter forwards a decoded envelope to the ingestion service.
type Exporter interface {
	Export(ctx context.Context, kind models.Kind, payload map[string]any) (models.IngestResult, error)
}

// Gateway translates REST ingestion calls into gRPC calls.
type Gateway struct {
	router       *mux.Router
	exporter     Exporter
	timeout      time.Duration
	maxBodyBytes int64
}

// New creates a gateway. A zero timeout disables the per-call deadline.
func New(exporter Exporter, timeout time.Duration, maxBodyBytes int64) *Gateway {
	g := &Gateway{
		router:       mux.NewRouter(),
		exporter:     exporter,
		timeout:      timeout,
		maxBodyBytes: maxBodyBytes,
	}
	g.router.HandleFunc("/", g.root).Methods(http.MethodGet)
	g.router.HandleFunc("/api/{kind:sleep|exercise|glucose|blood_glucose}", g.export).Methods(http.MethodPost)
	return g
}

// Handler returns the gateway router with recovery and access logging.
func (g *Gateway) Handler() http.Handler {
	var h http.Handler = g.router
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	return handlers.CombinedLoggingHandler(accessLog{}, h)
}

func (g *Gateway) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "gateway": "REST to gRPC"})
}

func (g *Gateway) export(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)

	kind, err := models.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, errors.NewNotFoundError("unknown metric kind", err).WithRequestID(requestID))
		return
	}

	body := r.Body
	if g.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, g.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, errors.NewPayloadTooLargeError("request body too large", err).WithRequestID(requestID))
			return
		}
		writeError(w, errors.NewValidationError("failed to read request body", err).WithRequestID(requestID))
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		res := models.NewIngestResult(kind, models.StatusError, 0, "invalid JSON payload: "+err.Error(), time.Now())
		writeJSON(w, res.HTTPStatus(), res)
		return
	}

	ctx := r.Context()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	res, err := g.exporter.Export(ctx, kind, payload)
	if err != nil {
		nuts.L.Errorf("[Gateway] %s export failed (%s): %v", kind, requestID, err)
		writeError(w, rpcError(err).WithRequestID(requestID))
		return
	}
	writeJSON(w, res.HTTPStatus(), res)
}

func rpcError(err error) *errors.APIError {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.NewUnavailableError("ingestion service unavailable", err)
	case codes.InvalidArgument:
		return errors.NewValidationError(status.Convert(err).Message(), err)
	case codes.ResourceExhausted:
		return errors.NewPayloadTooLargeError("request body too large", err)
	}
	return errors.NewInternalError("ingestion service error", err)
}

func writeError(w http.ResponseWriter, err *errors.APIError) {
	writeJSON(w, err.Code, err)
	nuts.L.Errorf("[Gateway] %s", err.Error())
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

type accessLog struct{}

func (accessLog) Write(p []byte) (int, error) {
	nuts.L.Infof("[Gateway] %s", p)
	return len(p), nil
}

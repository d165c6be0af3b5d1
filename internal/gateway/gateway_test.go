package gateway

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fixedIngester struct {
	result models.IngestResult
	got    map[string]any
}

func (f *fixedIngester) Ingest(_ context.Context, kind models.Kind, payload map[string]any) models.IngestResult {
	f.got = payload
	res := f.result
	res.Kind = kind
	return res
}

func newGateway(t *testing.T, ing rpc.Ingester) http.Handler {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := rpc.NewServer(rpc.NewService(ing, "test"), rpc.ServerOptions{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	client, err := rpc.Dial("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return New(client, 5*time.Second, 1024).Handler()
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestGatewayForwardsEnvelope(t *testing.T) {
	ing := &fixedIngester{result: models.IngestResult{
		Status: models.StatusSuccess, Processed: 1, Message: "Processed 1 sleep records", Timestamp: "2024-02-01T12:00:00Z",
	}}
	h := newGateway(t, ing)

	rec := post(h, "/api/sleep", `{"data":{"metrics":[{"data":[{"date":"2024-01-15","totalSleep":7.5}]}]}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res models.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, models.KindSleep, res.Kind)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, "Processed 1 sleep records", res.Message)

	metrics := ing.got["data"].(map[string]any)["metrics"].([]any)
	sample := metrics[0].(map[string]any)["data"].([]any)[0].(map[string]any)
	assert.Equal(t, 7.5, sample["totalSleep"])
}

func TestGatewayMapsResultCodes(t *testing.T) {
	cases := []struct {
		name   string
		result models.IngestResult
		code   int
	}{
		{"warning", models.IngestResult{Status: models.StatusWarning, Message: "No valid glucose records to save"}, http.StatusOK},
		{"error", models.IngestResult{Status: models.StatusError, Message: "boom"}, http.StatusInternalServerError},
		{"unavailable", models.IngestResult{Status: models.StatusError, Message: models.UnavailableMessagePrefix + "dial tcp"}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newGateway(t, &fixedIngester{result: tc.result})
			assert.Equal(t, tc.code, post(h, "/api/glucose", `{"data":{}}`).Code)
		})
	}
}

func TestGatewayRequestErrors(t *testing.T) {
	h := newGateway(t, &fixedIngester{})

	rec := post(h, "/api/exercise", `{"data":`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid JSON payload")

	assert.Equal(t, http.StatusRequestEntityTooLarge, post(h, "/api/exercise", `{"x":"`+strings.Repeat("a", 2048)+`"}`).Code)
	assert.Equal(t, http.StatusNotFound, post(h, "/api/heart_rate", `{}`).Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.JSONEq(t, `{"status":"ok","gateway":"REST to gRPC"}`, rec.Body.String())
}

type failingExporter struct{ err error }

func (f failingExporter) Export(context.Context, models.Kind, map[string]any) (models.IngestResult, error) {
	return models.IngestResult{}, f.err
}

func TestGatewayBackendFailures(t *testing.T) {
	cases := map[codes.Code]int{
		codes.Unavailable:      http.StatusServiceUnavailable,
		codes.DeadlineExceeded: http.StatusServiceUnavailable,
		codes.InvalidArgument:  http.StatusBadRequest,
		codes.Internal:         http.StatusInternalServerError,
	}
	for code, want := range cases {
		h := New(failingExporter{err: status.Error(code, "nope")}, 0, 0).Handler()
		assert.Equal(t, want, post(h, "/api/sleep", `{}`).Code, code.String())
	}
}

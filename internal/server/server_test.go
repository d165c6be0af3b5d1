package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/itsatony/healthhub/internal/config"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWiresIngestToStatus(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg, err := config.LoadFrom(writeConfig(t, mr.Host(), mr.Port()))
	require.NoError(t, err)

	s := New(cfg)
	require.NoError(t, s.initialize(context.Background()))
	t.Cleanup(func() {
		_ = s.status.Close()
		_ = s.database.Close()
		s.grpcServer.Stop()
	})
	require.NotNil(t, s.grpcServer)

	body := `{"data":{"metrics":[{"name":"blood_glucose","data":[{"date":"2024-01-15 08:00:00 +0000","qty":104}]}]}}`
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/glucose", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Eventually(t, func() bool {
		st, err := s.status.Get(context.Background(), models.KindGlucose)
		return err == nil && st.TotalProcessed == 1
	}, 2*time.Second, 20*time.Millisecond)

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "servertest_ingest_requests_total")

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ healthCheck }"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func writeConfig(t *testing.T, redisHost, redisPort string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  driver: sqlite
  path: ` + filepath.Join(dir, "health.db") + `
redis:
  enabled: true
  host: ` + redisHost + `
  port: ` + redisPort + `
grpc:
  enabled: true
  port: 50099
monitoring:
  namespace: servertest
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

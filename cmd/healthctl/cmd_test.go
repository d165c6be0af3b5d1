package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func sqliteConfig(t *testing.T, dir string, extra string) string {
	t.Helper()
	return writeFile(t, dir, "config.yaml", "database:\n  driver: sqlite\n  path: "+filepath.Join(dir, "health.db")+"\n"+extra)
}

func TestImportKind(t *testing.T) {
	tests := []struct {
		flag, path string
		want       models.Kind
		wantErr    bool
	}{
		{"", "data/sleep_data.csv", models.KindSleep, false},
		{"", "exercise_data.csv", models.KindExercise, false},
		{"", "/tmp/blood_glucose.csv", models.KindGlucose, false},
		{"glucose", "export.csv", models.KindGlucose, false},
		{"", "export.csv", "", true},
		{"steps", "sleep_data.csv", "", true},
	}
	for _, tt := range tests {
		got, err := importKind(tt.flag, tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got)
	}
}

func TestSchemaImportAndPing(t *testing.T) {
	dir := t.TempDir()
	cfg := sqliteConfig(t, dir, "")

	out, err := run(t, "-c", cfg, "schema", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "schema ready (sqlite)")

	csvPath := writeFile(t, dir, "blood_glucose.csv", "timestamp,value,unit,source\n2024-01-15 08:00:00,104,mg/dL,Dexcom\n2024-01-15 08:05:00,-3,mg/dL,Dexcom\n")
	out, err = run(t, "-c", cfg, "import", "csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "uploaded 1 glucose records (skipped 1)")

	out, err = run(t, "-c", cfg, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "connected to sqlite")
	assert.Contains(t, out, "blood_glucose, exercise_data, sleep_data")
}

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	cfg := sqliteConfig(t, dir, "")

	payload := writeFile(t, dir, "sleep.json", `{"data":{"metrics":[{"name":"sleep_analysis","data":[{"date":"2024-01-15","totalSleep":7.5,"deep":1.5}]}]}}`)
	out, err := run(t, "-c", cfg, "ingest", "sleep", payload)
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 1 sleep records")

	bad := writeFile(t, dir, "bad.json", `{"data":`)
	out, err = run(t, "-c", cfg, "ingest", "sleep", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "invalid JSON payload")
}

func TestStatus(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "-c", sqliteConfig(t, dir, ""), "status")
	assert.ErrorContains(t, err, "status tracking is disabled")

	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t, dir, "redis:\n  enabled: true\n  host: "+mr.Host()+"\n  port: "+mr.Port()+"\n")
	out, err := run(t, "-c", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "never ingested")
}

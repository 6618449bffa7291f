package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creditlens/internal/config"
	"creditlens/pkg/contracts/domain"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig(t *testing.T, source string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Data.Source = source
	cfg.Paths.ReportsDir = filepath.Join(dir, "reports")
	cfg.Paths.LogsDir = filepath.Join(dir, "logs")
	return cfg
}

func writeSource(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), config.DefaultSheet))
	rows := [][]interface{}{
		{"id", "valor_contrato", "taxa", "prazo", "atraso_corrente", "valor_em_aberto",
			"valor_contrato_mais_juros", "faturamento_informado", "score", "estado", "setor"},
		{1, 1000, 2, 10, 0, 100, 1200, 10000, 650, "SP", "Varejo"},
		{2, 3000, 4, 20, 200, 2500, 3600, 2000, 300, "BA", "Industria"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(config.DefaultSheet, cell, &r))
	}
	path := filepath.Join(t.TempDir(), "contracts.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func newTestApp(t *testing.T, source string) *Application {
	t.Helper()
	application, err := NewApplication(testConfig(t, source), quietLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.OTelProviders.Shutdown(context.Background()) })
	return application
}

func get(t *testing.T, a *Application, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestNewApplication(t *testing.T) {
	a := newTestApp(t, writeSource(t))

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Services.Analysis)
	assert.NotNil(t, a.Services.Health)
	assert.Equal(t, "127.0.0.1:8080", a.Server.Addr)
	assert.True(t, filepath.IsAbs(a.Paths.ReportsDir))
	assert.DirExists(t, a.Paths.ReportsDir)
}

func TestHealthRoutes(t *testing.T) {
	a := newTestApp(t, writeSource(t))

	for _, path := range []string{"/api/health", "/api/health/live", "/api/health/ready", "/api/version", "/api/health/stats"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, a, path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		})
	}
}

func TestReadinessWithoutSource(t *testing.T) {
	a := newTestApp(t, filepath.Join(t.TempDir(), "missing.xlsx"))

	rec := get(t, a, "/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalysisRoutes(t *testing.T) {
	a := newTestApp(t, writeSource(t))

	rec := get(t, a, "/api/metrics/global")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var metrics domain.GlobalMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 2, metrics.Rows)
	assert.InDelta(t, 2000.0, metrics.AverageTicket, 1e-9)

	rec = get(t, a, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestMissingSourceIsProblem(t *testing.T) {
	a := newTestApp(t, filepath.Join(t.TempDir(), "missing.xlsx"))

	rec := get(t, a, "/api/metrics/global")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "DATA_LOAD", problem["error_code"])
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApp(t, writeSource(t))

	rec := get(t, a, "/api/nothing-here")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	req := httptest.NewRequest(http.MethodDelete, "/api/health", nil)
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, writeSource(t))

	get(t, a, "/api/health")
	rec := get(t, a, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig(t, writeSource(t))
	cfg.Telemetry.Metrics = false
	a, err := NewApplication(cfg, quietLogger)
	require.NoError(t, err)

	rec := get(t, a, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartupHealthCheck(t *testing.T) {
	a := newTestApp(t, writeSource(t))
	assert.NoError(t, a.performStartupHealthCheck(context.Background()))

	missing := newTestApp(t, filepath.Join(t.TempDir(), "missing.xlsx"))
	err := missing.performStartupHealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source workbook not found")
}

func TestStopWithoutStart(t *testing.T) {
	a := newTestApp(t, writeSource(t))
	assert.NoError(t, a.Stop(context.Background()))
}

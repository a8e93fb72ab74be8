package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaignpulse/internal/config"
	"campaignpulse/internal/dataprocessing"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/shared/testutil"
	"campaignpulse/pkg/contracts"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	postsPath, benchmarksPath := testutil.WriteCampaignFiles(t)

	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Data.PostsFile = postsPath
	cfg.Data.BenchmarksFile = benchmarksPath
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*Application, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	app, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.OTelProviders.Shutdown(context.Background()) })
	return app, handler
}

func serve(t *testing.T, app *Application, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestNew(t *testing.T) {
	app, handler := newTestApp(t, testConfig(t))

	assert.True(t, app.Reports.Ready())
	assert.NotNil(t, app.Health)
	assert.NotNil(t, app.OTelProviders.PrometheusHTTP)
	assert.Equal(t, ":0", app.Server.Addr)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Application starting")
}

func TestNew_LoadFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.PostsFile = filepath.Join(t.TempDir(), "missing.csv")

	logger, _ := testutil.NewTestLogger(t)
	_, err := New(context.Background(), cfg, logger)

	require.Error(t, err)
	assert.True(t, dataprocessing.IsLoadError(err))

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeLoad, appErr.Type)
	assert.Equal(t, cfg.Data.PostsFile, appErr.Context["posts_file"])
}

func TestNew_UnsupportedMetricExporter(t *testing.T) {
	cfg := testConfig(t)
	cfg.Observability.MetricExporter = "graphite"

	logger, _ := testutil.NewTestLogger(t)
	_, err := New(context.Background(), cfg, logger)
	assert.Error(t, err)
}

func TestLoaderConfig(t *testing.T) {
	data := config.Default().Data
	data.DateLayouts = []string{"2006-01-02"}

	lc := LoaderConfig(data)
	assert.Equal(t, ';', lc.PostsDelimiter)
	assert.Equal(t, ',', lc.BenchmarksDelimiter)
	assert.Equal(t, []string{"2006-01-02"}, lc.DateLayouts)
	assert.Equal(t, time.UTC, lc.Location)
}

func TestRouter(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	tests := []struct {
		name        string
		method      string
		target      string
		wantStatus  int
		contentType string
		contains    string
	}{
		{"dashboard", http.MethodGet, "/", http.StatusOK, "text/html", "Top 3 posts by engagement rate"},
		{"platforms", http.MethodGet, "/api/platforms", http.StatusOK, "application/json", `"LinkedIn"`},
		{"report", http.MethodGet, "/api/report?platform=Instagram", http.StatusOK, "application/json", `"status":"ok"`},
		{"no data", http.MethodGet, "/api/report?start=2030-01-01&end=2030-01-02", http.StatusOK, "application/json", `"no_data"`},
		{"invalid date", http.MethodGet, "/api/report?start=tomorrow", http.StatusBadRequest, "application/json", apierrors.TypeValidation},
		{"export", http.MethodGet, "/api/report/export?format=csv", http.StatusOK, "text/csv", "Platform,Title,Date"},
		{"health", http.MethodGet, "/api/health", http.StatusOK, "application/json", `"ok"`},
		{"ready", http.MethodGet, "/api/health/ready", http.StatusOK, "application/json", `"ready"`},
		{"version", http.MethodGet, "/api/version", http.StatusOK, "application/json", contracts.Version},
		{"system stats", http.MethodGet, "/api/metrics/system", http.StatusOK, "application/json", `"dataset_posts":5`},
		{"not found", http.MethodGet, "/nope", http.StatusNotFound, "application/json", apierrors.TypeNotFound},
		{"method not allowed", http.MethodPost, "/api/report", http.StatusMethodNotAllowed, "application/json", apierrors.TypeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, tt.method, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), tt.contentType)
			assert.Contains(t, rec.Body.String(), tt.contains)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_PrometheusScrape(t *testing.T) {
	app, _ := newTestApp(t, testConfig(t))

	require.Equal(t, http.StatusOK, serve(t, app, http.MethodGet, "/api/report").Code)
	require.Equal(t, http.StatusOK, serve(t, app, http.MethodGet, "/api/report/export?format=xlsx").Code)

	rec := serve(t, app, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "report_builds_total")
	assert.Contains(t, body, "report_exports_total")
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "dataset_posts")
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RPS = 1
	cfg.Security.RateLimit.Burst = 1
	app, _ := newTestApp(t, cfg)

	assert.Equal(t, http.StatusOK, serve(t, app, http.MethodGet, "/api/health").Code)
	rec := serve(t, app, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), apierrors.TypeRateLimit)
}

func TestServeAndStop(t *testing.T) {
	app, handler := newTestApp(t, testConfig(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx := context.Background()
	errCh := app.Serve(ctx, ln)

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/health/ready")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, "ready", status["status"])

	require.NoError(t, app.Stop(ctx))
	_, open := <-errCh
	assert.False(t, open)
	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Application shutdown complete")
}

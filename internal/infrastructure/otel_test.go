package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestInitializeOTel_Default(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)
	assert.NotNil(t, providers.Registry)
}

func TestInitializeOTel_Exporters(t *testing.T) {
	tests := []struct {
		name    string
		trace   string
		metric  string
		wantErr bool
	}{
		{"all disabled", "none", "none", false},
		{"stdout tracing", "stdout", "none", false},
		{"unknown trace exporter", "jaeger", "none", true},
		{"unknown metric exporter", "none", "statsd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultOTelConfig()
			cfg.TraceExporter = tt.trace
			cfg.MetricExporter = tt.metric

			providers, err := InitializeOTel(cfg, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, providers.Shutdown(context.Background()))
		})
	}
}

func TestReportMetrics_Prometheus(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	m, err := CreateReportMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordReportBuild(ctx, "http", OutcomeOK, 15*time.Millisecond)
	m.RecordReportBuild(ctx, "http", OutcomeNoData, time.Millisecond)
	m.RecordMissingBenchmarks(ctx, []string{"LinkedIn"})
	m.RecordExport(ctx, "csv")
	m.RecordHTTPRequest(ctx, http.MethodGet, "/api/v1/report", http.StatusOK, 20*time.Millisecond)

	body := scrape(t, providers.PrometheusHTTP)
	assert.Contains(t, body, "report_builds_total")
	assert.Contains(t, body, `outcome="no_data"`)
	assert.Contains(t, body, "report_empty_filter_total")
	assert.Contains(t, body, `platform="LinkedIn"`)
	assert.Contains(t, body, `format="csv"`)
	assert.Contains(t, body, "http_requests_total")
}

func TestReportMetrics_NilSafe(t *testing.T) {
	var m *ReportMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordReportBuild(ctx, "cli", OutcomeError, time.Second)
		m.RecordMissingBenchmarks(ctx, []string{"TikTok"})
		m.RecordExport(ctx, "xlsx")
		m.RecordHTTPRequest(ctx, http.MethodGet, "/", http.StatusOK, time.Second)
	})
}

func TestSystemMetrics(t *testing.T) {
	providers, err := InitializeOTel(nil, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	sm, err := NewSystemMetrics(providers.Meter, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	sm.SetDatasetPosts(42)

	stats := sm.Collect()
	assert.Equal(t, int64(42), stats.DatasetPosts)
	assert.Positive(t, stats.GoRoutines)
	assert.GreaterOrEqual(t, stats.ProcessUptime, time.Minute)

	body := scrape(t, providers.PrometheusHTTP)
	assert.Regexp(t, `dataset_posts\{[^}]*\} 42`, body)
	assert.Contains(t, body, "system_goroutines")

	assert.NoError(t, sm.Stop())
}

func TestSystemMetrics_NoopMeter(t *testing.T) {
	sm, err := NewSystemMetrics(noop.NewMeterProvider().Meter("test"), time.Now())
	require.NoError(t, err)
	assert.NoError(t, sm.Stop())
}

func TestStartSpan_TraceID(t *testing.T) {
	cfg := DefaultOTelConfig()
	cfg.TraceExporter = "stdout"
	cfg.MetricExporter = "none"
	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := StartSpan(context.Background(), "build-report")
	defer span.End()

	assert.Len(t, TraceIDFromContext(ctx), 32)
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.NotPanics(t, func() { RecordError(ctx, assert.AnError) })
}

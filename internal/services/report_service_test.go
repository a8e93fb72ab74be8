package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"campaignpulse/internal/analytics"
	"campaignpulse/internal/dataprocessing"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/infrastructure"
	"campaignpulse/internal/shared/testutil"
)

type metricsHarness struct {
	reader  *sdkmetric.ManualReader
	metrics *infrastructure.ReportMetrics
	system  *infrastructure.SystemMetrics
}

func newMetricsHarness(t *testing.T) *metricsHarness {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	meter := provider.Meter("test")
	metrics, err := infrastructure.CreateReportMetrics(meter)
	require.NoError(t, err)
	system, err := infrastructure.NewSystemMetrics(meter, time.Now())
	require.NoError(t, err)

	return &metricsHarness{reader: reader, metrics: metrics, system: system}
}

// counter sums the data points of an int64 counter whose attributes include key=value
func (h *metricsHarness) counter(t *testing.T, name, key, value string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func newTestService(t *testing.T, h *metricsHarness) *ReportService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	engine := analytics.NewEngine(logger, analytics.DefaultEngineConfig())
	opts := ReportServiceOptions{}
	if h != nil {
		opts.Metrics = h.metrics
		opts.System = h.system
	}
	return NewReportService(engine, opts, logger)
}

func TestReportService_NoDataset(t *testing.T) {
	svc := newTestService(t, nil)

	assert.False(t, svc.Ready())

	_, err := svc.Dataset()
	assert.ErrorIs(t, err, analytics.ErrNoDataset)

	_, err = svc.Platforms(context.Background())
	assert.ErrorIs(t, err, analytics.ErrNoDataset)

	_, err = svc.DefaultFilter()
	assert.ErrorIs(t, err, analytics.ErrNoDataset)

	_, err = svc.BuildReport(context.Background(), SourceAPI, analytics.Filter{})
	assert.ErrorIs(t, err, analytics.ErrNoDataset)
}

func TestReportService_LoadDataset(t *testing.T) {
	h := newMetricsHarness(t)
	svc := newTestService(t, h)
	postsPath, benchmarksPath := testutil.WriteCampaignFiles(t)

	loader := dataprocessing.NewLoader(nil, dataprocessing.DefaultLoaderConfig())
	require.NoError(t, svc.LoadDataset(context.Background(), loader, postsPath, benchmarksPath))
	assert.True(t, svc.Ready())

	info, err := svc.Platforms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Instagram", "TikTok", "LinkedIn"}, info.Platforms)
	assert.Equal(t, testutil.Day("2024-03-01"), info.MinDate)
	assert.Equal(t, testutil.Day("2024-03-10"), info.MaxDate)
	assert.Equal(t, 5, info.PostCount)

	assert.Equal(t, int64(5), h.system.Collect().DatasetPosts)
}

func TestReportService_LoadDatasetError(t *testing.T) {
	svc := newTestService(t, nil)
	loader := dataprocessing.NewLoader(nil, dataprocessing.DefaultLoaderConfig())

	err := svc.LoadDataset(context.Background(), loader, "/nonexistent/posts.csv", "/nonexistent/bench.csv")
	require.Error(t, err)

	var loadErr *dataprocessing.LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.False(t, svc.Ready())
}

func TestReportService_BuildReport(t *testing.T) {
	h := newMetricsHarness(t)
	svc := newTestService(t, h)
	svc.SetDataset(testutil.SampleDataset(t))

	f, err := svc.DefaultFilter()
	require.NoError(t, err)

	report, err := svc.BuildReport(context.Background(), SourceAPI, f)
	require.NoError(t, err)
	assert.Equal(t, 5, report.PostCount)
	assert.Equal(t, []string{"LinkedIn"}, report.SkippedPlatforms())

	assert.Equal(t, int64(1), h.counter(t, "report_builds_total", "outcome", infrastructure.OutcomeOK))
	assert.Equal(t, int64(1), h.counter(t, "report_missing_benchmark_total", "platform", "LinkedIn"))
}

func TestReportService_BuildReportEmptyFilter(t *testing.T) {
	h := newMetricsHarness(t)
	svc := newTestService(t, h)
	svc.SetDataset(testutil.SampleDataset(t))

	f := analytics.Filter{
		Start:     testutil.Day("2025-01-01"),
		End:       testutil.Day("2025-01-31"),
		Platforms: []string{"Instagram"},
	}
	report, err := svc.BuildReport(context.Background(), SourceDashboard, f)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, analytics.ErrEmptyFilterResult)

	assert.Equal(t, int64(1), h.counter(t, "report_builds_total", "outcome", infrastructure.OutcomeNoData))
	assert.Equal(t, int64(1), h.counter(t, "report_empty_filter_total", "source", SourceDashboard))
}

func TestReportService_Export(t *testing.T) {
	h := newMetricsHarness(t)
	svc := newTestService(t, h)
	svc.SetDataset(testutil.SampleDataset(t))

	f, err := svc.DefaultFilter()
	require.NoError(t, err)
	report, err := svc.BuildReport(context.Background(), SourceExport, f)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf, report, exporter.FormatCSV))
	assert.Contains(t, buf.String(), "Engagement Rate")
	assert.Equal(t, int64(1), h.counter(t, "report_exports_total", "format", "csv"))

	err = svc.Export(context.Background(), &buf, report, exporter.Format("pdf"))
	assert.ErrorIs(t, err, exporter.ErrUnsupportedFormat)
	assert.Equal(t, int64(0), h.counter(t, "report_exports_total", "format", "pdf"))
}

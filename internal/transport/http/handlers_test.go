package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"campaignpulse/internal/analytics"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/middleware"
	"campaignpulse/internal/presentation"
	"campaignpulse/internal/services"
	"campaignpulse/internal/shared/testutil"
	"campaignpulse/pkg/contracts/domain"
)

// MockReportService implements ReportServiceInterface for handler testing
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Platforms(ctx context.Context) (*services.PlatformsInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PlatformsInfo), args.Error(1)
}

func (m *MockReportService) DefaultFilter() (analytics.Filter, error) {
	args := m.Called()
	return args.Get(0).(analytics.Filter), args.Error(1)
}

func (m *MockReportService) BuildReport(ctx context.Context, source string, f analytics.Filter) (*domain.Report, error) {
	args := m.Called(ctx, source, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportService) Export(ctx context.Context, w io.Writer, report *domain.Report, format exporter.Format) error {
	args := m.Called(ctx, w, report, format)
	return args.Error(0)
}

// newTestRouter wires the handlers the way the application does
func newTestRouter(t *testing.T, svc ReportServiceInterface) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	validator := middleware.NewValidator()

	renderer, err := presentation.NewRenderer()
	require.NoError(t, err)

	reports := NewReportHandler(svc, validator, logger, errorHandler)
	dashboard := NewDashboardHandler(svc, validator, presentation.NewBuilder(nil, 3), renderer, logger, errorHandler)

	r := chi.NewRouter()
	r.Get("/", dashboard.ServeDashboard)
	r.Mount("/api", reports.Routes())
	return r
}

func newLoadedService(t *testing.T) *services.ReportService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewReportService(analytics.NewEngine(logger, analytics.DefaultEngineConfig()), services.ReportServiceOptions{}, logger)
	svc.SetDataset(testutil.SampleDataset(t))
	return svc
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestGetPlatforms(t *testing.T) {
	router := newTestRouter(t, newLoadedService(t))

	rec := get(t, router, "/api/platforms")
	require.Equal(t, http.StatusOK, rec.Code)

	var info services.PlatformsInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, []string{"Instagram", "TikTok", "LinkedIn"}, info.Platforms)
	assert.Equal(t, testutil.Day("2024-03-01"), info.MinDate)
	assert.Equal(t, 5, info.PostCount)
}

func TestGetReport(t *testing.T) {
	router := newTestRouter(t, newLoadedService(t))

	tests := []struct {
		name       string
		target     string
		wantStatus int
		check      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:       "whole dataset",
			target:     "/api/report",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, StatusOK, body["status"])
				report := body["report"].(map[string]interface{})
				assert.Equal(t, 5.0, report["post_count"])
				assert.Len(t, report["platforms"], 3)
				assert.NotNil(t, body["charts"])
			},
		},
		{
			name:       "platform and date filter",
			target:     "/api/report?start=2024-03-01&end=2024-03-04&platform=Instagram&platform=TikTok",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				report := body["report"].(map[string]interface{})
				assert.Equal(t, 2.0, report["post_count"])
				summary := report["summary"].(map[string]interface{})
				assert.Empty(t, summary["benchmark_error"])
			},
		},
		{
			name:       "comma is part of the platform name",
			target:     "/api/report?platform=Instagram,TikTok",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, StatusNoData, body["status"])
				filter := body["filter"].(map[string]interface{})
				assert.Equal(t, []interface{}{"Instagram,TikTok"}, filter["platforms"])
			},
		},
		{
			name:       "empty filter is not an error",
			target:     "/api/report?start=2025-01-01&end=2025-01-31",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, StatusNoData, body["status"])
				assert.Equal(t, presentation.NoDataMessage, body["message"])
				assert.NotContains(t, body, "report")
			},
		},
		{
			name:       "unknown platform yields no data",
			target:     "/api/report?platform=Myspace",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, StatusNoData, body["status"])
			},
		},
		{
			name:       "malformed date",
			target:     "/api/report?start=01.03.2024",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, apierrors.TypeValidation, body["type"])
			},
		},
		{
			name:       "end before start",
			target:     "/api/report?start=2024-03-10&end=2024-03-01",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]interface{}) {
				assert.Contains(t, body["details"], "field")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, router, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			tt.check(t, decode(t, rec))
		})
	}
}

func TestExportReport(t *testing.T) {
	router := newTestRouter(t, newLoadedService(t))

	t.Run("csv by default", func(t *testing.T) {
		rec := get(t, router, "/api/report/export")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="campaign-report_2024-03-01_2024-03-10.csv"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "Engagement Rate,6.87")
	})

	t.Run("xlsx", func(t *testing.T) {
		rec := get(t, router, "/api/report/export?format=xlsx&platform=Instagram")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Summary", "Instagram"}, f.GetSheetList())
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec := get(t, router, "/api/report/export?format=pdf")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, apierrors.TypeUnsupportedFormat, body["type"])
		assert.Equal(t, []interface{}{"csv", "xlsx"}, body["details"].(map[string]interface{})["supported"])
	})

	t.Run("empty filter", func(t *testing.T) {
		rec := get(t, router, "/api/report/export?start=2025-01-01&end=2025-01-02")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apierrors.TypeNoData, decode(t, rec)["type"])
	})
}

func TestExportReport_ExportFailure(t *testing.T) {
	svc := new(MockReportService)
	report := &domain.Report{}
	svc.On("DefaultFilter").Return(analytics.Filter{Start: testutil.Day("2024-03-01"), End: testutil.Day("2024-03-10")}, nil)
	svc.On("BuildReport", mock.Anything, services.SourceExport, mock.Anything).Return(report, nil)
	svc.On("Export", mock.Anything, mock.Anything, report, exporter.FormatXLSX).Return(errors.New("disk full"))

	rec := get(t, newTestRouter(t, svc), "/api/report/export?format=xlsx")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apierrors.TypeExportFailed, body["type"])
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	svc.AssertExpectations(t)
}

func TestHandlers_DatasetUnavailable(t *testing.T) {
	svc := new(MockReportService)
	svc.On("Platforms", mock.Anything).Return(nil, analytics.ErrNoDataset)
	svc.On("DefaultFilter").Return(analytics.Filter{}, analytics.ErrNoDataset)

	router := newTestRouter(t, svc)
	for _, target := range []string{"/", "/api/platforms", "/api/report", "/api/report/export"} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, router, target)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestServeDashboard(t *testing.T) {
	router := newTestRouter(t, newLoadedService(t))

	t.Run("full report", func(t *testing.T) {
		rec := get(t, router, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

		page := rec.Body.String()
		assert.Contains(t, page, presentation.DefaultTitle)
		assert.Contains(t, page, "Top 3 posts by engagement rate")
		assert.Contains(t, page, "&#43;25.0%")
		assert.NotContains(t, page, presentation.NoDataMessage)
	})

	t.Run("no data", func(t *testing.T) {
		rec := get(t, router, "/?start=2025-01-01&end=2025-01-02")
		require.Equal(t, http.StatusOK, rec.Code)
		page := rec.Body.String()
		assert.Contains(t, page, presentation.NoDataMessage)
		assert.Contains(t, page, `value="2025-01-01"`)
	})

	t.Run("selection keeps the other platforms listed", func(t *testing.T) {
		rec := get(t, router, "/?platform=TikTok")
		require.Equal(t, http.StatusOK, rec.Code)
		page := rec.Body.String()
		assert.Contains(t, page, "Instagram")
		assert.True(t, strings.Contains(page, "tt-1"))
		assert.False(t, strings.Contains(page, "ig-1"))
	})

	t.Run("bad query", func(t *testing.T) {
		rec := get(t, router, "/?end=yesterday")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetReport_PlatformNameWithComma(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewReportService(analytics.NewEngine(logger, analytics.DefaultEngineConfig()), services.ReportServiceOptions{}, logger)
	svc.SetDataset(domain.NewDataset([]domain.Post{
		{Title: "x-1", Date: testutil.Day("2024-03-01"), Platform: "X, formerly Twitter", Impressions: 100, Interactions: 5},
		{Title: "ig-1", Date: testutil.Day("2024-03-02"), Platform: "Instagram", Impressions: 200, Interactions: 20},
	}, nil, testutil.Day("2024-04-01")))
	router := newTestRouter(t, svc)

	query := url.Values{"platform": {"X, formerly Twitter"}}
	rec := get(t, router, "/api/report?"+query.Encode())
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, StatusOK, body["status"])
	report := body["report"].(map[string]interface{})
	assert.Equal(t, 1.0, report["post_count"])
	filter := body["filter"].(map[string]interface{})
	assert.Equal(t, []interface{}{"X, formerly Twitter"}, filter["platforms"])
}

// partialRenderer writes part of a page before failing
type partialRenderer struct{}

func (partialRenderer) Render(w io.Writer, _ *presentation.Dashboard) error {
	_, _ = io.WriteString(w, "<html><body>half a page")
	return errors.New("template exploded")
}

func TestServeDashboard_RenderFailure(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	dashboard := NewDashboardHandler(newLoadedService(t), middleware.NewValidator(), presentation.NewBuilder(nil, 3), partialRenderer{}, logger, errorHandler)

	r := chi.NewRouter()
	r.Get("/", dashboard.ServeDashboard)
	rec := get(t, r, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "half a page")
	body := decode(t, rec)
	assert.Equal(t, apierrors.TypeInternal, body["type"])
}

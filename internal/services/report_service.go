package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"campaignpulse/internal/analytics"
	"campaignpulse/internal/dataprocessing"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/infrastructure"
	"campaignpulse/pkg/contracts/domain"
)

// Report sources used as metric attributes
const (
	SourceAPI       = "api"
	SourceDashboard = "dashboard"
	SourceExport    = "export"
	SourceCLI       = "cli"
)

// PlatformsInfo describes the loaded dataset for the filter controls
type PlatformsInfo struct {
	Platforms []string  `json:"platforms"`
	MinDate   time.Time `json:"min_date"`
	MaxDate   time.Time `json:"max_date"`
	PostCount int       `json:"post_count"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// ReportService builds reports from the dataset loaded at startup.
// The dataset is read-only once set and shared by all requests.
type ReportService struct {
	dataset  atomic.Pointer[domain.Dataset]
	engine   *analytics.Engine
	exporter *exporter.Exporter
	metrics  *infrastructure.ReportMetrics
	system   *infrastructure.SystemMetrics
	logger   *slog.Logger
}

// ReportServiceOptions holds the optional collaborators of a ReportService
type ReportServiceOptions struct {
	Exporter *exporter.Exporter
	Metrics  *infrastructure.ReportMetrics
	System   *infrastructure.SystemMetrics
}

// NewReportService creates a report service around engine
func NewReportService(engine *analytics.Engine, opts ReportServiceOptions, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Exporter == nil {
		opts.Exporter = exporter.New(logger, exporter.Options{})
	}
	return &ReportService{
		engine:   engine,
		exporter: opts.Exporter,
		metrics:  opts.Metrics,
		system:   opts.System,
		logger:   infrastructure.WithComponent(logger, "report_service"),
	}
}

// LoadDataset reads both input files with loader and installs the result
func (s *ReportService) LoadDataset(ctx context.Context, loader *dataprocessing.Loader, postsPath, benchmarksPath string) error {
	ctx, span := infrastructure.StartSpan(ctx, "report.load_dataset",
		attribute.String("posts_path", postsPath),
		attribute.String("benchmarks_path", benchmarksPath))
	defer span.End()

	ds, err := loader.Load(ctx, postsPath, benchmarksPath)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	s.SetDataset(ds)
	return nil
}

// SetDataset installs a loaded dataset
func (s *ReportService) SetDataset(ds *domain.Dataset) {
	s.dataset.Store(ds)
	if s.system != nil && ds != nil {
		s.system.SetDatasetPosts(ds.Len())
	}
}

// Dataset returns the loaded dataset or ErrNoDataset
func (s *ReportService) Dataset() (*domain.Dataset, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return nil, analytics.ErrNoDataset
	}
	return ds, nil
}

// Ready reports whether a dataset has been loaded
func (s *ReportService) Ready() bool {
	return s.dataset.Load() != nil
}

// Platforms returns the platforms and date bounds of the dataset
func (s *ReportService) Platforms(ctx context.Context) (*PlatformsInfo, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	start, end, _ := ds.DateBounds()
	return &PlatformsInfo{
		Platforms: ds.Platforms(),
		MinDate:   start,
		MaxDate:   end,
		PostCount: ds.Len(),
		LoadedAt:  ds.LoadedAt(),
	}, nil
}

// DefaultFilter returns the filter covering the whole dataset
func (s *ReportService) DefaultFilter() (analytics.Filter, error) {
	ds, err := s.Dataset()
	if err != nil {
		return analytics.Filter{}, err
	}
	return analytics.DefaultFilter(ds), nil
}

// BuildReport assembles the report for f. An empty filter result is returned
// as analytics.ErrEmptyFilterResult and counted as a no_data build.
func (s *ReportService) BuildReport(ctx context.Context, source string, f analytics.Filter) (*domain.Report, error) {
	ctx, span := infrastructure.StartSpan(ctx, "report.build",
		attribute.String("source", source),
		attribute.StringSlice("platforms", f.Platforms))
	defer span.End()

	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := s.engine.Build(ctx, ds, f)
	duration := time.Since(start)

	switch {
	case errors.Is(err, analytics.ErrEmptyFilterResult):
		s.metrics.RecordReportBuild(ctx, source, infrastructure.OutcomeNoData, duration)
		return nil, err
	case err != nil:
		s.metrics.RecordReportBuild(ctx, source, infrastructure.OutcomeError, duration)
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "report build failed",
			slog.String("source", source),
			slog.String("filter", f.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("build report: %w", err)
	}

	s.metrics.RecordReportBuild(ctx, source, infrastructure.OutcomeOK, duration)
	s.metrics.RecordMissingBenchmarks(ctx, report.SkippedPlatforms())

	s.logger.InfoContext(ctx, "report built",
		slog.String("source", source),
		slog.String("filter", f.String()),
		slog.Int("post_count", report.PostCount),
		slog.Duration("duration", duration))

	return report, nil
}

// Export writes report to w in format and counts the download
func (s *ReportService) Export(ctx context.Context, w io.Writer, report *domain.Report, format exporter.Format) error {
	ctx, span := infrastructure.StartSpan(ctx, "report.export",
		attribute.String("format", string(format)))
	defer span.End()

	if err := s.exporter.Export(ctx, w, report, format); err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	s.metrics.RecordExport(ctx, string(format))
	return nil
}

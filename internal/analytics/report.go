package analytics

import (
	"context"
	"log/slog"
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// EngineConfig configures report assembly
type EngineConfig struct {
	RankSize int // rows in the top and flop tables
}

// DefaultEngineConfig returns the standard top-3 / flop-3 configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{RankSize: DefaultRankSize}
}

// Engine assembles campaign reports from a dataset and a filter.
// It holds no per-request state and may be shared.
type Engine struct {
	logger   *slog.Logger
	rankSize int
	now      func() time.Time
}

// NewEngine creates a report engine
func NewEngine(logger *slog.Logger, cfg EngineConfig) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RankSize <= 0 {
		cfg.RankSize = DefaultRankSize
	}
	return &Engine{
		logger:   logger.With(slog.String("component", "report_engine")),
		rankSize: cfg.RankSize,
		now:      time.Now,
	}
}

// Build filters the dataset and assembles the full report.
// It returns ErrEmptyFilterResult before computing anything when no post matches.
// A missing benchmark only degrades the affected section.
func (e *Engine) Build(ctx context.Context, ds *domain.Dataset, f Filter) (*domain.Report, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}

	platforms := f.SelectedPlatforms()
	filtered := FilterPosts(ds.Posts(), f)
	if len(filtered) == 0 {
		e.logger.InfoContext(ctx, "filter matched no posts",
			slog.Time("start", f.Start),
			slog.Time("end", f.End),
			slog.Any("platforms", platforms))
		return nil, ErrEmptyFilterResult
	}

	report := &domain.Report{
		Filter: domain.ReportFilter{
			Start:     domain.CalendarDay(f.Start),
			End:       domain.CalendarDay(f.End),
			Platforms: platforms,
		},
		GeneratedAt: e.now(),
		PostCount:   len(filtered),
		Summary:     e.summarize(ctx, ds.Benchmarks(), filtered, platforms),
		ByPlatform:  PlatformBreakdown(filtered),
		Timeline:    ImpressionsTimeline(filtered),
		Platforms:   make([]domain.PlatformReport, 0, len(platforms)),
	}

	for _, platform := range platforms {
		report.Platforms = append(report.Platforms, e.platformSection(ctx, ds.Benchmarks(), filtered, platform))
	}

	e.logger.DebugContext(ctx, "report assembled",
		slog.Int("post_count", report.PostCount),
		slog.Int("platform_count", len(report.Platforms)),
		slog.Any("skipped_platforms", report.SkippedPlatforms()))

	return report, nil
}

// summarize computes the headline metrics against the mean benchmark of the selection
func (e *Engine) summarize(ctx context.Context, table *domain.BenchmarkTable, posts []domain.Post, platforms []string) domain.Summary {
	totals := Aggregate(posts)
	summary := domain.Summary{
		Totals:         totals,
		EngagementRate: AggregateEngagementRate(totals),
		Metrics:        make([]domain.MetricSummary, 0, len(domain.BenchmarkMetrics)),
	}

	bench, err := BenchmarkFor(table, platforms)
	if err != nil {
		e.logger.WarnContext(ctx, "summary benchmark unavailable",
			slog.String("error", err.Error()))
		summary.BenchmarkError = err.Error()
	}

	for _, m := range domain.BenchmarkMetrics {
		actual := totals.Value(m)
		ms := domain.MetricSummary{
			Metric: m,
			Actual: actual,
			Delta:  domain.UndefinedDelta(),
		}
		if err == nil {
			ms.Benchmark, ms.HasBenchmark = bench.Value(m)
			ms.Delta = PerformanceDelta(actual, ms.Benchmark, ms.HasBenchmark)
		}
		summary.Metrics = append(summary.Metrics, ms)
	}
	return summary
}

// platformSection builds the ranked and full tables for one platform
func (e *Engine) platformSection(ctx context.Context, table *domain.BenchmarkTable, posts []domain.Post, platform string) domain.PlatformReport {
	section := domain.PlatformReport{
		Platform: platform,
		Top:      []domain.PostRow{},
		Flop:     []domain.PostRow{},
		All:      []domain.PostRow{},
	}

	bench, ok := table.Lookup(platform)
	if !ok {
		err := &MissingBenchmarkError{Platforms: []string{platform}}
		e.logger.WarnContext(ctx, "skipping platform section",
			slog.String("platform", platform),
			slog.String("error", err.Error()))
		section.Skipped = true
		section.Error = err.Error()
		return section
	}
	section.Benchmark = &bench

	subset := postsOn(posts, platform)
	section.Totals = Aggregate(subset)
	section.EngagementRate = AggregateEngagementRate(section.Totals)
	section.All = ScorePosts(subset, bench)
	section.Top = TopN(section.All, e.rankSize)
	section.Flop = BottomN(section.All, e.rankSize)
	return section
}

// ScorePosts derives engagement rate and per-metric deltas for each post, keeping order
func ScorePosts(posts []domain.Post, bench domain.BenchmarkRow) []domain.PostRow {
	rows := make([]domain.PostRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, domain.PostRow{
			Post:              p,
			EngagementRate:    EngagementRate(p),
			ImpressionsDelta:  deltaAgainst(p.Value(domain.MetricImpressions), bench, domain.MetricImpressions),
			InteractionsDelta: deltaAgainst(p.Value(domain.MetricInteractions), bench, domain.MetricInteractions),
			ClicksDelta:       deltaAgainst(p.Value(domain.MetricClicks), bench, domain.MetricClicks),
		})
	}
	return rows
}

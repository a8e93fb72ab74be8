package domain

import (
	"time"
)

// ReportFilter records the filter a report was built with
type ReportFilter struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Platforms []string  `json:"platforms"`
}

// MetricSummary is one headline metric with its benchmark comparison
type MetricSummary struct {
	Metric       Metric  `json:"metric"`
	Actual       float64 `json:"actual"`
	Benchmark    float64 `json:"benchmark"`
	HasBenchmark bool    `json:"has_benchmark"`
	Delta        Delta   `json:"delta"`
}

// Summary holds the aggregate overview across all filtered posts
type Summary struct {
	Totals         Totals          `json:"totals"`
	EngagementRate float64         `json:"engagement_rate"`
	Metrics        []MetricSummary `json:"metrics"`
	BenchmarkError string          `json:"benchmark_error,omitempty"`
}

// PlatformTotals holds per-platform counts used by the share and volume charts
type PlatformTotals struct {
	Platform    string `json:"platform"`
	Posts       int64  `json:"posts"`
	Impressions int64  `json:"impressions"`
}

// DailyImpressions is one point of the impressions timeline
type DailyImpressions struct {
	Date        time.Time `json:"date"`
	Platform    string    `json:"platform"`
	Impressions int64     `json:"impressions"`
}

// PostRow is a post with its derived engagement rate and benchmark deltas
type PostRow struct {
	Post
	EngagementRate    float64 `json:"engagement_rate"`
	ImpressionsDelta  Delta   `json:"impressions_delta"`
	InteractionsDelta Delta   `json:"interactions_delta"`
	ClicksDelta       Delta   `json:"clicks_delta"`
}

// DeltaFor returns the row delta for a per-post metric
func (r PostRow) DeltaFor(m Metric) Delta {
	switch m {
	case MetricImpressions:
		return r.ImpressionsDelta
	case MetricInteractions:
		return r.InteractionsDelta
	case MetricClicks:
		return r.ClicksDelta
	default:
		return UndefinedDelta()
	}
}

// PlatformReport is the per-platform section of a report.
// A skipped section carries Error and no tables.
type PlatformReport struct {
	Platform       string        `json:"platform"`
	Skipped        bool          `json:"skipped"`
	Error          string        `json:"error,omitempty"`
	Benchmark      *BenchmarkRow `json:"benchmark,omitempty"`
	Totals         Totals        `json:"totals"`
	EngagementRate float64       `json:"engagement_rate"`
	Top            []PostRow     `json:"top"`
	Flop           []PostRow     `json:"flop"`
	All            []PostRow     `json:"all"`
}

// HasPosts reports whether the section has any posts to show
func (p PlatformReport) HasPosts() bool {
	return len(p.All) > 0
}

// Report is the fully assembled campaign report for one filter state
type Report struct {
	Filter      ReportFilter       `json:"filter"`
	GeneratedAt time.Time          `json:"generated_at"`
	PostCount   int                `json:"post_count"`
	Summary     Summary            `json:"summary"`
	ByPlatform  []PlatformTotals   `json:"by_platform"`
	Timeline    []DailyImpressions `json:"timeline"`
	Platforms   []PlatformReport   `json:"platforms"`
}

// SkippedPlatforms returns the platforms whose sections could not be built
func (r *Report) SkippedPlatforms() []string {
	skipped := make([]string, 0)
	for _, p := range r.Platforms {
		if p.Skipped {
			skipped = append(skipped, p.Platform)
		}
	}
	return skipped
}

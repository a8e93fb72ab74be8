package analytics

import (
	"math"
	"strings"

	"campaignpulse/pkg/contracts/domain"
)

// TierThreshold is the delta, in percent, separating the neutral band from strong and weak
const TierThreshold = 10.0

// EngagementRate returns interactions per impression as a percentage.
// Posts without impressions have a rate of 0. The rate is not capped at 100.
func EngagementRate(p domain.Post) float64 {
	return ratePercent(p.Interactions, p.Impressions)
}

// Aggregate sums the metrics of posts
func Aggregate(posts []domain.Post) domain.Totals {
	var t domain.Totals
	for _, p := range posts {
		t.Posts++
		t.Impressions += p.Impressions
		t.Interactions += p.Interactions
		t.Clicks += p.Clicks
		t.VideoViews += p.VideoViews
	}
	return t
}

// AggregateEngagementRate is the engagement rate of the summed totals.
// It weighs posts by volume, so it generally differs from the mean of per-post rates.
func AggregateEngagementRate(t domain.Totals) float64 {
	return ratePercent(t.Interactions, t.Impressions)
}

func ratePercent(interactions, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(interactions) / float64(impressions) * 100
}

// BenchmarkFor averages, per metric, the benchmark rows of exactly the given platforms.
// Cells absent from a row are skipped; a metric absent everywhere stays absent.
// Every platform without a row is reported in a MissingBenchmarkError.
func BenchmarkFor(table *domain.BenchmarkTable, platforms []string) (domain.BenchmarkRow, error) {
	selection := Filter{Platforms: platforms}.SelectedPlatforms()
	if len(selection) == 0 {
		return domain.BenchmarkRow{}, ErrNoPlatforms
	}

	rows := make([]domain.BenchmarkRow, 0, len(selection))
	var missing []string
	for _, p := range selection {
		row, ok := table.Lookup(p)
		if !ok {
			missing = append(missing, p)
			continue
		}
		rows = append(rows, row)
	}
	if len(missing) > 0 {
		return domain.BenchmarkRow{}, &MissingBenchmarkError{Platforms: missing}
	}

	mean := domain.NewBenchmarkRow(strings.Join(selection, ", "))
	for _, m := range domain.BenchmarkMetrics {
		var sum float64
		var n int
		for _, row := range rows {
			if v, ok := row.Value(m); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			mean.Values[m] = sum / float64(n)
		}
	}
	return mean, nil
}

// PerformanceDelta compares actual to a benchmark.
// It is undefined when there is no benchmark or the benchmark is zero.
func PerformanceDelta(actual, benchmark float64, hasBenchmark bool) domain.Delta {
	if !hasBenchmark || benchmark == 0 || math.IsNaN(benchmark) || math.IsInf(benchmark, 0) {
		return domain.UndefinedDelta()
	}
	pct := (actual - benchmark) / benchmark * 100
	return domain.Delta{
		Percent: pct,
		Defined: true,
		Tier:    ClassifyTier(pct),
	}
}

// ClassifyTier maps an unrounded delta percentage onto strong, neutral or weak.
// Exactly +10 is neutral and exactly -10 is weak.
func ClassifyTier(pct float64) domain.Tier {
	switch {
	case pct > TierThreshold:
		return domain.TierStrong
	case pct > -TierThreshold:
		return domain.TierNeutral
	default:
		return domain.TierWeak
	}
}

// deltaAgainst compares metric m of a value source against a benchmark row
func deltaAgainst(actual float64, bench domain.BenchmarkRow, m domain.Metric) domain.Delta {
	v, ok := bench.Value(m)
	return PerformanceDelta(actual, v, ok)
}

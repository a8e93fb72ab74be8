package domain

// Metric identifies a countable campaign metric
type Metric string

const (
	MetricPosts        Metric = "posts"
	MetricImpressions  Metric = "impressions"
	MetricInteractions Metric = "interactions"
	MetricClicks       Metric = "clicks"
	MetricVideoViews   Metric = "video_views"
)

// BenchmarkMetrics lists the metrics a benchmark row can carry, in display order
var BenchmarkMetrics = []Metric{
	MetricPosts,
	MetricImpressions,
	MetricInteractions,
	MetricClicks,
	MetricVideoViews,
}

// PostDeltaMetrics lists the metrics compared per post against a platform benchmark
var PostDeltaMetrics = []Metric{
	MetricImpressions,
	MetricInteractions,
	MetricClicks,
}

// Label returns the human readable name of the metric
func (m Metric) Label() string {
	switch m {
	case MetricPosts:
		return "Posts"
	case MetricImpressions:
		return "Impressions"
	case MetricInteractions:
		return "Interactions"
	case MetricClicks:
		return "Clicks"
	case MetricVideoViews:
		return "Video Views"
	default:
		return string(m)
	}
}

// IsValid reports whether m is a known metric
func (m Metric) IsValid() bool {
	for _, known := range BenchmarkMetrics {
		if m == known {
			return true
		}
	}
	return false
}

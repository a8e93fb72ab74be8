package presentation

import (
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// Slice is one segment of a pie chart
type Slice struct {
	Label   string  `json:"label"`
	Value   int64   `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// PieChart shows the share of posts per platform
type PieChart struct {
	Title  string  `json:"title"`
	Slices []Slice `json:"slices"`
}

// Bar is one bar of a bar chart
type Bar struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

// BarChart shows impressions per platform
type BarChart struct {
	Title string `json:"title"`
	Bars  []Bar  `json:"bars"`
	Max   int64  `json:"max"`
}

// Point is one dated value of a line series
type Point struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

// Series is one platform line of a line chart, points ordered by date
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// LineChart shows daily impressions per platform
type LineChart struct {
	Title  string      `json:"title"`
	Dates  []time.Time `json:"dates"`
	Series []Series    `json:"series"`
	Max    int64       `json:"max"`
}

// Charts groups the three overview charts
type Charts struct {
	PostsShare  PieChart  `json:"posts_share"`
	Impressions BarChart  `json:"impressions"`
	Timeline    LineChart `json:"timeline"`
}

// BuildCharts derives all overview charts from a report
func BuildCharts(report *domain.Report, palette *Palette) Charts {
	if palette == nil {
		palette = NewPalette(report.Filter.Platforms...)
	}
	return Charts{
		PostsShare:  PostsShareChart(report.ByPlatform, palette),
		Impressions: ImpressionsChart(report.ByPlatform, palette),
		Timeline:    TimelineChart(report.Timeline, palette),
	}
}

// PostsShareChart builds the posts-per-platform pie
func PostsShareChart(totals []domain.PlatformTotals, palette *Palette) PieChart {
	chart := PieChart{Title: "Posts per Platform", Slices: make([]Slice, 0, len(totals))}

	var sum int64
	for _, t := range totals {
		sum += t.Posts
	}
	for _, t := range totals {
		s := Slice{Label: t.Platform, Value: t.Posts, Color: palette.Color(t.Platform)}
		if sum > 0 {
			s.Percent = float64(t.Posts) / float64(sum) * 100
		}
		chart.Slices = append(chart.Slices, s)
	}
	return chart
}

// ImpressionsChart builds the impressions-per-platform bar chart
func ImpressionsChart(totals []domain.PlatformTotals, palette *Palette) BarChart {
	chart := BarChart{Title: "Impressions per Platform", Bars: make([]Bar, 0, len(totals))}
	for _, t := range totals {
		chart.Bars = append(chart.Bars, Bar{Label: t.Platform, Value: t.Impressions, Color: palette.Color(t.Platform)})
		chart.Max = max(chart.Max, t.Impressions)
	}
	return chart
}

// TimelineChart builds one series per platform from daily impressions.
// Series follow the order in which platforms first appear in the timeline.
func TimelineChart(points []domain.DailyImpressions, palette *Palette) LineChart {
	chart := LineChart{
		Title:  "Impressions over Time per Platform",
		Dates:  make([]time.Time, 0),
		Series: make([]Series, 0),
	}

	seriesIndex := make(map[string]int)
	for _, p := range points {
		if n := len(chart.Dates); n == 0 || !chart.Dates[n-1].Equal(p.Date) {
			chart.Dates = append(chart.Dates, p.Date)
		}

		i, ok := seriesIndex[p.Platform]
		if !ok {
			i = len(chart.Series)
			seriesIndex[p.Platform] = i
			chart.Series = append(chart.Series, Series{Name: p.Platform, Color: palette.Color(p.Platform)})
		}
		chart.Series[i].Points = append(chart.Series[i].Points, Point{Date: p.Date, Value: p.Impressions})
		chart.Max = max(chart.Max, p.Impressions)
	}
	return chart
}

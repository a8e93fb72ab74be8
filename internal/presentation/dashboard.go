package presentation

import (
	"slices"
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// Display messages
const (
	DefaultTitle   = "Social Media Campaign Report"
	NoDataMessage  = "No data for the selected filter."
	NoPostsMessage = "No posts available."
)

// PlatformOption is one entry of the platform multi-select
type PlatformOption struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// FilterState is the current state of the filter controls
type FilterState struct {
	Start     string           `json:"start"`
	End       string           `json:"end"`
	MinDate   string           `json:"min_date"`
	MaxDate   string           `json:"max_date"`
	Platforms []PlatformOption `json:"platforms"`
}

// NewFilterState builds the control state. Available platforms are listed in
// order and flagged when selected.
func NewFilterState(start, end time.Time, selected, available []string, minDate, maxDate time.Time) FilterState {
	fs := FilterState{
		Start:     start.Format(time.DateOnly),
		End:       end.Format(time.DateOnly),
		MinDate:   minDate.Format(time.DateOnly),
		MaxDate:   maxDate.Format(time.DateOnly),
		Platforms: make([]PlatformOption, 0, len(available)),
	}
	for _, p := range available {
		fs.Platforms = append(fs.Platforms, PlatformOption{Name: p, Selected: slices.Contains(selected, p)})
	}
	return fs
}

// DeltaView is a delta label with its tier color
type DeltaView struct {
	Label string      `json:"label"`
	Color string      `json:"color"`
	Tier  domain.Tier `json:"tier"`
}

// MetricCard is one headline number of the overview
type MetricCard struct {
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Benchmark string    `json:"benchmark"`
	Delta     DeltaView `json:"delta"`
}

// PostRowView is a formatted post table row
type PostRowView struct {
	Title             string    `json:"title"`
	Date              string    `json:"date"`
	Impressions       string    `json:"impressions"`
	Interactions      string    `json:"interactions"`
	Clicks            string    `json:"clicks"`
	VideoViews        string    `json:"video_views"`
	EngagementRate    string    `json:"engagement_rate"`
	ImpressionsDelta  DeltaView `json:"impressions_delta"`
	InteractionsDelta DeltaView `json:"interactions_delta"`
	ClicksDelta       DeltaView `json:"clicks_delta"`
}

// BenchmarkCell is one value of a platform benchmark row
type BenchmarkCell struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// PlatformSection is the formatted per-platform block
type PlatformSection struct {
	Platform       string          `json:"platform"`
	Skipped        bool            `json:"skipped"`
	Message        string          `json:"message,omitempty"`
	Benchmark      []BenchmarkCell `json:"benchmark"`
	Posts          string          `json:"posts"`
	Impressions    string          `json:"impressions"`
	EngagementRate string          `json:"engagement_rate"`
	Top            []PostRowView   `json:"top"`
	Flop           []PostRowView   `json:"flop"`
	All            []PostRowView   `json:"all"`
}

// Dashboard is the complete view model of the dashboard page
type Dashboard struct {
	Title          string            `json:"title"`
	GeneratedAt    string            `json:"generated_at"`
	PostCount      string            `json:"post_count"`
	NoData         bool              `json:"no_data"`
	Message        string            `json:"message,omitempty"`
	BenchmarkNote  string            `json:"benchmark_note,omitempty"`
	Filter         FilterState       `json:"filter"`
	Cards          []MetricCard      `json:"cards"`
	EngagementRate string            `json:"engagement_rate"`
	RankSize       int               `json:"rank_size"`
	Charts         Charts            `json:"charts"`
	Sections       []PlatformSection `json:"sections"`
}

// Builder turns reports into dashboards
type Builder struct {
	format   *Formatter
	title    string
	rankSize int
}

// NewBuilder creates a dashboard builder. A nil formatter uses English grouping.
func NewBuilder(format *Formatter, rankSize int) *Builder {
	if format == nil {
		format = DefaultFormatter()
	}
	return &Builder{format: format, title: DefaultTitle, rankSize: rankSize}
}

// Build formats a report. A nil report yields the no-data dashboard.
func (b *Builder) Build(report *domain.Report, filter FilterState) *Dashboard {
	if report == nil {
		return b.NoData(filter)
	}

	d := &Dashboard{
		Title:          b.title,
		GeneratedAt:    report.GeneratedAt.Format("2006-01-02 15:04"),
		PostCount:      b.format.Count(int64(report.PostCount)),
		BenchmarkNote:  report.Summary.BenchmarkError,
		Filter:         filter,
		Cards:          make([]MetricCard, 0, len(report.Summary.Metrics)),
		EngagementRate: b.format.Rate(report.Summary.EngagementRate),
		RankSize:       b.rankSize,
		Charts:         BuildCharts(report, nil),
		Sections:       make([]PlatformSection, 0, len(report.Platforms)),
	}

	for _, m := range report.Summary.Metrics {
		card := MetricCard{
			Label: m.Metric.Label(),
			Value: b.format.Value(m.Actual),
			Delta: b.delta(m.Delta),
		}
		if m.HasBenchmark {
			card.Benchmark = b.format.Value(m.Benchmark)
		}
		d.Cards = append(d.Cards, card)
	}

	for _, section := range report.Platforms {
		d.Sections = append(d.Sections, b.section(section))
	}
	return d
}

// NoData builds the dashboard shown when the filter matches no posts
func (b *Builder) NoData(filter FilterState) *Dashboard {
	return &Dashboard{
		Title:     b.title,
		PostCount: b.format.Count(0),
		NoData:    true,
		Message:   NoDataMessage,
		Filter:    filter,
		RankSize:  b.rankSize,
		Cards:     []MetricCard{},
		Sections:  []PlatformSection{},
	}
}

func (b *Builder) section(p domain.PlatformReport) PlatformSection {
	s := PlatformSection{
		Platform:  p.Platform,
		Skipped:   p.Skipped,
		Benchmark: []BenchmarkCell{},
		Top:       b.rows(p.Top),
		Flop:      b.rows(p.Flop),
		All:       b.rows(p.All),
	}
	if p.Skipped {
		s.Message = p.Error
		return s
	}
	if !p.HasPosts() {
		s.Message = NoPostsMessage
	}

	s.Posts = b.format.Count(p.Totals.Posts)
	s.Impressions = b.format.Count(p.Totals.Impressions)
	s.EngagementRate = b.format.Rate(p.EngagementRate)
	if p.Benchmark != nil {
		for _, m := range domain.BenchmarkMetrics {
			cell := BenchmarkCell{Label: m.Label(), Value: "-"}
			if v, ok := p.Benchmark.Value(m); ok {
				cell.Value = b.format.Value(v)
			}
			s.Benchmark = append(s.Benchmark, cell)
		}
	}
	return s
}

func (b *Builder) rows(rows []domain.PostRow) []PostRowView {
	out := make([]PostRowView, 0, len(rows))
	for _, r := range rows {
		out = append(out, PostRowView{
			Title:             r.Title,
			Date:              b.format.Date(r.Date),
			Impressions:       b.format.Count(r.Impressions),
			Interactions:      b.format.Count(r.Interactions),
			Clicks:            b.format.Count(r.Clicks),
			VideoViews:        b.format.Count(r.VideoViews),
			EngagementRate:    b.format.Rate(r.EngagementRate),
			ImpressionsDelta:  b.delta(r.ImpressionsDelta),
			InteractionsDelta: b.delta(r.InteractionsDelta),
			ClicksDelta:       b.delta(r.ClicksDelta),
		})
	}
	return out
}

func (b *Builder) delta(d domain.Delta) DeltaView {
	return DeltaView{Label: b.format.Delta(d), Color: TierColor(d.Tier), Tier: d.Tier}
}

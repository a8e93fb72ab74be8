package presentation

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TerminalRenderer renders dashboards as plain terminal tables.
// Colors are only emitted when the output supports them.
type TerminalRenderer struct {
	title lipgloss.Style
	bold  lipgloss.Style
	body  lipgloss.Style
	muted lipgloss.Style
}

// NewTerminalRenderer creates a renderer bound to the color profile of w
func NewTerminalRenderer(w io.Writer) *TerminalRenderer {
	r := lipgloss.NewRenderer(w)
	return &TerminalRenderer{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0a66c2")),
		bold:  r.NewStyle().Bold(true),
		body:  r.NewStyle(),
		muted: r.NewStyle().Foreground(lipgloss.Color(ColorUndefined)),
	}
}

// cell is a table value with an optional foreground color
type cell struct {
	text  string
	color string
}

// textTable is a simple column-aligned table
type textTable struct {
	title   string
	headers []string
	rows    [][]cell
}

func newTextTable(title string, headers ...string) *textTable {
	return &textTable{title: title, headers: headers, rows: make([][]cell, 0)}
}

func (t *textTable) add(row ...cell) {
	t.rows = append(t.rows, row)
}

func plain(values ...string) []cell {
	out := make([]cell, len(values))
	for i, v := range values {
		out[i] = cell{text: v}
	}
	return out
}

// Render writes the full dashboard as text to w
func (tr *TerminalRenderer) Render(w io.Writer, d *Dashboard) error {
	_, err := io.WriteString(w, tr.String(d))
	return err
}

// String renders the dashboard as text
func (tr *TerminalRenderer) String(d *Dashboard) string {
	var sb strings.Builder

	sb.WriteString(tr.title.Render(d.Title))
	sb.WriteString("\n")
	sb.WriteString(tr.muted.Render(fmt.Sprintf("%s to %s, platforms: %s", d.Filter.Start, d.Filter.End, selectedNames(d.Filter))))
	sb.WriteString("\n\n")
	sb.WriteString(tr.bold.Render(fmt.Sprintf("Filtered results: %s posts", d.PostCount)))
	sb.WriteString("\n\n")

	if d.NoData {
		sb.WriteString(d.Message)
		sb.WriteString("\n")
		return sb.String()
	}

	if d.BenchmarkNote != "" {
		sb.WriteString(tr.muted.Render("Benchmark unavailable: " + d.BenchmarkNote))
		sb.WriteString("\n\n")
	}

	summary := newTextTable("Overview", "Metric", "Value", "Benchmark", "Performance")
	for _, c := range d.Cards {
		benchmark := c.Benchmark
		if benchmark == "" {
			benchmark = "-"
		}
		summary.add(cell{text: c.Label}, cell{text: c.Value}, cell{text: benchmark}, cell{text: c.Delta.Label, color: c.Delta.Color})
	}
	summary.add(plain("Engagement Rate", d.EngagementRate, "-", "")...)
	sb.WriteString(tr.table(summary))

	byPlatform := newTextTable("Posts and Impressions per Platform", "Platform", "Posts", "Share", "Impressions")
	for i, s := range d.Charts.PostsShare.Slices {
		impressions := int64(0)
		if i < len(d.Charts.Impressions.Bars) {
			impressions = d.Charts.Impressions.Bars[i].Value
		}
		byPlatform.add(plain(s.Label, fmt.Sprint(s.Value), fmt.Sprintf("%.1f%%", s.Percent), fmt.Sprint(impressions))...)
	}
	sb.WriteString(tr.table(byPlatform))

	for _, s := range d.Sections {
		sb.WriteString(tr.title.Render("Platform: " + s.Platform))
		sb.WriteString("\n")
		if s.Skipped {
			sb.WriteString(tr.muted.Render(s.Message))
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(fmt.Sprintf("Posts: %s, Impressions: %s, Engagement Rate: %s\n\n", s.Posts, s.Impressions, s.EngagementRate))
		if s.Message != "" {
			sb.WriteString(s.Message)
			sb.WriteString("\n\n")
			continue
		}
		sb.WriteString(tr.posts(fmt.Sprintf("Top %d posts by engagement rate", d.RankSize), s.Top))
		sb.WriteString(tr.posts(fmt.Sprintf("Flop %d posts by engagement rate", d.RankSize), s.Flop))
	}

	return sb.String()
}

func (tr *TerminalRenderer) posts(title string, rows []PostRowView) string {
	t := newTextTable(title, "Title", "Date", "Impressions", "Interactions", "Clicks", "ER", "Imp Perf.", "Int Perf.", "Click Perf.")
	for _, r := range rows {
		t.add(
			cell{text: r.Title},
			cell{text: r.Date},
			cell{text: r.Impressions},
			cell{text: r.Interactions},
			cell{text: r.Clicks},
			cell{text: r.EngagementRate},
			cell{text: r.ImpressionsDelta.Label, color: r.ImpressionsDelta.Color},
			cell{text: r.InteractionsDelta.Label, color: r.InteractionsDelta.Color},
			cell{text: r.ClicksDelta.Label, color: r.ClicksDelta.Color},
		)
	}
	return tr.table(t)
}

// table renders a textTable with padded columns
func (tr *TerminalRenderer) table(t *textTable) string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	if t.title != "" {
		sb.WriteString(tr.bold.Render(t.title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.headers))
	for i, h := range t.headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], lipgloss.Width(c.text))
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := tr.bold.Padding(0, 1)
	rowStyle := tr.body.Padding(0, 1)
	sep := tr.muted.Render("|")

	for i, h := range t.headers {
		sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	totalWidth := len(t.headers) - 1
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(tr.muted.Render(strings.Repeat("-", totalWidth)))
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i, c := range row {
			if i >= len(colWidths) {
				break
			}
			style := rowStyle.Width(colWidths[i])
			if c.color != "" {
				style = style.Foreground(lipgloss.Color(c.color))
			}
			sb.WriteString(style.Render(c.text))
			if i < len(row)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func selectedNames(f FilterState) string {
	names := make([]string, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		if p.Selected {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

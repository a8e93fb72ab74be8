package presentation

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// chart canvas size of the timeline SVG
const (
	lineChartWidth  = 640
	lineChartHeight = 220
)

// Renderer renders dashboards to HTML
type Renderer struct {
	template *template.Template
}

// NewRenderer parses the embedded dashboard template
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard.html").Funcs(template.FuncMap{
		"barWidth":  barWidth,
		"pieStyle":  pieStyle,
		"polyline":  polyline,
		"chartSize": func() [2]int { return [2]int{lineChartWidth, lineChartHeight} },
	}).ParseFS(templateFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &Renderer{template: tmpl}, nil
}

// Render writes the dashboard page to w. Nothing is written when execution fails.
func (r *Renderer) Render(w io.Writer, d *Dashboard) error {
	var buf bytes.Buffer
	if err := r.template.Execute(&buf, d); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// barWidth returns the bar length in percent of the largest bar
func barWidth(value, maxValue int64) string {
	if maxValue <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(value)/float64(maxValue)*100)
}

// pieStyle renders the pie slices as a CSS conic gradient
func pieStyle(chart PieChart) template.CSS {
	if len(chart.Slices) == 0 {
		return template.CSS("background: " + ColorUndefined)
	}
	stops := make([]string, 0, len(chart.Slices))
	var from float64
	for _, s := range chart.Slices {
		to := from + s.Percent
		stops = append(stops, fmt.Sprintf("%s %.2f%% %.2f%%", s.Color, from, to))
		from = to
	}
	return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ")")
}

// polyline maps a series onto the SVG canvas. X follows the chart's date axis.
func polyline(chart LineChart, s Series) string {
	if len(chart.Dates) == 0 {
		return ""
	}
	xs := make(map[int64]float64, len(chart.Dates))
	step := 0.0
	if len(chart.Dates) > 1 {
		step = float64(lineChartWidth) / float64(len(chart.Dates)-1)
	}
	for i, d := range chart.Dates {
		xs[d.Unix()] = float64(i) * step
	}

	points := make([]string, 0, len(s.Points))
	for _, p := range s.Points {
		y := float64(lineChartHeight)
		if chart.Max > 0 {
			y -= float64(p.Value) / float64(chart.Max) * float64(lineChartHeight)
		}
		points = append(points, fmt.Sprintf("%.1f,%.1f", xs[p.Date.Unix()], y))
	}
	return strings.Join(points, " ")
}

package exporter

import (
	"fmt"
	"io"

	"campaignpulse/pkg/contracts/domain"
)

var summaryHeaders = []string{"Metric", "Value", "Benchmark", "Performance"}

var postHeaders = []string{
	"Platform", "Title", "Date", "Impressions", "Interactions", "Clicks", "Video Views",
	"Engagement Rate", "Imp Perf.", "Int Perf.", "Click Perf.", "Note",
}

// WriteReportCSV writes the report as two CSV blocks separated by an empty line:
// the summary metrics, then every post of every platform section.
func (e *Exporter) WriteReportCSV(w io.Writer, report *domain.Report) error {
	records := summaryRecords(report.Summary)
	records = append(records, nil, postHeaders)
	for _, section := range report.Platforms {
		records = append(records, sectionRecords(section)...)
	}

	if err := WriteCSV(w, WriteOptions{
		Headers:   summaryHeaders,
		Records:   records,
		Comma:     e.options.Comma,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("failed to write report csv: %w", err)
	}
	return nil
}

func summaryRecords(s domain.Summary) [][]string {
	records := make([][]string, 0, len(s.Metrics)+1)
	for _, m := range s.Metrics {
		benchmark := ""
		if m.HasBenchmark {
			benchmark = formatFloat(m.Benchmark)
		}
		records = append(records, []string{m.Metric.Label(), formatFloat(m.Actual), benchmark, m.Delta.Label()})
	}
	return append(records, []string{"Engagement Rate", formatRate(s.EngagementRate), "", ""})
}

func sectionRecords(section domain.PlatformReport) [][]string {
	if section.Skipped {
		return [][]string{{section.Platform, "", "", "", "", "", "", "", "", "", "", section.Error}}
	}
	records := make([][]string, 0, len(section.All))
	for _, row := range section.All {
		records = append(records, []string{
			section.Platform,
			row.Title,
			row.Date.Format("2006-01-02"),
			formatInt(row.Impressions),
			formatInt(row.Interactions),
			formatInt(row.Clicks),
			formatInt(row.VideoViews),
			formatRate(row.EngagementRate),
			row.ImpressionsDelta.Label(),
			row.InteractionsDelta.Label(),
			row.ClicksDelta.Label(),
			"",
		})
	}
	return records
}

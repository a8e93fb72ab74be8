package exporter

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"campaignpulse/internal/presentation"
	"campaignpulse/pkg/contracts/domain"
)

const (
	summarySheet      = "Summary"
	maxSheetNameLen   = 31
	invalidSheetChars = `:\/?*[]`
)

var xlsxPostHeaders = []string{
	"Title", "Date", "Impressions", "Interactions", "Clicks", "Video Views",
	"Engagement Rate", "Imp Perf.", "Int Perf.", "Click Perf.",
}

// delta columns in xlsxPostHeaders, 1-based
var deltaColumns = []int{8, 9, 10}

// WriteReportXLSX writes the report as a workbook with a summary sheet
// and one sheet per platform section.
func (e *Exporter) WriteReportXLSX(w io.Writer, report *domain.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, styles, report); err != nil {
		return err
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, section := range report.Platforms {
		name := uniqueSheetName(section.Platform, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
		if err := e.writePlatformSheet(f, styles, name, section); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

type xlsxStyles struct {
	header int
	title  int
	tiers  map[domain.Tier]int
}

func newXLSXStyles(f *excelize.File) (*xlsxStyles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E9ECEF"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 13}})
	if err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}

	styles := &xlsxStyles{header: header, title: title, tiers: make(map[domain.Tier]int)}
	for _, tier := range []domain.Tier{domain.TierStrong, domain.TierNeutral, domain.TierWeak, domain.TierUndefined} {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: tier != domain.TierUndefined, Color: excelColor(presentation.TierColor(tier))},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s style: %w", tier, err)
		}
		styles.tiers[tier] = id
	}
	return styles, nil
}

func writeSummarySheet(f *excelize.File, styles *xlsxStyles, report *domain.Report) error {
	rows := [][]interface{}{
		{"Period", fmt.Sprintf("%s - %s", report.Filter.Start.Format("2006-01-02"), report.Filter.End.Format("2006-01-02"))},
		{"Platforms", strings.Join(report.Filter.Platforms, ", ")},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{},
	}
	if err := setRows(f, summarySheet, 1, rows); err != nil {
		return err
	}

	headerRow := len(rows) + 1
	if err := setHeader(f, styles, summarySheet, headerRow, summaryHeaders); err != nil {
		return err
	}

	row := headerRow + 1
	for _, m := range report.Summary.Metrics {
		values := []interface{}{m.Metric.Label(), m.Actual, "", m.Delta.Label()}
		if m.HasBenchmark {
			values[2] = m.Benchmark
		}
		if err := setRow(f, summarySheet, row, values); err != nil {
			return err
		}
		if err := styleCell(f, summarySheet, 4, row, styles.tiers[m.Delta.Tier]); err != nil {
			return err
		}
		row++
	}

	if err := setRow(f, summarySheet, row, []interface{}{"Engagement Rate", roundRate(report.Summary.EngagementRate)}); err != nil {
		return err
	}
	row++

	if report.Summary.BenchmarkError != "" {
		if err := setRow(f, summarySheet, row+1, []interface{}{"Note", report.Summary.BenchmarkError}); err != nil {
			return err
		}
	}

	return f.SetColWidth(summarySheet, "A", "D", 18)
}

func (e *Exporter) writePlatformSheet(f *excelize.File, styles *xlsxStyles, sheet string, section domain.PlatformReport) error {
	if section.Skipped {
		return setRow(f, sheet, 1, []interface{}{section.Error})
	}

	rank := e.options.RankSize
	if rank <= 0 {
		rank = len(section.Top)
	}

	row := 1
	blocks := []struct {
		title string
		posts []domain.PostRow
	}{
		{fmt.Sprintf("Top %d posts by engagement rate", rank), section.Top},
		{fmt.Sprintf("Flop %d posts by engagement rate", rank), section.Flop},
		{"All posts", section.All},
	}

	for _, block := range blocks {
		if err := setRow(f, sheet, row, []interface{}{block.title}); err != nil {
			return err
		}
		if err := styleCell(f, sheet, 1, row, styles.title); err != nil {
			return err
		}
		row++

		if err := setHeader(f, styles, sheet, row, xlsxPostHeaders); err != nil {
			return err
		}
		row++

		for _, post := range block.posts {
			if err := setRow(f, sheet, row, postValues(post)); err != nil {
				return err
			}
			for i, metric := range domain.PostDeltaMetrics {
				if err := styleCell(f, sheet, deltaColumns[i], row, styles.tiers[post.DeltaFor(metric).Tier]); err != nil {
					return err
				}
			}
			row++
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "J", 14)
}

func postValues(p domain.PostRow) []interface{} {
	return []interface{}{
		p.Title,
		p.Date.Format("2006-01-02"),
		p.Impressions,
		p.Interactions,
		p.Clicks,
		p.VideoViews,
		roundRate(p.EngagementRate),
		p.ImpressionsDelta.Label(),
		p.InteractionsDelta.Label(),
		p.ClicksDelta.Label(),
	}
}

func setHeader(f *excelize.File, styles *xlsxStyles, sheet string, row int, headers []string) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(f, sheet, row, values); err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, styles.header)
}

func setRows(f *excelize.File, sheet string, start int, rows [][]interface{}) error {
	for i, values := range rows {
		if err := setRow(f, sheet, start+i, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// uniqueSheetName turns a platform name into a valid, unused worksheet name
func uniqueSheetName(platform string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return '_'
		}
		return r
	}, strings.Trim(platform, "' "))
	if name == "" {
		name = domain.UnknownPlatform
	}
	name = truncateRunes(name, maxSheetNameLen)

	candidate := name
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// excelColor converts "#rrggbb" to the RGB form excelize expects
func excelColor(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}

func roundRate(f float64) float64 {
	return math.Round(f*100) / 100
}

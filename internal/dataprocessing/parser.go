package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"campaignpulse/pkg/contracts/domain"
)

// ParseOptions controls how a post export is interpreted
type ParseOptions struct {
	DateLayouts []string
	Location    *time.Location
	// SerialDates accepts Excel serial day numbers in the date column
	SerialDates bool
}

// PostsResult is the outcome of parsing a post export
type PostsResult struct {
	Posts []domain.Post
	// DroppedLines lists the records skipped because their date could not be parsed
	DroppedLines []int
}

// ReadCSV reads every record of a delimited text file.
// A UTF-8 or UTF-16 byte order mark is honoured and removed; rows may have
// differing field counts.
func ReadCSV(source string, r io.Reader, comma rune) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &LoadError{Source: source, Line: pe.Line, Err: fmt.Errorf("%w: %v", ErrMalformedValue, pe.Err)}
		}
		return nil, &LoadError{Source: source, Err: fmt.Errorf("read csv: %w", err)}
	}
	return records, nil
}

// ReadXLSX reads the raw cell values of the first worksheet of a workbook
func ReadXLSX(source string, r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Source: source, Err: ErrEmptyFile}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("read sheet %q: %w", sheets[0], err)}
	}
	return rows, nil
}

// ParsePosts converts export records into posts, keeping their order.
// Rows with an unparseable date are dropped and reported in DroppedLines.
// Any other malformed cell fails the whole file.
func ParsePosts(source string, records [][]string, opts ParseOptions) (*PostsResult, error) {
	if len(records) == 0 {
		return nil, &LoadError{Source: source, Err: ErrEmptyFile}
	}

	cols := findPostColumns(records[0])
	if missing := cols.missing(); len(missing) > 0 {
		return nil, &LoadError{Source: source, Line: 1, Column: strings.Join(missing, ", "), Err: ErrMissingColumn}
	}

	dates := newDateParser(opts.DateLayouts, opts.Location, opts.SerialDates)
	result := &PostsResult{
		Posts:        make([]domain.Post, 0, len(records)-1),
		DroppedLines: make([]int, 0),
	}

	for i, record := range records[1:] {
		line := i + 2
		if isBlank(record) {
			continue
		}

		date, err := dates.parse(cell(record, cols.date))
		if err != nil {
			result.DroppedLines = append(result.DroppedLines, line)
			continue
		}

		post := domain.Post{
			Title:    cell(record, cols.title),
			Date:     date,
			Platform: postPlatform(record, cols),
		}

		counts := []struct {
			idx    int
			column string
			dst    *int64
		}{
			{cols.impressions, ColumnImpressions, &post.Impressions},
			{cols.interactions, ColumnInteractions, &post.Interactions},
			{cols.clicks, ColumnClicks, &post.Clicks},
			{cols.videoViews, ColumnVideoViews, &post.VideoViews},
		}
		for _, c := range counts {
			v, err := parseCount(cell(record, c.idx))
			if err != nil {
				return nil, &LoadError{Source: source, Line: line, Column: c.column, Err: err}
			}
			*c.dst = v
		}

		result.Posts = append(result.Posts, post)
	}

	if len(result.Posts) == 0 {
		return nil, &LoadError{Source: source, Err: ErrNoPosts}
	}
	return result, nil
}

// postPlatform prefers the Plattform cell, then the Platform cell, then UnknownPlatform
func postPlatform(record []string, cols postColumns) string {
	if p := cell(record, cols.platform); p != "" {
		return p
	}
	if p := cell(record, cols.platformAlt); p != "" {
		return p
	}
	return domain.UnknownPlatform
}

// ParseBenchmarks converts benchmark records into a table keyed by platform.
// Empty cells are absent values; a platform listed twice is an error.
func ParseBenchmarks(source string, records [][]string) (*domain.BenchmarkTable, error) {
	if len(records) == 0 {
		return nil, &LoadError{Source: source, Err: ErrEmptyFile}
	}

	cols := findBenchmarkColumns(records[0])
	if cols.platform < 0 {
		return nil, &LoadError{Source: source, Line: 1, Column: ColumnPlatform, Err: ErrMissingColumn}
	}

	values := []struct {
		idx    int
		column string
		metric domain.Metric
	}{
		{cols.posts, ColumnPosts, domain.MetricPosts},
		{cols.impressions, ColumnImpressions, domain.MetricImpressions},
		{cols.interactions, ColumnInteractions, domain.MetricInteractions},
		{cols.clicks, ColumnClicks, domain.MetricClicks},
		{cols.videoViews, ColumnVideoViews, domain.MetricVideoViews},
	}

	rows := make([]domain.BenchmarkRow, 0, len(records)-1)
	seen := make(map[string]int)
	for i, record := range records[1:] {
		line := i + 2
		if isBlank(record) {
			continue
		}

		platform := cell(record, cols.platform)
		if platform == "" {
			return nil, &LoadError{Source: source, Line: line, Column: ColumnPlatform, Err: ErrMissingPlatform}
		}
		if first, dup := seen[platform]; dup {
			return nil, &LoadError{
				Source: source,
				Line:   line,
				Column: ColumnPlatform,
				Err:    fmt.Errorf("%w: %s (first on line %d)", domain.ErrDuplicateBenchmark, platform, first),
			}
		}
		seen[platform] = line

		row := domain.NewBenchmarkRow(platform)
		for _, v := range values {
			value, ok, err := parseBenchmarkValue(cell(record, v.idx))
			if err != nil {
				return nil, &LoadError{Source: source, Line: line, Column: v.column, Err: err}
			}
			if ok {
				row.Values[v.metric] = value
			}
		}
		rows = append(rows, row)
	}

	table, err := domain.NewBenchmarkTable(rows)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return table, nil
}

// parseCount reads a non-negative whole number. Empty cells count as 0.
// Integral floats such as "1200.0" are accepted since spreadsheet tools write them.
func parseCount(value string) (int64, error) {
	if value == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: %s", ErrNegativeValue, value)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrMalformedValue, value)
	}
	if f < 0 {
		return 0, fmt.Errorf("%w: %s", ErrNegativeValue, value)
	}
	return int64(f), nil
}

// parseBenchmarkValue reads an optional non-negative benchmark.
// ok is false for an empty or NaN cell.
func parseBenchmarkValue(value string) (float64, bool, error) {
	if value == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q is not a number", ErrMalformedValue, value)
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%w: %q is not finite", ErrMalformedValue, value)
	}
	if f < 0 {
		return 0, false, fmt.Errorf("%w: %s", ErrNegativeValue, value)
	}
	return f, true, nil
}

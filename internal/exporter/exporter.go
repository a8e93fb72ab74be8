package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// Format is a report download format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SupportedFormats lists the formats Export accepts
var SupportedFormats = []string{string(FormatCSV), string(FormatXLSX)}

// ErrUnsupportedFormat is returned for an unknown export format
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat parses a case-insensitive format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName returns the download name for a report in this format
func (f Format) FileName(report *domain.Report) string {
	return fmt.Sprintf("campaign-report_%s_%s.%s",
		report.Filter.Start.Format(time.DateOnly),
		report.Filter.End.Format(time.DateOnly),
		f)
}

// Options configures report exports
type Options struct {
	Comma    rune // CSV delimiter, defaults to ','
	RankSize int  // used in section titles
}

// Exporter writes assembled reports as downloadable files
type Exporter struct {
	logger  *slog.Logger
	options Options
}

// New creates an exporter
func New(logger *slog.Logger, options Options) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if options.Comma == 0 {
		options.Comma = ','
	}
	return &Exporter{
		logger:  logger.With(slog.String("component", "exporter")),
		options: options,
	}
}

// Export writes report to w in the given format
func (e *Exporter) Export(ctx context.Context, w io.Writer, report *domain.Report, format Format) error {
	if report == nil {
		return errors.New("export: nil report")
	}

	start := time.Now()
	var err error
	switch format {
	case FormatCSV:
		err = e.WriteReportCSV(w, report)
	case FormatXLSX:
		err = e.WriteReportXLSX(w, report)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	e.logger.InfoContext(ctx, "report exported",
		slog.String("format", string(format)),
		slog.Int("post_count", report.PostCount),
		slog.Duration("duration", time.Since(start)))
	return nil
}

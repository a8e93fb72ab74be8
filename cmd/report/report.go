package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"campaignpulse/internal/analytics"
	"campaignpulse/internal/app"
	"campaignpulse/internal/config"
	"campaignpulse/internal/dataprocessing"
	apierrors "campaignpulse/internal/errors"
	"campaignpulse/internal/exporter"
	"campaignpulse/internal/infrastructure"
	"campaignpulse/internal/presentation"
	"campaignpulse/internal/services"
	"campaignpulse/pkg/contracts"
	"campaignpulse/pkg/contracts/domain"
)

// Output formats besides the export formats
const (
	formatText = "text"
	formatJSON = "json"
)

type reportOptions struct {
	configFile string
	posts      string
	benchmarks string
	start      string
	end        string
	platforms  []string
	format     string
	out        string
	top        int
	logLevel   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a social media campaign report",
		Long: `Loads the post export and the benchmark file, applies the date and
platform filter and prints the report as text or JSON, or writes it as CSV or
XLSX. Flags override the configuration file and PULSE_* variables.`,
		Version:       contracts.GetFullVersionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), opts, stdout, stderr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configFile, "config", "", "configuration file (YAML)")
	f.StringVar(&opts.posts, "posts", "", "post export (CSV or XLSX)")
	f.StringVar(&opts.benchmarks, "benchmarks", "", "benchmark file (CSV or XLSX)")
	f.StringVar(&opts.start, "start", "", "first day, YYYY-MM-DD (default: earliest post)")
	f.StringVar(&opts.end, "end", "", "last day, YYYY-MM-DD (default: latest post)")
	f.StringArrayVar(&opts.platforms, "platform", nil, "platform to include, repeatable (default: all)")
	f.StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, csv or xlsx")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default: stdout)")
	f.IntVar(&opts.top, "top", 0, "rows in the top and flop tables (default from config)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	return cmd
}

func runReport(ctx context.Context, opts *reportOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := strings.ToLower(strings.TrimSpace(opts.format))
	var exportFormat exporter.Format
	if format != formatText && format != formatJSON {
		var err error
		if exportFormat, err = exporter.ParseFormat(format); err != nil {
			return fmt.Errorf("--format: %w", err)
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger := infrastructure.NewLogger(cfg.Logging, stderr)

	svc := services.NewReportService(
		analytics.NewEngine(logger, analytics.EngineConfig{RankSize: cfg.Report.RankSize}),
		services.ReportServiceOptions{
			Exporter: exporter.New(logger, exporter.Options{RankSize: cfg.Report.RankSize}),
		},
		logger,
	)

	loader := dataprocessing.NewLoader(logger, app.LoaderConfig(cfg.Data))
	if err := svc.LoadDataset(ctx, loader, cfg.Data.PostsFile, cfg.Data.BenchmarksFile); err != nil {
		return err
	}

	f, err := buildFilter(svc, opts)
	if err != nil {
		return err
	}

	report, err := svc.BuildReport(ctx, services.SourceCLI, f)
	empty := errors.Is(err, analytics.ErrEmptyFilterResult)
	if err != nil && !empty {
		return err
	}
	if empty && exportFormat != "" {
		return fmt.Errorf("nothing to export for %s: %w", f, err)
	}

	w, closeOut, err := openOutput(opts.out, stdout)
	if err != nil {
		return err
	}

	switch {
	case exportFormat != "":
		if err = svc.Export(ctx, w, report, exportFormat); err != nil {
			err = apierrors.NewExportError(fmt.Sprintf("%s export failed", exportFormat), err)
		}
	case format == formatJSON:
		err = writeJSON(w, f, report)
	default:
		err = writeText(ctx, w, svc, cfg.Report.RankSize, f, report)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if opts.out != "" {
		logger.InfoContext(ctx, "report written",
			slog.String("path", opts.out),
			slog.String("format", format))
	}
	return nil
}

// loadConfig layers the command line flags over the configuration
func loadConfig(opts *reportOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.posts != "" {
		cfg.Data.PostsFile = opts.posts
	}
	if opts.benchmarks != "" {
		cfg.Data.BenchmarksFile = opts.benchmarks
	}
	if opts.top < 0 {
		return nil, fmt.Errorf("--top must be positive, got %d", opts.top)
	}
	if opts.top > 0 {
		cfg.Report.RankSize = opts.top
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	// the console logger writes to stderr only
	cfg.Logging.Output = "console"

	paths, err := cfg.GetPaths()
	if err != nil {
		return nil, err
	}
	cfg.Data.PostsFile = paths.PostsFile
	cfg.Data.BenchmarksFile = paths.BenchmarksFile
	return cfg, nil
}

func buildFilter(svc *services.ReportService, opts *reportOptions) (analytics.Filter, error) {
	f, err := svc.DefaultFilter()
	if err != nil {
		return analytics.Filter{}, err
	}

	if opts.start != "" {
		if f.Start, err = time.Parse(time.DateOnly, opts.start); err != nil {
			return analytics.Filter{}, fmt.Errorf("--start must be a date in YYYY-MM-DD format: %q", opts.start)
		}
	}
	if opts.end != "" {
		if f.End, err = time.Parse(time.DateOnly, opts.end); err != nil {
			return analytics.Filter{}, fmt.Errorf("--end must be a date in YYYY-MM-DD format: %q", opts.end)
		}
	}
	if f.End.Before(f.Start) {
		return analytics.Filter{}, fmt.Errorf("--end %s is before --start %s", f.End.Format(time.DateOnly), f.Start.Format(time.DateOnly))
	}

	var platforms []string
	for _, p := range opts.platforms {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}
	if len(platforms) > 0 {
		f.Platforms = platforms
	}
	return f, nil
}

func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	file, err := exporter.CreateFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return file, file.Close, nil
}

type jsonOutput struct {
	Status  string               `json:"status"`
	Message string               `json:"message,omitempty"`
	Filter  domain.ReportFilter  `json:"filter"`
	Report  *domain.Report       `json:"report,omitempty"`
	Charts  *presentation.Charts `json:"charts,omitempty"`
}

func writeJSON(w io.Writer, f analytics.Filter, report *domain.Report) error {
	out := jsonOutput{
		Status: "no_data",
		Filter: domain.ReportFilter{
			Start:     f.Start,
			End:       f.End,
			Platforms: f.SelectedPlatforms(),
		},
	}
	if report == nil {
		out.Message = presentation.NoDataMessage
	} else {
		charts := presentation.BuildCharts(report, nil)
		out.Status = "ok"
		out.Filter = report.Filter
		out.Report = report
		out.Charts = &charts
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(ctx context.Context, w io.Writer, svc *services.ReportService, rankSize int, f analytics.Filter, report *domain.Report) error {
	info, err := svc.Platforms(ctx)
	if err != nil {
		return err
	}
	state := presentation.NewFilterState(f.Start, f.End, f.SelectedPlatforms(), info.Platforms, info.MinDate, info.MaxDate)

	builder := presentation.NewBuilder(nil, rankSize)
	dashboard := builder.NoData(state)
	if report != nil {
		dashboard = builder.Build(report, state)
	}
	return presentation.NewTerminalRenderer(w).Render(w, dashboard)
}

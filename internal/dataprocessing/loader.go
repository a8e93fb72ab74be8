package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"campaignpulse/pkg/contracts/domain"
)

// LoaderConfig configures how input files are read
type LoaderConfig struct {
	PostsDelimiter      rune
	BenchmarksDelimiter rune
	DateLayouts         []string
	Location            *time.Location
}

// DefaultLoaderConfig matches the usual campaign export: semicolon separated
// posts and comma separated benchmarks
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		PostsDelimiter:      ';',
		BenchmarksDelimiter: ',',
		DateLayouts:         DefaultDateLayouts,
		Location:            time.UTC,
	}
}

// Loader reads the post export and the benchmark file into a dataset
type Loader struct {
	logger *slog.Logger
	cfg    LoaderConfig
	now    func() time.Time
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultLoaderConfig()
	if cfg.PostsDelimiter == 0 {
		cfg.PostsDelimiter = def.PostsDelimiter
	}
	if cfg.BenchmarksDelimiter == 0 {
		cfg.BenchmarksDelimiter = def.BenchmarksDelimiter
	}
	if len(cfg.DateLayouts) == 0 {
		cfg.DateLayouts = def.DateLayouts
	}
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	return &Loader{
		logger: logger.With(slog.String("component", "loader")),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Load reads both files concurrently and builds the dataset.
// Any failure is returned as a *LoadError.
func (l *Loader) Load(ctx context.Context, postsPath, benchmarksPath string) (*domain.Dataset, error) {
	var (
		posts      *PostsResult
		benchmarks *domain.BenchmarkTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = l.LoadPosts(gctx, postsPath)
		return err
	})
	g.Go(func() error {
		var err error
		benchmarks, err = l.LoadBenchmarks(gctx, benchmarksPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := domain.NewDataset(posts.Posts, benchmarks, l.now())
	start, end, _ := ds.DateBounds()
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("posts", ds.Len()),
		slog.Int("dropped_rows", len(posts.DroppedLines)),
		slog.Int("benchmarks", benchmarks.Len()),
		slog.Any("platforms", ds.Platforms()),
		slog.String("first_day", start.Format(time.DateOnly)),
		slog.String("last_day", end.Format(time.DateOnly)))

	for _, p := range ds.Platforms() {
		if _, ok := benchmarks.Lookup(p); !ok {
			l.logger.WarnContext(ctx, "platform has no benchmark row",
				slog.String("platform", p))
		}
	}

	return ds, nil
}

// LoadPosts reads and parses the post export
func (l *Loader) LoadPosts(ctx context.Context, path string) (*PostsResult, error) {
	records, xlsx, err := l.readRecords(ctx, path, l.cfg.PostsDelimiter)
	if err != nil {
		return nil, err
	}

	result, err := ParsePosts(path, records, ParseOptions{
		DateLayouts: l.cfg.DateLayouts,
		Location:    l.cfg.Location,
		SerialDates: xlsx,
	})
	if err != nil {
		return nil, err
	}

	if n := len(result.DroppedLines); n > 0 {
		l.logger.WarnContext(ctx, "dropped rows with unparseable date",
			slog.String("file", path),
			slog.Int("count", n),
			slog.Any("lines", firstN(result.DroppedLines, 10)))
	}
	return result, nil
}

// LoadBenchmarks reads and parses the benchmark file
func (l *Loader) LoadBenchmarks(ctx context.Context, path string) (*domain.BenchmarkTable, error) {
	records, _, err := l.readRecords(ctx, path, l.cfg.BenchmarksDelimiter)
	if err != nil {
		return nil, err
	}
	return ParseBenchmarks(path, records)
}

// readRecords picks the workbook or delimited reader by file extension
func (l *Loader) readRecords(ctx context.Context, path string, comma rune) ([][]string, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, &LoadError{Source: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, false, &LoadError{Source: path, Err: fmt.Errorf("open: %w", err)}
	}
	defer f.Close()

	l.logger.DebugContext(ctx, "reading input file", slog.String("file", path))

	if IsWorkbook(path) {
		records, err := ReadXLSX(path, f)
		return records, true, err
	}
	records, err := ReadCSV(path, f, comma)
	return records, false, err
}

// IsWorkbook reports whether path names an Excel workbook
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

func firstN(lines []int, n int) []int {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

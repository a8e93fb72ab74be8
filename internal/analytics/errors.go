package analytics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFilterResult signals that the filter matched no posts.
	// Callers show a "no data" state instead of aggregates.
	ErrEmptyFilterResult = errors.New("no posts match the selected filter")

	// ErrNoPlatforms is returned when a benchmark is requested for no platform at all
	ErrNoPlatforms = errors.New("no platforms selected")

	// ErrNoDataset is returned when a report is requested before data was loaded
	ErrNoDataset = errors.New("dataset not loaded")
)

// MissingBenchmarkError reports platforms that have no row in the benchmark table
type MissingBenchmarkError struct {
	Platforms []string
}

// Error implements the error interface
func (e *MissingBenchmarkError) Error() string {
	if len(e.Platforms) == 1 {
		return fmt.Sprintf("no benchmark for platform %q", e.Platforms[0])
	}
	quoted := make([]string, len(e.Platforms))
	for i, p := range e.Platforms {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("no benchmark for platforms %s", strings.Join(quoted, ", "))
}

// IsMissingBenchmark reports whether err is or wraps a MissingBenchmarkError
func IsMissingBenchmark(err error) bool {
	var mbe *MissingBenchmarkError
	return errors.As(err, &mbe)
}

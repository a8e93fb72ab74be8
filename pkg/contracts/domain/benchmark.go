package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// ErrDuplicateBenchmark is returned when a benchmark table names a platform twice
var ErrDuplicateBenchmark = errors.New("duplicate benchmark platform")

// BenchmarkRow holds the expected values of one platform.
// A metric missing from Values has no benchmark.
type BenchmarkRow struct {
	Platform string             `json:"platform"`
	Values   map[Metric]float64 `json:"values"`
}

// NewBenchmarkRow creates an empty benchmark row for a platform
func NewBenchmarkRow(platform string) BenchmarkRow {
	return BenchmarkRow{
		Platform: platform,
		Values:   make(map[Metric]float64),
	}
}

// Value returns the benchmark for a metric and whether one is defined
func (r BenchmarkRow) Value(m Metric) (float64, bool) {
	v, ok := r.Values[m]
	return v, ok
}

// Clone returns a deep copy of the row
func (r BenchmarkRow) Clone() BenchmarkRow {
	return BenchmarkRow{
		Platform: r.Platform,
		Values:   maps.Clone(r.Values),
	}
}

// BenchmarkTable is a read-only lookup of benchmark rows keyed by platform
type BenchmarkTable struct {
	rows  map[string]BenchmarkRow
	order []string
}

// NewBenchmarkTable builds a table from rows, keeping their order.
// Platform names must be unique.
func NewBenchmarkTable(rows []BenchmarkRow) (*BenchmarkTable, error) {
	t := &BenchmarkTable{
		rows:  make(map[string]BenchmarkRow, len(rows)),
		order: make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		if _, exists := t.rows[row.Platform]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBenchmark, row.Platform)
		}
		t.rows[row.Platform] = row.Clone()
		t.order = append(t.order, row.Platform)
	}
	return t, nil
}

// Lookup returns a copy of the row for platform
func (t *BenchmarkTable) Lookup(platform string) (BenchmarkRow, bool) {
	if t == nil {
		return BenchmarkRow{}, false
	}
	row, ok := t.rows[platform]
	if !ok {
		return BenchmarkRow{}, false
	}
	return row.Clone(), true
}

// Platforms returns the benchmarked platforms in table order
func (t *BenchmarkTable) Platforms() []string {
	if t == nil {
		return []string{}
	}
	return slices.Clone(t.order)
}

// Len returns the number of rows in the table
func (t *BenchmarkTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

package domain

import (
	"slices"
	"time"
)

// Dataset is the immutable, load-once view of a campaign export and its benchmarks.
// Accessors hand out copies so callers cannot mutate the shared state.
type Dataset struct {
	posts      []Post
	benchmarks *BenchmarkTable
	platforms  []string
	minDate    time.Time
	maxDate    time.Time
	loadedAt   time.Time
}

// NewDataset wraps posts (in export order) and a benchmark table
func NewDataset(posts []Post, benchmarks *BenchmarkTable, loadedAt time.Time) *Dataset {
	ds := &Dataset{
		posts:      slices.Clone(posts),
		benchmarks: benchmarks,
		platforms:  make([]string, 0),
		loadedAt:   loadedAt,
	}
	if ds.benchmarks == nil {
		ds.benchmarks, _ = NewBenchmarkTable(nil)
	}

	seen := make(map[string]struct{})
	for i, p := range ds.posts {
		if _, ok := seen[p.Platform]; !ok {
			seen[p.Platform] = struct{}{}
			ds.platforms = append(ds.platforms, p.Platform)
		}
		day := p.Day()
		if i == 0 || day.Before(ds.minDate) {
			ds.minDate = day
		}
		if i == 0 || day.After(ds.maxDate) {
			ds.maxDate = day
		}
	}
	return ds
}

// Posts returns a copy of all posts in export order
func (d *Dataset) Posts() []Post {
	return slices.Clone(d.posts)
}

// Len returns the number of posts
func (d *Dataset) Len() int {
	return len(d.posts)
}

// Benchmarks returns the benchmark table
func (d *Dataset) Benchmarks() *BenchmarkTable {
	return d.benchmarks
}

// Platforms returns the distinct post platforms in order of first appearance
func (d *Dataset) Platforms() []string {
	return slices.Clone(d.platforms)
}

// DateBounds returns the first and last post day. ok is false for an empty dataset.
func (d *Dataset) DateBounds() (start, end time.Time, ok bool) {
	if len(d.posts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d.minDate, d.maxDate, true
}

// LoadedAt returns when the dataset was loaded
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

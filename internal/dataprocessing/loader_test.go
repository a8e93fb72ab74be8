package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	testPosts = "Datum;Plattform;Titel;Impressionen;Interaktionen;Klicks;Videoaufrufe\n" +
		"2024-03-01;Instagram;Launch;1000;50;10;0\n" +
		"2024-03-02;TikTok;Clip;4000;400;0;3000\n" +
		"kaputt;TikTok;Broken;1;1;1;1\n" +
		"2024-03-10;LinkedIn;Hiring;300;9;4;0\n"

	testBenchmarks = "Plattform,Posts,Impressionen,Interaktionen,Klicks,Videoaufrufe\n" +
		"Instagram,2,800,20,5,0\n" +
		"TikTok,2,2500,200,,2000\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	posts := writeFile(t, dir, "posts.csv", testPosts)
	bench := writeFile(t, dir, "benchmarks.csv", testBenchmarks)

	ds, err := NewLoader(nil, DefaultLoaderConfig()).Load(context.Background(), posts, bench)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"Instagram", "TikTok", "LinkedIn"}, ds.Platforms())
	assert.Equal(t, 2, ds.Benchmarks().Len())

	start, end, ok := ds.DateBounds()
	require.True(t, ok)
	assert.Equal(t, "2024-03-01", start.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", end.Format("2006-01-02"))
}

func TestLoader_Load_Workbook(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Datum", "Plattform", "Titel", "Impressionen", "Interaktionen"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-03-01", "Instagram", "From Excel", 120, 12}))
	posts := filepath.Join(dir, "posts.xlsx")
	require.NoError(t, f.SaveAs(posts))
	require.NoError(t, f.Close())

	bench := writeFile(t, dir, "benchmarks.csv", testBenchmarks)

	ds, err := NewLoader(nil, DefaultLoaderConfig()).Load(context.Background(), posts, bench)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "From Excel", ds.Posts()[0].Title)
}

func TestLoader_Load_Errors(t *testing.T) {
	dir := t.TempDir()
	posts := writeFile(t, dir, "posts.csv", testPosts)
	bench := writeFile(t, dir, "benchmarks.csv", testBenchmarks)
	dupBench := writeFile(t, dir, "dup.csv", "Plattform,Posts\nX,1\nX,2\n")

	tests := []struct {
		name  string
		posts string
		bench string
	}{
		{"missing posts file", filepath.Join(dir, "nope.csv"), bench},
		{"missing benchmark file", posts, filepath.Join(dir, "nope.csv")},
		{"duplicate benchmark", posts, dupBench},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewLoader(nil, DefaultLoaderConfig()).Load(context.Background(), tt.posts, tt.bench)
			assert.Nil(t, ds)
			assert.True(t, IsLoadError(err), "got %v", err)
		})
	}
}

func TestLoader_Load_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	posts := writeFile(t, dir, "posts.csv", testPosts)
	bench := writeFile(t, dir, "benchmarks.csv", testBenchmarks)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil, DefaultLoaderConfig()).Load(ctx, posts, bench)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_CustomDelimiter(t *testing.T) {
	dir := t.TempDir()
	posts := writeFile(t, dir, "posts.csv", "Datum,Titel,Impressionen,Interaktionen\n2024-03-01,A,10,1\n")
	bench := writeFile(t, dir, "benchmarks.csv", "Plattform;Posts\nUnknown;1\n")

	cfg := DefaultLoaderConfig()
	cfg.PostsDelimiter = ','
	cfg.BenchmarksDelimiter = ';'

	ds, err := NewLoader(nil, cfg).Load(context.Background(), posts, bench)
	require.NoError(t, err)
	assert.Equal(t, []string{"Unknown"}, ds.Platforms())
	_, ok := ds.Benchmarks().Lookup("Unknown")
	assert.True(t, ok)
}

func TestIsWorkbook(t *testing.T) {
	assert.True(t, IsWorkbook("a/b/Export.XLSX"))
	assert.True(t, IsWorkbook("x.xlsm"))
	assert.False(t, IsWorkbook("x.csv"))
	assert.False(t, IsWorkbook("xlsx"))
}

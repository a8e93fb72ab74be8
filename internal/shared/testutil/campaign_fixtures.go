package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// PostsCSV is a small campaign export in the default semicolon layout.
// LinkedIn has posts but no benchmark row.
const PostsCSV = "Datum;Plattform;Titel;Impressionen;Interaktionen;Klicks;Videoaufrufe\n" +
	"01.03.2024;Instagram;ig-1;1000;50;10;0\n" +
	"02.03.2024;TikTok;tt-1;4000;400;0;3000\n" +
	"05.03.2024;Instagram;ig-2;500;5;2;0\n" +
	"05.03.2024;LinkedIn;li-1;0;0;0;0\n" +
	"10.03.2024;TikTok;tt-2;2000;60;0;1500\n"

// BenchmarksCSV holds benchmark rows for Instagram and TikTok
const BenchmarksCSV = "Plattform,Posts,Impressionen,Interaktionen,Klicks,Videoaufrufe\n" +
	"Instagram,2,800,20,5,0\n" +
	"TikTok,2,2500,200,,2000\n"

// Day parses a YYYY-MM-DD date in UTC and panics on malformed input
func Day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SamplePosts returns the posts of PostsCSV
func SamplePosts() []domain.Post {
	return []domain.Post{
		{Title: "ig-1", Date: Day("2024-03-01"), Platform: "Instagram", Impressions: 1000, Interactions: 50, Clicks: 10},
		{Title: "tt-1", Date: Day("2024-03-02"), Platform: "TikTok", Impressions: 4000, Interactions: 400, VideoViews: 3000},
		{Title: "ig-2", Date: Day("2024-03-05"), Platform: "Instagram", Impressions: 500, Interactions: 5, Clicks: 2},
		{Title: "li-1", Date: Day("2024-03-05"), Platform: "LinkedIn"},
		{Title: "tt-2", Date: Day("2024-03-10"), Platform: "TikTok", Impressions: 2000, Interactions: 60, VideoViews: 1500},
	}
}

// SampleBenchmarks returns the benchmark table of BenchmarksCSV
func SampleBenchmarks(t testing.TB) *domain.BenchmarkTable {
	t.Helper()

	instagram := domain.NewBenchmarkRow("Instagram")
	instagram.Values[domain.MetricPosts] = 2
	instagram.Values[domain.MetricImpressions] = 800
	instagram.Values[domain.MetricInteractions] = 20
	instagram.Values[domain.MetricClicks] = 5
	instagram.Values[domain.MetricVideoViews] = 0

	tiktok := domain.NewBenchmarkRow("TikTok")
	tiktok.Values[domain.MetricPosts] = 2
	tiktok.Values[domain.MetricImpressions] = 2500
	tiktok.Values[domain.MetricInteractions] = 200
	tiktok.Values[domain.MetricVideoViews] = 2000

	table, err := domain.NewBenchmarkTable([]domain.BenchmarkRow{instagram, tiktok})
	if err != nil {
		t.Fatalf("build benchmark table: %v", err)
	}
	return table
}

// SampleDataset returns the dataset described by PostsCSV and BenchmarksCSV
func SampleDataset(t testing.TB) *domain.Dataset {
	t.Helper()
	return domain.NewDataset(SamplePosts(), SampleBenchmarks(t), time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC))
}

// WriteCampaignFiles writes PostsCSV and BenchmarksCSV into a temp directory
// and returns their paths
func WriteCampaignFiles(t testing.TB) (postsPath, benchmarksPath string) {
	t.Helper()
	dir := t.TempDir()
	postsPath = WriteFile(t, dir, "posts.csv", PostsCSV)
	benchmarksPath = WriteFile(t, dir, "benchmarks.csv", BenchmarksCSV)
	return postsPath, benchmarksPath
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

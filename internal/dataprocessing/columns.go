package dataprocessing

import (
	"strings"
)

// Canonical header names as they appear in German campaign exports
const (
	ColumnDate         = "Datum"
	ColumnPlatform     = "Plattform"
	ColumnPlatformAlt  = "Platform"
	ColumnImpressions  = "Impressionen"
	ColumnInteractions = "Interaktionen"
	ColumnClicks       = "Klicks"
	ColumnVideoViews   = "Videoaufrufe"
	ColumnTitle        = "Titel"
	ColumnPosts        = "Posts"
)

// postColumns holds the header index of each post field, -1 when absent
type postColumns struct {
	date         int
	platform     int
	platformAlt  int
	impressions  int
	interactions int
	clicks       int
	videoViews   int
	title        int
}

// benchmarkColumns holds the header index of each benchmark field, -1 when absent
type benchmarkColumns struct {
	platform     int
	posts        int
	impressions  int
	interactions int
	clicks       int
	videoViews   int
}

// normalizeHeader strips byte order marks, zero-width characters and case so
// that "\ufeffDatum ", "datum" and "DATUM" compare equal.
// Underscores and repeated blanks collapse to a single space.
func normalizeHeader(col string) string {
	clean := strings.TrimSpace(col)
	clean = strings.TrimPrefix(clean, "\ufeff")
	if strings.HasPrefix(clean, string([]byte{0xEF, 0xBB, 0xBF})) {
		clean = clean[3:]
	}
	clean = strings.Trim(clean, "\u200B\u200C\u200D\u2060\ufeff")
	clean = strings.ToLower(clean)
	clean = strings.NewReplacer("_", " ", "-", " ").Replace(clean)
	return strings.Join(strings.Fields(clean), " ")
}

// setOnce records i in *idx unless the column was already found
func setOnce(idx *int, i int) {
	if *idx < 0 {
		*idx = i
	}
}

// findPostColumns locates the post fields in a header row.
// German names come first; English aliases are accepted as well.
func findPostColumns(header []string) postColumns {
	cols := postColumns{
		date:         -1,
		platform:     -1,
		platformAlt:  -1,
		impressions:  -1,
		interactions: -1,
		clicks:       -1,
		videoViews:   -1,
		title:        -1,
	}

	for i, col := range header {
		switch normalizeHeader(col) {
		case "datum", "date", "veröffentlicht", "published", "published at":
			setOnce(&cols.date, i)
		case "plattform", "kanal":
			setOnce(&cols.platform, i)
		case "platform", "channel", "network":
			setOnce(&cols.platformAlt, i)
		case "impressionen", "impressions", "reichweite impressionen":
			setOnce(&cols.impressions, i)
		case "interaktionen", "interactions", "engagements":
			setOnce(&cols.interactions, i)
		case "klicks", "clicks", "link klicks", "link clicks":
			setOnce(&cols.clicks, i)
		case "videoaufrufe", "video views", "videoviews", "views":
			setOnce(&cols.videoViews, i)
		case "titel", "title", "beitrag", "post":
			setOnce(&cols.title, i)
		}
	}

	return cols
}

// missing lists the required post columns not found in the header
func (c postColumns) missing() []string {
	var out []string
	if c.date < 0 {
		out = append(out, ColumnDate)
	}
	if c.impressions < 0 {
		out = append(out, ColumnImpressions)
	}
	if c.interactions < 0 {
		out = append(out, ColumnInteractions)
	}
	if c.title < 0 {
		out = append(out, ColumnTitle)
	}
	return out
}

// findBenchmarkColumns locates the benchmark fields in a header row
func findBenchmarkColumns(header []string) benchmarkColumns {
	cols := benchmarkColumns{
		platform:     -1,
		posts:        -1,
		impressions:  -1,
		interactions: -1,
		clicks:       -1,
		videoViews:   -1,
	}

	for i, col := range header {
		switch normalizeHeader(col) {
		case "plattform", "platform", "kanal", "channel":
			setOnce(&cols.platform, i)
		case "posts", "beiträge", "beitraege", "anzahl posts":
			setOnce(&cols.posts, i)
		case "impressionen", "impressions":
			setOnce(&cols.impressions, i)
		case "interaktionen", "interactions", "engagements":
			setOnce(&cols.interactions, i)
		case "klicks", "clicks":
			setOnce(&cols.clicks, i)
		case "videoaufrufe", "video views", "videoviews", "views":
			setOnce(&cols.videoViews, i)
		}
	}

	return cols
}

// cell returns the trimmed value at idx, or "" when the column is absent or the row is short
func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// isBlank reports whether every cell of a record is empty
func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package domain

import (
	"time"
)

// UnknownPlatform is assigned to posts whose export row names no platform.
const UnknownPlatform = "Unknown"

// Post represents a single published item from a campaign export
type Post struct {
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Platform     string    `json:"platform"`
	Impressions  int64     `json:"impressions"`
	Interactions int64     `json:"interactions"`
	Clicks       int64     `json:"clicks"`
	VideoViews   int64     `json:"video_views"`
}

// Day returns the calendar day the post was published on
func (p Post) Day() time.Time {
	return CalendarDay(p.Date)
}

// Value returns the raw value of a per-post metric.
// MetricPosts is always 1 so that a post contributes one unit to post counts.
func (p Post) Value(m Metric) float64 {
	switch m {
	case MetricPosts:
		return 1
	case MetricImpressions:
		return float64(p.Impressions)
	case MetricInteractions:
		return float64(p.Interactions)
	case MetricClicks:
		return float64(p.Clicks)
	case MetricVideoViews:
		return float64(p.VideoViews)
	default:
		return 0
	}
}

// CalendarDay truncates t to midnight UTC of the same calendar date.
// The wall-clock date of t is kept regardless of its location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

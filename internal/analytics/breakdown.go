package analytics

import (
	"cmp"
	"slices"
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// PlatformBreakdown counts posts and sums impressions per platform.
// Platforms are ordered by post count, descending, then by first appearance.
func PlatformBreakdown(posts []domain.Post) []domain.PlatformTotals {
	index := make(map[string]int)
	out := make([]domain.PlatformTotals, 0)
	for _, p := range posts {
		i, ok := index[p.Platform]
		if !ok {
			i = len(out)
			index[p.Platform] = i
			out = append(out, domain.PlatformTotals{Platform: p.Platform})
		}
		out[i].Posts++
		out[i].Impressions += p.Impressions
	}
	slices.SortStableFunc(out, func(a, b domain.PlatformTotals) int {
		return cmp.Compare(b.Posts, a.Posts)
	})
	return out
}

// ImpressionsTimeline sums impressions per day and platform, ordered by day then platform
func ImpressionsTimeline(posts []domain.Post) []domain.DailyImpressions {
	type key struct {
		day      time.Time
		platform string
	}
	sums := make(map[key]int64)
	for _, p := range posts {
		sums[key{day: p.Day(), platform: p.Platform}] += p.Impressions
	}

	out := make([]domain.DailyImpressions, 0, len(sums))
	for k, v := range sums {
		out = append(out, domain.DailyImpressions{Date: k.day, Platform: k.platform, Impressions: v})
	}
	slices.SortFunc(out, func(a, b domain.DailyImpressions) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Platform, b.Platform)
	})
	return out
}

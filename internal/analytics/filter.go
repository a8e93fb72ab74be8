package analytics

import (
	"fmt"
	"time"

	"campaignpulse/pkg/contracts/domain"
)

// Filter selects posts by an inclusive calendar-day range and a platform set
type Filter struct {
	Start     time.Time
	End       time.Time
	Platforms []string
}

// DefaultFilter covers the whole dataset: every day and every platform present
func DefaultFilter(ds *domain.Dataset) Filter {
	start, end, _ := ds.DateBounds()
	return Filter{
		Start:     start,
		End:       end,
		Platforms: ds.Platforms(),
	}
}

// SelectedPlatforms returns the platform selection with duplicates removed, in order
func (f Filter) SelectedPlatforms() []string {
	seen := make(map[string]struct{}, len(f.Platforms))
	out := make([]string, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// FilterPosts returns the posts inside the date range whose platform is selected,
// keeping their original order. Start after End yields an empty result.
func FilterPosts(posts []domain.Post, f Filter) []domain.Post {
	start := domain.CalendarDay(f.Start)
	end := domain.CalendarDay(f.End)

	selected := make(map[string]struct{}, len(f.Platforms))
	for _, p := range f.Platforms {
		selected[p] = struct{}{}
	}

	out := make([]domain.Post, 0)
	for _, post := range posts {
		day := post.Day()
		if day.Before(start) || day.After(end) {
			continue
		}
		if _, ok := selected[post.Platform]; !ok {
			continue
		}
		out = append(out, post)
	}
	return out
}

// postsOn returns the posts of one platform, keeping order
func postsOn(posts []domain.Post, platform string) []domain.Post {
	out := make([]domain.Post, 0)
	for _, p := range posts {
		if p.Platform == platform {
			out = append(out, p)
		}
	}
	return out
}

// String describes the filter for logs and file names
func (f Filter) String() string {
	return fmt.Sprintf("%s..%s %v", f.Start.Format(time.DateOnly), f.End.Format(time.DateOnly), f.SelectedPlatforms())
}

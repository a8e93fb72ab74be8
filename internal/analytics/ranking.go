package analytics

import (
	"cmp"
	"slices"

	"campaignpulse/pkg/contracts/domain"
)

// DefaultRankSize is the number of posts in the top and flop tables
const DefaultRankSize = 3

// TopN returns up to n rows with the highest engagement rate.
// Ties keep their original order.
func TopN(rows []domain.PostRow, n int) []domain.PostRow {
	return rankBy(rows, n, func(a, b domain.PostRow) int {
		return cmp.Compare(b.EngagementRate, a.EngagementRate)
	})
}

// BottomN returns up to n rows with the lowest engagement rate.
// Ties keep their original order.
func BottomN(rows []domain.PostRow, n int) []domain.PostRow {
	return rankBy(rows, n, func(a, b domain.PostRow) int {
		return cmp.Compare(a.EngagementRate, b.EngagementRate)
	})
}

func rankBy(rows []domain.PostRow, n int, order func(a, b domain.PostRow) int) []domain.PostRow {
	if n <= 0 || len(rows) == 0 {
		return []domain.PostRow{}
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, order)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

package workload

import "sort"

// LeaderboardEntry aggregates one candidate's monthly output for ranking.
type LeaderboardEntry struct {
	CandidateID string  `json:"candidate_id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	DoneCount   int     `json:"done_count"`
	DonePoints  float64 `json:"done_points"`
	TotalCount  int     `json:"total_count"`
	TotalPoints float64 `json:"total_points"`
}

// PointsPerItem returns the average point estimate across all counted
// items, 0 when there are none.
func (e LeaderboardEntry) PointsPerItem() float64 {
	if e.TotalCount == 0 {
		return 0
	}
	return e.TotalPoints / float64(e.TotalCount)
}

// RankLeaderboard sorts entries by done points descending, breaking ties
// by done item count and then display name for a stable, readable order.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, len(entries))
	copy(ranked, entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DonePoints != ranked[j].DonePoints {
			return ranked[i].DonePoints > ranked[j].DonePoints
		}
		if ranked[i].DoneCount != ranked[j].DoneCount {
			return ranked[i].DoneCount > ranked[j].DoneCount
		}
		return ranked[i].DisplayName < ranked[j].DisplayName
	})
	return ranked
}

package workload

import "testing"

func TestRankLeaderboard(t *testing.T) {
	entries := []LeaderboardEntry{
		{CandidateID: "a", DisplayName: "Alice", DonePoints: 10, DoneCount: 3},
		{CandidateID: "b", DisplayName: "Bob", DonePoints: 25, DoneCount: 5},
		{CandidateID: "c", DisplayName: "Carol", DonePoints: 10, DoneCount: 4},
	}

	ranked := RankLeaderboard(entries)

	wantOrder := []string{"b", "c", "a"}
	for i, want := range wantOrder {
		if ranked[i].CandidateID != want {
			t.Errorf("rank %d = %q, want %q", i+1, ranked[i].CandidateID, want)
		}
	}

	// Input must not be reordered in place.
	if entries[0].CandidateID != "a" {
		t.Error("RankLeaderboard must not mutate its input")
	}
}

func TestRankLeaderboard_FullTieUsesName(t *testing.T) {
	entries := []LeaderboardEntry{
		{CandidateID: "z", DisplayName: "Zoe", DonePoints: 5, DoneCount: 2},
		{CandidateID: "a", DisplayName: "Amy", DonePoints: 5, DoneCount: 2},
	}
	ranked := RankLeaderboard(entries)
	if ranked[0].DisplayName != "Amy" {
		t.Errorf("full tie should order by name, got %q first", ranked[0].DisplayName)
	}
}

func TestLeaderboardEntry_PointsPerItem(t *testing.T) {
	e := LeaderboardEntry{TotalPoints: 15, TotalCount: 6}
	if got := e.PointsPerItem(); got != 2.5 {
		t.Errorf("PointsPerItem = %v, want 2.5", got)
	}

	empty := LeaderboardEntry{}
	if got := empty.PointsPerItem(); got != 0 {
		t.Errorf("PointsPerItem with no items = %v, want 0", got)
	}
}

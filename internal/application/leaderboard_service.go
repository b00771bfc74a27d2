package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// LeaderboardService ranks the roster by delivered points for the current
// month.
type LeaderboardService struct {
	roster  *RosterService
	tickets workload.TicketStore

	projectKey     string
	doneStatus     string
	trackingStatus string
	now            func() time.Time
}

// NewLeaderboardService creates a leaderboard service.
func NewLeaderboardService(roster *RosterService, tickets workload.TicketStore, projectKey, doneStatus, trackingStatus string) *LeaderboardService {
	return &LeaderboardService{
		roster:         roster,
		tickets:        tickets,
		projectKey:     projectKey,
		doneStatus:     doneStatus,
		trackingStatus: trackingStatus,
		now:            time.Now,
	}
}

// Standings returns the month's leaderboard, best performer first.
func (s *LeaderboardService) Standings(ctx context.Context) ([]workload.LeaderboardEntry, error) {
	candidates, err := s.roster.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	start, end := workload.MonthWindow(s.now())
	entries := make([]workload.LeaderboardEntry, 0, len(candidates))
	for _, c := range candidates {
		items, err := s.tickets.QueryItems(ctx, workload.Filter{
			Project:     s.projectKey,
			AssigneeID:  c.ID,
			UpdatedFrom: start,
			UpdatedTo:   end,
		})
		if err != nil {
			return nil, fmt.Errorf("leaderboard for %s: %w", c.DisplayName, err)
		}

		entry := workload.LeaderboardEntry{
			CandidateID: c.ID,
			DisplayName: c.DisplayName,
			Email:       c.Email,
		}
		for _, item := range items {
			if strings.EqualFold(item.Status, s.doneStatus) {
				entry.DoneCount++
				entry.DonePoints += item.Points
			}
			if !strings.EqualFold(item.Status, s.trackingStatus) {
				entry.TotalCount++
				entry.TotalPoints += item.Points
			}
		}
		entries = append(entries, entry)
	}

	return workload.RankLeaderboard(entries), nil
}

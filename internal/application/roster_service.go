// Package application wires the workload domain to the tracker, the local
// target store, and the metrics cache. Services here orchestrate; the
// domain decides.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// RosterService builds the current candidate roster and annotates each
// member with their active-work state.
type RosterService struct {
	directory workload.Directory
	tickets   workload.TicketStore
	logger    *slog.Logger

	windowDays int
	workers    int
	now        func() time.Time
}

// NewRosterService creates a roster service. windowDays bounds how far
// back roster activity is considered; workers bounds the concurrent
// active-work checks.
func NewRosterService(directory workload.Directory, tickets workload.TicketStore, windowDays, workers int, logger *slog.Logger) *RosterService {
	if windowDays <= 0 {
		windowDays = 30
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterService{
		directory:  directory,
		tickets:    tickets,
		logger:     logger,
		windowDays: windowDays,
		workers:    workers,
		now:        time.Now,
	}
}

// ListCandidates returns roster members active within the window, each
// annotated with whether they currently hold active work. A failed
// active-work probe leaves the flag false; callers that mutate must
// re-check through the executor guard anyway.
func (s *RosterService) ListCandidates(ctx context.Context) ([]workload.Candidate, error) {
	since := s.now().AddDate(0, 0, -s.windowDays)
	candidates, err := s.directory.ListActiveCandidates(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *workload.Candidate) {
			defer wg.Done()
			defer func() { <-sem }()

			check, err := s.tickets.HasActiveItemsFor(ctx, c.ID)
			if err != nil {
				s.logger.Warn("active-work probe failed",
					"candidate", c.DisplayName, "error", err)
				return
			}
			c.HasActiveWorkItem = check.HasActive
		}(&candidates[i])
	}
	wg.Wait()

	return candidates, nil
}

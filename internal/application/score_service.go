package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
	"github.com/felixgeelhaar/teambalance/pkg/metrics"
)

// ScoreServiceConfig carries the scoring-relevant slice of configuration.
type ScoreServiceConfig struct {
	ProjectKey     string
	DoneStatus     string
	TrackingStatus string

	// ScopeExemptEmails are scored across all projects, not just ProjectKey.
	ScopeExemptEmails []string

	Workers int
}

// ScoreService computes monthly performance snapshots for the roster. Point
// sums go through the TTL cache; targets come from the local store.
type ScoreService struct {
	roster    *RosterService
	tickets   workload.TicketStore
	directory workload.Directory
	targets   workload.TargetStore
	cache     workload.MetricsCache
	logger    *slog.Logger

	cfg         ScoreServiceConfig
	scopeExempt map[string]bool
	now         func() time.Time
}

// NewScoreService creates a score service.
func NewScoreService(roster *RosterService, tickets workload.TicketStore, directory workload.Directory, targets workload.TargetStore, cache workload.MetricsCache, cfg ScoreServiceConfig, logger *slog.Logger) *ScoreService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	exempt := make(map[string]bool, len(cfg.ScopeExemptEmails))
	for _, e := range cfg.ScopeExemptEmails {
		exempt[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &ScoreService{
		roster:      roster,
		tickets:     tickets,
		directory:   directory,
		targets:     targets,
		cache:       cache,
		logger:      logger,
		cfg:         cfg,
		scopeExempt: exempt,
		now:         time.Now,
	}
}

// Scoreboard builds snapshots for the whole roster, in roster order.
func (s *ScoreService) Scoreboard(ctx context.Context, kind workload.MetricKind) ([]workload.PerformanceSnapshot, error) {
	return s.snapshots(ctx, kind, false)
}

// EligibleSnapshots builds snapshots only for candidates who do not hold
// active work, i.e. the set a selection strategy may pick from.
func (s *ScoreService) EligibleSnapshots(ctx context.Context, kind workload.MetricKind) ([]workload.PerformanceSnapshot, error) {
	return s.snapshots(ctx, kind, true)
}

func (s *ScoreService) snapshots(ctx context.Context, kind workload.MetricKind, onlyEligible bool) ([]workload.PerformanceSnapshot, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown metric kind %q", workload.ErrInvalidSelection, kind)
	}

	candidates, err := s.roster.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	if onlyEligible {
		eligible := candidates[:0]
		for _, c := range candidates {
			if !c.HasActiveWorkItem {
				eligible = append(eligible, c)
			}
		}
		candidates = eligible
	}

	now := s.now()
	elapsed := workload.ElapsedBusinessDays(now)
	total := workload.TotalBusinessDays(now)

	snaps := make([]workload.PerformanceSnapshot, len(candidates))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Workers)
	for i, c := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c workload.Candidate) {
			defer wg.Done()
			defer func() { <-sem }()
			snaps[i] = s.snapshotFor(ctx, c, kind, elapsed, total)
		}(i, c)
	}
	wg.Wait()

	return snaps, nil
}

// snapshotFor never fails the pass: a candidate whose sums or target cannot
// be resolved scores as zero, with the failure logged.
func (s *ScoreService) snapshotFor(ctx context.Context, c workload.Candidate, kind workload.MetricKind, elapsed, total int) workload.PerformanceSnapshot {
	email := c.Email
	if email == "" {
		resolved, err := s.directory.ResolveEmail(ctx, c.ID)
		if err != nil {
			s.logger.Warn("email resolution failed, scoring without a target",
				"candidate", c.DisplayName, "error", err)
		} else {
			email = resolved
			c.Email = resolved
		}
	}

	sums, err := s.sumsFor(ctx, c, email)
	if err != nil {
		s.logger.Warn("point reduction failed, scoring as zero",
			"candidate", c.DisplayName, "error", err)
		sums = workload.PointSums{}
	}

	target := 0
	if email != "" {
		points, ok, err := s.targets.Target(email)
		switch {
		case err != nil:
			s.logger.Warn("target lookup failed, treating as unset", "email", email, "error", err)
		case !ok:
			s.logger.Warn("no target configured, ratios will read as zero", "email", email)
		default:
			target = points
		}
	}

	return workload.NewPerformanceSnapshot(c, sums, target, kind, elapsed, total)
}

// sumsFor reduces the candidate's month of work items to point sums. One
// tracker query covers both sums: done points come from items in the done
// status, total points from everything except the tracking-only status.
func (s *ScoreService) sumsFor(ctx context.Context, c workload.Candidate, email string) (workload.PointSums, error) {
	if sums, ok := s.cache.Get(c.ID); ok {
		metrics.RecordCacheHit()
		return sums, nil
	}
	metrics.RecordCacheMiss()

	start, end := workload.MonthWindow(s.now())
	filter := workload.Filter{
		Project:     s.cfg.ProjectKey,
		AssigneeID:  c.ID,
		UpdatedFrom: start,
		UpdatedTo:   end,
	}
	if s.scopeExempt[strings.ToLower(email)] {
		filter.Project = ""
	}

	items, err := s.tickets.QueryItems(ctx, filter)
	if err != nil {
		return workload.PointSums{}, err
	}

	var sums workload.PointSums
	for _, item := range items {
		if strings.EqualFold(item.Status, s.cfg.DoneStatus) {
			sums.Done += item.Points
		}
		if !strings.EqualFold(item.Status, s.cfg.TrackingStatus) {
			sums.Total += item.Points
		}
	}

	s.cache.Put(c.ID, sums)
	return sums, nil
}

// InvalidateCandidate drops the cached sums for one candidate, forcing a
// fresh reduction on the next scoring pass.
func (s *ScoreService) InvalidateCandidate(accountID string) {
	s.cache.Invalidate(accountID)
}

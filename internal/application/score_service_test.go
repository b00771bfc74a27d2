package application

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// June 17, 2025 is a Tuesday: 12 of the month's 21 business days elapsed.
var scoreNow = time.Date(2025, time.June, 17, 10, 0, 0, 0, time.UTC)

func newScoreFixture(t *testing.T, tickets *fakeTickets, dir *fakeDirectory, targets *fakeTargets, cache *fakeCache) *ScoreService {
	t.Helper()
	roster := NewRosterService(dir, tickets, 30, 4, nil)
	roster.now = func() time.Time { return scoreNow }

	svc := NewScoreService(roster, tickets, dir, targets, cache, ScoreServiceConfig{
		ProjectKey:        "TB",
		DoneStatus:        "Done",
		TrackingStatus:    "Tracking",
		ScopeExemptEmails: []string{"Lead@Example.com"},
		Workers:           4,
	}, nil)
	svc.now = func() time.Time { return scoreNow }
	return svc
}

func TestScoreService_Scoreboard(t *testing.T) {
	dir := &fakeDirectory{candidates: []workload.Candidate{
		{ID: "acc-1", DisplayName: "Alice", Email: "alice@example.com", Active: true},
	}}
	tickets := &fakeTickets{
		queryFn: func(f workload.Filter) ([]workload.WorkItem, error) {
			return []workload.WorkItem{
				{Key: "TB-1", Status: "Done", Points: 5},
				{Key: "TB-2", Status: "In Progress", Points: 3},
				{Key: "TB-3", Status: "Tracking", Points: 2},
			}, nil
		},
	}
	targets := &fakeTargets{targets: map[string]int{"alice@example.com": 35}}
	svc := newScoreFixture(t, tickets, dir, targets, newFakeCache())

	snaps, err := svc.Scoreboard(context.Background(), workload.KindDone)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}

	s := snaps[0]
	if s.DonePoints != 5 {
		t.Errorf("done points = %v, want 5", s.DonePoints)
	}
	// Tracking-only items never count toward the total.
	if s.TotalPoints != 8 {
		t.Errorf("total points = %v, want 8", s.TotalPoints)
	}
	wantCurrent := 35.0 * 12 / 21
	if math.Abs(s.CurrentTargetPoints-wantCurrent) > 1e-9 {
		t.Errorf("current target = %v, want %v", s.CurrentTargetPoints, wantCurrent)
	}
	if math.Abs(s.CurrentCompletionRatio-5/wantCurrent*100) > 1e-9 {
		t.Errorf("current ratio = %v", s.CurrentCompletionRatio)
	}
}

func TestScoreService_CacheHitSkipsQueries(t *testing.T) {
	dir := &fakeDirectory{candidates: []workload.Candidate{
		{ID: "acc-1", DisplayName: "Alice", Email: "alice@example.com", Active: true},
	}}
	tickets := &fakeTickets{}
	cache := newFakeCache()
	cache.Put("acc-1", workload.PointSums{Done: 7, Total: 11})
	svc := newScoreFixture(t, tickets, dir, &fakeTargets{}, cache)

	snaps, err := svc.Scoreboard(context.Background(), workload.KindTotal)
	if err != nil {
		t.Fatal(err)
	}
	if snaps[0].DonePoints != 7 || snaps[0].TotalPoints != 11 {
		t.Errorf("snapshot = %+v, want cached sums", snaps[0])
	}
	if snaps[0].SelectedPoints != 11 {
		t.Errorf("selected = %v, want total kind to pick 11", snaps[0].SelectedPoints)
	}
	if len(tickets.queries) != 0 {
		t.Errorf("cache hit still ran %d tracker queries", len(tickets.queries))
	}
}

func TestScoreService_ScopeExemptDropsProjectClause(t *testing.T) {
	dir := &fakeDirectory{candidates: []workload.Candidate{
		{ID: "acc-1", DisplayName: "Lead", Email: "lead@example.com", Active: true},
	}}
	tickets := &fakeTickets{}
	svc := newScoreFixture(t, tickets, dir, &fakeTargets{}, newFakeCache())

	if _, err := svc.Scoreboard(context.Background(), workload.KindDone); err != nil {
		t.Fatal(err)
	}
	if len(tickets.queries) != 1 {
		t.Fatalf("queries = %d, want 1", len(tickets.queries))
	}
	if tickets.queries[0].Project != "" {
		t.Errorf("exempt candidate queried with project %q, want unscoped", tickets.queries[0].Project)
	}
	if tickets.queries[0].AssigneeID != "acc-1" {
		t.Errorf("assignee = %q", tickets.queries[0].AssigneeID)
	}
}

func TestScoreService_MissingTargetScoresZeroRatios(t *testing.T) {
	dir := &fakeDirectory{candidates: []workload.Candidate{
		{ID: "acc-1", DisplayName: "Alice", Email: "alice@example.com", Active: true},
	}}
	tickets := &fakeTickets{
		queryFn: func(workload.Filter) ([]workload.WorkItem, error) {
			return []workload.WorkItem{{Key: "TB-1", Status: "Done", Points: 5}}, nil
		},
	}
	svc := newScoreFixture(t, tickets, dir, &fakeTargets{}, newFakeCache())

	snaps, err := svc.Scoreboard(context.Background(), workload.KindDone)
	if err != nil {
		t.Fatal(err)
	}
	s := snaps[0]
	if s.TargetPoints != 0 || s.CompletionRatio != 0 || s.CurrentCompletionRatio != 0 {
		t.Errorf("missing target must zero the ratios, got %+v", s)
	}
	if s.DonePoints != 5 {
		t.Errorf("points still reported, got %v", s.DonePoints)
	}
}

func TestScoreService_ResolvesMissingEmail(t *testing.T) {
	dir := &fakeDirectory{
		candidates: []workload.Candidate{
			{ID: "acc-1", DisplayName: "Alice", Active: true},
		},
		emails: map[string]string{"acc-1": "alice@example.com"},
	}
	targets := &fakeTargets{targets: map[string]int{"alice@example.com": 20}}
	svc := newScoreFixture(t, &fakeTickets{}, dir, targets, newFakeCache())

	snaps, err := svc.Scoreboard(context.Background(), workload.KindDone)
	if err != nil {
		t.Fatal(err)
	}
	if snaps[0].TargetPoints != 20 {
		t.Errorf("target = %v, want 20 via resolved email", snaps[0].TargetPoints)
	}
	if snaps[0].Email != "alice@example.com" {
		t.Errorf("email = %q", snaps[0].Email)
	}
}

func TestScoreService_EligibleSnapshotsExcludeBusyCandidates(t *testing.T) {
	dir := &fakeDirectory{candidates: []workload.Candidate{
		{ID: "acc-1", DisplayName: "Alice", Email: "alice@example.com", Active: true},
		{ID: "acc-2", DisplayName: "Bob", Email: "bob@example.com", Active: true},
	}}
	tickets := &fakeTickets{
		activeFn: func(accountID string) (workload.ActiveCheck, error) {
			return workload.ActiveCheck{HasActive: accountID == "acc-2"}, nil
		},
	}
	svc := newScoreFixture(t, tickets, dir, &fakeTargets{}, newFakeCache())

	snaps, err := svc.EligibleSnapshots(context.Background(), workload.KindDone)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].CandidateID != "acc-1" {
		t.Errorf("eligible = %+v, want only Alice", snaps)
	}
}

func TestScoreService_FetchFailureScoresZero(t *testing.T) {
	dir := &fakeDirectory{candidates: []workload.Candidate{
		{ID: "acc-1", DisplayName: "Alice", Email: "alice@example.com", Active: true},
	}}
	tickets := &fakeTickets{
		queryFn: func(workload.Filter) ([]workload.WorkItem, error) {
			return nil, errors.New("502 bad gateway")
		},
	}
	svc := newScoreFixture(t, tickets, dir, &fakeTargets{targets: map[string]int{"alice@example.com": 35}}, newFakeCache())

	snaps, err := svc.Scoreboard(context.Background(), workload.KindDone)
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 {
		t.Fatalf("a failed fetch must not drop the candidate, got %d snapshots", len(snaps))
	}
	if snaps[0].DonePoints != 0 || snaps[0].TotalPoints != 0 {
		t.Errorf("failed fetch must score zero, got %+v", snaps[0])
	}
	if snaps[0].TargetPoints != 35 {
		t.Errorf("target still applies, got %v", snaps[0].TargetPoints)
	}
}

func TestScoreService_RejectsUnknownKind(t *testing.T) {
	svc := newScoreFixture(t, &fakeTickets{}, &fakeDirectory{}, &fakeTargets{}, newFakeCache())

	if _, err := svc.Scoreboard(context.Background(), workload.MetricKind("velocity")); err == nil {
		t.Error("expected error for unknown metric kind")
	}
}

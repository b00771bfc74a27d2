package application

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

type assignCall struct {
	key       string
	accountID string
}

type transitionCall struct {
	key    string
	status string
}

type commentCall struct {
	key  string
	text string
}

// fakeTickets is an in-memory TicketStore recording every mutation.
type fakeTickets struct {
	mu sync.Mutex

	queryFn  func(workload.Filter) ([]workload.WorkItem, error)
	activeFn func(accountID string) (workload.ActiveCheck, error)
	assignFn func(key, accountID string) error

	assignErr     error
	commentErr    error
	transitionErr error

	queries     []workload.Filter
	assigned    []assignCall
	comments    []commentCall
	transitions []transitionCall
}

func (f *fakeTickets) QueryItems(_ context.Context, filter workload.Filter) ([]workload.WorkItem, error) {
	f.mu.Lock()
	f.queries = append(f.queries, filter)
	f.mu.Unlock()
	if f.queryFn == nil {
		return nil, nil
	}
	return f.queryFn(filter)
}

func (f *fakeTickets) SetAssignee(_ context.Context, key, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assignErr != nil {
		return f.assignErr
	}
	if f.assignFn != nil {
		if err := f.assignFn(key, accountID); err != nil {
			return err
		}
	}
	f.assigned = append(f.assigned, assignCall{key: key, accountID: accountID})
	return nil
}

func (f *fakeTickets) AddComment(_ context.Context, key, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentErr != nil {
		return f.commentErr
	}
	if text == "" {
		return nil
	}
	f.comments = append(f.comments, commentCall{key: key, text: text})
	return nil
}

func (f *fakeTickets) TransitionStatus(_ context.Context, key, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.transitionErr != nil {
		return f.transitionErr
	}
	f.transitions = append(f.transitions, transitionCall{key: key, status: status})
	return nil
}

func (f *fakeTickets) HasActiveItemsFor(_ context.Context, accountID string) (workload.ActiveCheck, error) {
	if f.activeFn == nil {
		return workload.ActiveCheck{}, nil
	}
	return f.activeFn(accountID)
}

// fakeDirectory serves a fixed roster.
type fakeDirectory struct {
	candidates []workload.Candidate
	emails     map[string]string
	listErr    error
	resolveErr error
}

func (f *fakeDirectory) ListActiveCandidates(context.Context, time.Time) ([]workload.Candidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]workload.Candidate, len(f.candidates))
	copy(out, f.candidates)
	return out, nil
}

func (f *fakeDirectory) ResolveEmail(_ context.Context, accountID string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	return f.emails[accountID], nil
}

// fakeTargets is an in-memory TargetStore.
type fakeTargets struct {
	targets map[string]int
	err     error
}

func (f *fakeTargets) Target(email string) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	points, ok := f.targets[email]
	return points, ok, nil
}

func (f *fakeTargets) SetTarget(email string, points int) error {
	if f.err != nil {
		return f.err
	}
	if f.targets == nil {
		f.targets = make(map[string]int)
	}
	f.targets[email] = points
	return nil
}

func (f *fakeTargets) All() (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.targets, nil
}

// fakeCache is a TTL-less MetricsCache recording invalidations.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]workload.PointSums
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]workload.PointSums)}
}

func (f *fakeCache) Get(accountID string) (workload.PointSums, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sums, ok := f.entries[accountID]
	return sums, ok
}

func (f *fakeCache) Put(accountID string, sums workload.PointSums) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[accountID] = sums
}

func (f *fakeCache) Invalidate(accountID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, accountID)
	f.invalidated = append(f.invalidated, accountID)
}

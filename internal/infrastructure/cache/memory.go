// Package cache provides the short-lived metrics cache used by the
// scoring pass.
package cache

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// DefaultTTL matches the refresh cadence of the scoring views.
const DefaultTTL = 5 * time.Minute

type entry struct {
	sums       workload.PointSums
	capturedAt time.Time
}

// Memory is an in-process TTL cache of monthly point sums keyed by account
// ID. It is safe for concurrent use; entries live for the configured TTL.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithClock overrides the time source, letting tests control expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates a cache with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func NewMemory(ttl time.Duration, opts ...Option) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the cached sums for the account if a fresh entry exists.
func (m *Memory) Get(accountID string) (workload.PointSums, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[accountID]
	if !ok {
		return workload.PointSums{}, false
	}
	if m.now().Sub(e.capturedAt) >= m.ttl {
		delete(m.entries, accountID)
		return workload.PointSums{}, false
	}
	return e.sums, true
}

// Put stores sums for the account stamped with the current time.
func (m *Memory) Put(accountID string, sums workload.PointSums) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[accountID] = entry{sums: sums, capturedAt: m.now()}
}

// Invalidate drops the entry for the account, if any.
func (m *Memory) Invalidate(accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, accountID)
}

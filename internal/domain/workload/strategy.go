package workload

import (
	"fmt"
	"math/rand"
	"time"
)

// Strategy names a candidate selection policy.
type Strategy string

const (
	// StrategySpecific assigns to an explicitly chosen candidate.
	StrategySpecific Strategy = "specific"
	// StrategyRandom picks uniformly over the eligible set.
	StrategyRandom Strategy = "random"
	// StrategyLowestDone picks the candidate with the fewest done points.
	StrategyLowestDone Strategy = "lowest_done"
	// StrategyLowestTotal picks the candidate with the fewest total points.
	StrategyLowestTotal Strategy = "lowest_total"
	// StrategyUnder80 picks randomly among candidates at or below 80% of
	// their prorated target.
	StrategyUnder80 Strategy = "under_80"
)

// IsValid checks if the strategy is a recognized value.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategySpecific, StrategyRandom, StrategyLowestDone, StrategyLowestTotal, StrategyUnder80:
		return true
	}
	return false
}

// ForAutomation reports whether the strategy may drive a batch run.
func (s Strategy) ForAutomation() bool {
	return s == StrategyLowestDone || s == StrategyLowestTotal
}

// Selector picks one candidate from a set of eligible performance
// snapshots. It is a pure function over its inputs apart from the random
// source, which is injectable for deterministic tests.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector seeded from the current time.
func NewSelector() *Selector {
	return NewSelectorWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSelectorWithRand creates a selector using the given random source.
func NewSelectorWithRand(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Select picks one candidate from snapshots according to the strategy.
// Snapshots must already be filtered to eligible candidates (no active
// work); an empty input yields ErrNoEligibleCandidates. explicitID is only
// consulted by StrategySpecific.
//
// Ties in the lowest_* strategies resolve to the first minimum in input
// order.
func (s *Selector) Select(strategy Strategy, snapshots []PerformanceSnapshot, explicitID string) (PerformanceSnapshot, error) {
	if len(snapshots) == 0 {
		return PerformanceSnapshot{}, ErrNoEligibleCandidates
	}

	switch strategy {
	case StrategySpecific:
		for _, snap := range snapshots {
			if snap.CandidateID == explicitID {
				return snap, nil
			}
		}
		return PerformanceSnapshot{}, fmt.Errorf("%w: candidate %q is not in the eligible set", ErrInvalidSelection, explicitID)

	case StrategyRandom:
		return snapshots[s.rng.Intn(len(snapshots))], nil

	case StrategyLowestDone:
		return argmin(snapshots, func(s PerformanceSnapshot) float64 { return s.DonePoints }), nil

	case StrategyLowestTotal:
		return argmin(snapshots, func(s PerformanceSnapshot) float64 { return s.TotalPoints }), nil

	case StrategyUnder80:
		var survivors []PerformanceSnapshot
		for _, snap := range snapshots {
			if snap.IsLowPerformer() {
				survivors = append(survivors, snap)
			}
		}
		if len(survivors) == 0 {
			return PerformanceSnapshot{}, ErrNoLowPerformer
		}
		return survivors[s.rng.Intn(len(survivors))], nil

	default:
		return PerformanceSnapshot{}, fmt.Errorf("%w: unknown strategy %q", ErrInvalidSelection, strategy)
	}
}

func argmin(snapshots []PerformanceSnapshot, points func(PerformanceSnapshot) float64) PerformanceSnapshot {
	best := snapshots[0]
	for _, snap := range snapshots[1:] {
		if points(snap) < points(best) {
			best = snap
		}
	}
	return best
}

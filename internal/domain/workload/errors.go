package workload

import "errors"

var (
	// ErrNoEligibleCandidates signals that every roster member is either
	// excluded or already holds active work.
	ErrNoEligibleCandidates = errors.New("no eligible candidates")

	// ErrNoLowPerformer signals that the under-80 strategy found no
	// candidate at or below the threshold.
	ErrNoLowPerformer = errors.New("no low performer available")

	// ErrInvalidSelection signals a specific-candidate selection that does
	// not resolve to an eligible candidate.
	ErrInvalidSelection = errors.New("invalid selection")
)

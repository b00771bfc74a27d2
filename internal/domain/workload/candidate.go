// Package workload holds the core domain model for workload scoring and
// assignee selection: candidates, work items, monthly performance
// snapshots, and the selection strategies that operate on them.
package workload

// Candidate is a roster member resolved from the directory.
//
// HasActiveWorkItem is a derived, time-sensitive flag captured at roster
// pull time. It must be re-checked against the ticket store immediately
// before any mutation.
type Candidate struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	Email             string `json:"email"`
	Active            bool   `json:"active"`
	HasActiveWorkItem bool   `json:"has_active_work_item"`
}

// WorkItem is an immutable snapshot of a tracker issue. Status and
// assignee are never cached beyond the operation that fetched them.
type WorkItem struct {
	Key        string  `json:"key"`
	Summary    string  `json:"summary"`
	Status     string  `json:"status"`
	Points     float64 `json:"points"`
	AssigneeID string  `json:"assignee_id"`
}

// PointSums holds the reduced monthly point totals for one candidate.
type PointSums struct {
	Done  float64 `json:"done"`
	Total float64 `json:"total"`
}

// ActiveCheck reports whether a candidate currently holds active work,
// with the blocking items listed for the caller to render.
type ActiveCheck struct {
	HasActive bool       `json:"has_active"`
	Items     []WorkItem `json:"items"`
}

// MetricKind selects which point sum drives completion ratios.
type MetricKind string

const (
	KindDone  MetricKind = "done"
	KindTotal MetricKind = "total"
)

// IsValid checks if the kind is a recognized value.
func (k MetricKind) IsValid() bool {
	return k == KindDone || k == KindTotal
}

// AssignmentOutcome is the structured result of one executor invocation.
// It is produced once and never retried automatically.
type AssignmentOutcome struct {
	Success       bool       `json:"success"`
	Err           string     `json:"error,omitempty"`
	BlockingItems []WorkItem `json:"blocking_items,omitempty"`
}

package workload

import (
	"context"
	"time"
)

// Filter is a boolean query over tracker work items. Adapters render it to
// the tracker's query language; zero values mean "no constraint".
type Filter struct {
	Project string

	// AssigneeID restricts to items assigned to one account.
	// UnassignedOnly restricts to items with no assignee; AssignedOnly
	// restricts to items with any assignee. The three are mutually
	// exclusive.
	AssigneeID     string
	UnassignedOnly bool
	AssignedOnly   bool

	Statuses []string

	UpdatedFrom time.Time
	UpdatedTo   time.Time

	// CreatedWithinDays restricts to items created in the last N days.
	CreatedWithinDays int

	RequireSprint bool
	RequirePoints bool

	// OrderBy is a raw ordering clause, e.g. "created DESC".
	OrderBy string
}

// TicketStore queries and mutates work items in the external tracker.
type TicketStore interface {
	QueryItems(ctx context.Context, f Filter) ([]WorkItem, error)

	// SetAssignee assigns the item to the given account. An empty account
	// ID clears the assignee.
	SetAssignee(ctx context.Context, key, accountID string) error

	AddComment(ctx context.Context, key, text string) error

	TransitionStatus(ctx context.Context, key, status string) error

	// HasActiveItemsFor reports whether the candidate currently holds
	// active work, listing the blocking items.
	HasActiveItemsFor(ctx context.Context, accountID string) (ActiveCheck, error)
}

// Directory resolves people and their identifiers.
type Directory interface {
	ResolveEmail(ctx context.Context, accountID string) (string, error)

	// ListActiveCandidates returns human roster members active since the
	// given date. Bot-like accounts are filtered out.
	ListActiveCandidates(ctx context.Context, since time.Time) ([]Candidate, error)
}

// TargetStore reads and writes per-person configured monthly point goals,
// keyed by email.
type TargetStore interface {
	// Target returns the configured target and whether one exists.
	Target(email string) (int, bool, error)

	SetTarget(email string, points int) error

	// All returns every configured target keyed by email.
	All() (map[string]int, error)
}

// MetricsCache holds short-lived monthly point sums per candidate. Entries
// expire after the cache's TTL.
type MetricsCache interface {
	Get(accountID string) (PointSums, bool)
	Put(accountID string, sums PointSums)
	Invalidate(accountID string)
}

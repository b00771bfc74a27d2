package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
	"github.com/felixgeelhaar/teambalance/pkg/metrics"
)

// AssignRequest describes one assignment execution.
type AssignRequest struct {
	ItemKey     string
	CandidateID string
	DisplayName string

	// Comment, when non-empty, is posted on the item after assignment.
	Comment string
	// TransitionTo, when non-empty, moves the item to that status after
	// assignment.
	TransitionTo string

	// TestMode runs the full guard but skips every mutation.
	TestMode bool
}

// AssignService executes a single assignment: guard, assign, comment,
// transition. Outcomes are never retried automatically; the caller decides
// what a conflict or error means.
type AssignService struct {
	tickets workload.TicketStore
	cache   workload.MetricsCache
	logger  *slog.Logger
}

// NewAssignService creates an assignment executor.
func NewAssignService(tickets workload.TicketStore, cache workload.MetricsCache, logger *slog.Logger) *AssignService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignService{tickets: tickets, cache: cache, logger: logger}
}

// Execute runs one assignment. The candidate's active-work state is
// re-checked against the tracker immediately before mutating, regardless
// of what any earlier roster pull said.
func (s *AssignService) Execute(ctx context.Context, req AssignRequest) workload.AssignmentOutcome {
	check, err := s.tickets.HasActiveItemsFor(ctx, req.CandidateID)
	if err != nil {
		metrics.RecordAssignment(metrics.OutcomeError)
		return workload.AssignmentOutcome{Err: fmt.Sprintf("active-work re-check failed: %v", err)}
	}
	if check.HasActive {
		metrics.RecordAssignment(metrics.OutcomeConflict)
		s.logger.Info("assignment blocked, candidate holds active work",
			"item", req.ItemKey, "candidate", req.DisplayName, "blocking", len(check.Items))
		return workload.AssignmentOutcome{
			Err:           fmt.Sprintf("%s already has active work", req.DisplayName),
			BlockingItems: check.Items,
		}
	}

	if req.TestMode {
		s.logger.Info("test mode, skipping mutations",
			"item", req.ItemKey, "candidate", req.DisplayName)
		metrics.RecordAssignment(metrics.OutcomeSuccess)
		return workload.AssignmentOutcome{Success: true}
	}

	if err := s.tickets.SetAssignee(ctx, req.ItemKey, req.CandidateID); err != nil {
		metrics.RecordAssignment(metrics.OutcomeError)
		return workload.AssignmentOutcome{Err: fmt.Sprintf("assign %s: %v", req.ItemKey, err)}
	}
	s.cache.Invalidate(req.CandidateID)

	if err := s.tickets.AddComment(ctx, req.ItemKey, req.Comment); err != nil {
		metrics.RecordAssignment(metrics.OutcomeError)
		return workload.AssignmentOutcome{Err: fmt.Sprintf("comment on %s after assignment: %v", req.ItemKey, err)}
	}

	if req.TransitionTo != "" {
		if err := s.tickets.TransitionStatus(ctx, req.ItemKey, req.TransitionTo); err != nil {
			metrics.RecordAssignment(metrics.OutcomeError)
			return workload.AssignmentOutcome{Err: fmt.Sprintf("transition %s after assignment: %v", req.ItemKey, err)}
		}
	}

	s.logger.Info("assigned", "item", req.ItemKey, "candidate", req.DisplayName)
	metrics.RecordAssignment(metrics.OutcomeSuccess)
	return workload.AssignmentOutcome{Success: true}
}

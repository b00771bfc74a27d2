package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/teambalance/internal/domain/batch"
	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
	"github.com/felixgeelhaar/teambalance/pkg/metrics"
)

// BatchServiceConfig carries the automation-run slice of configuration.
type BatchServiceConfig struct {
	ProjectKey string

	// SourceAccountID is the placeholder identity whose items form the
	// run queue.
	SourceAccountID string

	// QueueStatus is where queued items sit; ReadyStatus is where assigned
	// items go; FallbackStatus is where unassignable items are parked.
	QueueStatus    string
	ReadyStatus    string
	FallbackStatus string

	// ExcludedItems are item keys the runner never touches.
	ExcludedItems []string
}

// RunOptions selects how one batch run distributes its queue.
type RunOptions struct {
	Strategy workload.Strategy
	Kind     workload.MetricKind
	TestMode bool
}

// BatchService distributes a queue of placeholder-assigned items across
// the roster, one item per candidate per run.
type BatchService struct {
	tickets  workload.TicketStore
	scores   *ScoreService
	assigner *AssignService
	selector *workload.Selector
	logger   *slog.Logger

	cfg      BatchServiceConfig
	excluded map[string]bool
	now      func() time.Time
}

// NewBatchService creates an automation runner.
func NewBatchService(tickets workload.TicketStore, scores *ScoreService, assigner *AssignService, selector *workload.Selector, cfg BatchServiceConfig, logger *slog.Logger) *BatchService {
	if logger == nil {
		logger = slog.Default()
	}
	if selector == nil {
		selector = workload.NewSelector()
	}
	excluded := make(map[string]bool, len(cfg.ExcludedItems))
	for _, key := range cfg.ExcludedItems {
		excluded[key] = true
	}
	return &BatchService{
		tickets:  tickets,
		scores:   scores,
		assigner: assigner,
		selector: selector,
		logger:   logger,
		cfg:      cfg,
		excluded: excluded,
		now:      time.Now,
	}
}

// Run executes one batch run and returns its report. The report is
// returned even when the run fails partway; the error says why it stopped.
func (s *BatchService) Run(ctx context.Context, opts RunOptions) (*batch.Report, error) {
	if !opts.Strategy.ForAutomation() {
		return nil, fmt.Errorf("%w: strategy %q cannot drive a batch run", workload.ErrInvalidSelection, opts.Strategy)
	}
	if opts.Kind == "" {
		opts.Kind = workload.KindDone
	}

	runID := uuid.NewString()
	sm, err := batch.NewRunStateMachine(runID)
	if err != nil {
		return nil, err
	}

	report := &batch.Report{RunID: runID, StartedAt: s.now()}
	if err := sm.Transition(batch.EventStart); err != nil {
		return nil, err
	}
	s.logger.Info("batch run started", "run_id", runID, "strategy", opts.Strategy, "test_mode", opts.TestMode)

	err = s.distribute(ctx, opts, report)

	event := batch.EventComplete
	if err != nil {
		event = batch.EventFail
	}
	if terr := sm.Transition(event); terr != nil {
		s.logger.Error("run lifecycle transition failed", "run_id", runID, "error", terr)
	}
	report.State = sm.Current()
	report.FinishedAt = s.now()

	metrics.RecordRunState(string(report.State))
	metrics.ObserveRunDuration(report.FinishedAt.Sub(report.StartedAt))
	s.logger.Info("batch run finished",
		"run_id", runID, "state", report.State,
		"assigned", report.Assigned, "fallbacks", report.Fallbacks, "failures", report.Failures)

	return report, err
}

func (s *BatchService) distribute(ctx context.Context, opts RunOptions, report *batch.Report) error {
	queue, err := s.tickets.QueryItems(ctx, workload.Filter{
		Project:    s.cfg.ProjectKey,
		AssigneeID: s.cfg.SourceAccountID,
		Statuses:   []string{s.cfg.QueueStatus},
		OrderBy:    "created DESC",
	})
	if err != nil {
		return fmt.Errorf("load run queue: %w", err)
	}

	// Candidates assigned earlier in this run are excluded from later
	// selections, so one run never stacks two items on the same person.
	assignedThisRun := make(map[string]bool)

	for _, item := range queue {
		if s.excluded[item.Key] {
			s.logger.Debug("skipping excluded item", "item", item.Key)
			continue
		}

		// The roster is re-pulled per item so candidates who picked up
		// active work mid-run drop out of the pool instead of dying at
		// the executor guard.
		snapshots, err := s.scores.EligibleSnapshots(ctx, opts.Kind)
		if err != nil {
			s.logger.Warn("score roster failed, skipping item", "item", item.Key, "error", err)
			report.Add(batch.ItemResult{ItemKey: item.Key, Error: fmt.Sprintf("score roster: %v", err)})
			continue
		}

		eligible := snapshots[:0:0]
		for _, snap := range snapshots {
			if !assignedThisRun[snap.CandidateID] {
				eligible = append(eligible, snap)
			}
		}

		snap, err := s.selector.Select(opts.Strategy, eligible, "")
		if errors.Is(err, workload.ErrNoEligibleCandidates) || errors.Is(err, workload.ErrNoLowPerformer) {
			report.Add(s.fallback(ctx, item, opts.TestMode))
			continue
		}
		if err != nil {
			return fmt.Errorf("select for %s: %w", item.Key, err)
		}

		// Reserve before executing; release if the execution fails so a
		// later item can still go to this candidate.
		assignedThisRun[snap.CandidateID] = true

		outcome := s.assigner.Execute(ctx, AssignRequest{
			ItemKey:      item.Key,
			CandidateID:  snap.CandidateID,
			DisplayName:  snap.DisplayName,
			Comment:      fmt.Sprintf("Assigned to %s by workload balancing (%s).", snap.DisplayName, opts.Strategy),
			TransitionTo: s.cfg.ReadyStatus,
			TestMode:     opts.TestMode,
		})
		if !outcome.Success {
			delete(assignedThisRun, snap.CandidateID)
			report.Add(batch.ItemResult{ItemKey: item.Key, Error: outcome.Err})
			continue
		}

		report.Add(batch.ItemResult{
			ItemKey:     item.Key,
			AssignedTo:  snap.CandidateID,
			DisplayName: snap.DisplayName,
		})
	}
	return nil
}

// fallback parks an item nobody can take: assignee cleared, status moved
// to the fallback column. Test mode records the decision without mutating.
func (s *BatchService) fallback(ctx context.Context, item workload.WorkItem, testMode bool) batch.ItemResult {
	s.logger.Info("no eligible candidate, parking item", "item", item.Key, "status", s.cfg.FallbackStatus)
	metrics.RecordFallback()

	if testMode {
		return batch.ItemResult{ItemKey: item.Key, FellBack: true}
	}

	if err := s.tickets.SetAssignee(ctx, item.Key, ""); err != nil {
		return batch.ItemResult{ItemKey: item.Key, Error: fmt.Sprintf("clear assignee on %s: %v", item.Key, err)}
	}
	if err := s.tickets.TransitionStatus(ctx, item.Key, s.cfg.FallbackStatus); err != nil {
		return batch.ItemResult{ItemKey: item.Key, Error: fmt.Sprintf("park %s: %v", item.Key, err)}
	}
	return batch.ItemResult{ItemKey: item.Key, FellBack: true}
}

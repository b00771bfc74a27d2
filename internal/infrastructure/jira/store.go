package jira

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// StoreConfig scopes the ticket store to one project and its workflow.
type StoreConfig struct {
	ProjectKey string

	// PointsField is the custom field ID carrying story points;
	// PointsFieldName is its JQL name.
	PointsField     string
	PointsFieldName string

	// ActiveStatuses are the statuses that count as active work for the
	// eligibility guard. ActiveWindowDays bounds how recent a blocking
	// item's creation must be.
	ActiveStatuses   []string
	ActiveWindowDays int
}

// Store implements workload.TicketStore against the Jira REST API.
type Store struct {
	client *Client
	cfg    StoreConfig
	logger *slog.Logger
}

// NewStore wires a ticket store over the given client.
func NewStore(client *Client, cfg StoreConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ActiveWindowDays <= 0 {
		cfg.ActiveWindowDays = 30
	}
	return &Store{client: client, cfg: cfg, logger: logger}
}

// QueryItems runs the filter against Jira and maps the results.
func (s *Store) QueryItems(ctx context.Context, f workload.Filter) ([]workload.WorkItem, error) {
	jql := BuildJQL(f, s.cfg.PointsFieldName)

	issues, err := s.client.SearchIssues(ctx, jql, nil)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}

	items := make([]workload.WorkItem, 0, len(issues))
	for _, issue := range issues {
		item := workload.WorkItem{
			Key:     issue.Key,
			Summary: issue.Fields.Summary,
			Status:  issue.Fields.Status.Name,
			Points:  issue.Points(s.cfg.PointsField),
		}
		if issue.Fields.Assignee != nil {
			item.AssigneeID = issue.Fields.Assignee.AccountID
		}
		items = append(items, item)
	}
	return items, nil
}

// SetAssignee assigns the item, or clears the assignee when accountID is
// empty.
func (s *Store) SetAssignee(ctx context.Context, key, accountID string) error {
	if err := s.client.AssignIssue(ctx, key, accountID); err != nil {
		return fmt.Errorf("set assignee on %s: %w", key, err)
	}
	return nil
}

// AddComment appends a comment. Empty text is a no-op.
func (s *Store) AddComment(ctx context.Context, key, text string) error {
	if text == "" {
		return nil
	}
	if err := s.client.CommentIssue(ctx, key, text); err != nil {
		return fmt.Errorf("comment on %s: %w", key, err)
	}
	return nil
}

// TransitionStatus moves the item to the named status, resolving the
// transition ID from the transitions currently available on the item.
func (s *Store) TransitionStatus(ctx context.Context, key, status string) error {
	transitions, err := s.client.ListTransitions(ctx, key)
	if err != nil {
		return fmt.Errorf("list transitions for %s: %w", key, err)
	}

	for _, t := range transitions {
		if strings.EqualFold(t.To.Name, status) {
			if err := s.client.TransitionIssue(ctx, key, t.ID); err != nil {
				return fmt.Errorf("transition %s to %q: %w", key, status, err)
			}
			return nil
		}
	}
	return fmt.Errorf("no transition to %q available on %s", status, key)
}

// HasActiveItemsFor checks the eligibility guard: sprint-bound items in an
// active status, created within the recent window, assigned to the
// candidate.
func (s *Store) HasActiveItemsFor(ctx context.Context, accountID string) (workload.ActiveCheck, error) {
	items, err := s.QueryItems(ctx, workload.Filter{
		Project:           s.cfg.ProjectKey,
		AssigneeID:        accountID,
		Statuses:          s.cfg.ActiveStatuses,
		CreatedWithinDays: s.cfg.ActiveWindowDays,
		RequireSprint:     true,
	})
	if err != nil {
		return workload.ActiveCheck{}, err
	}
	return workload.ActiveCheck{HasActive: len(items) > 0, Items: items}, nil
}

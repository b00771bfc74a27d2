package jira

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// Directory implements workload.Directory against Jira: emails come from
// the user endpoint, the roster from assignees seen on recent project
// items.
type Directory struct {
	client         *Client
	projectKey     string
	excludedEmails map[string]struct{}
	logger         *slog.Logger
}

// NewDirectory wires a directory over the given client. excludedEmails
// are removed from every roster listing, compared case-insensitively.
func NewDirectory(client *Client, projectKey string, excludedEmails []string, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	excluded := make(map[string]struct{}, len(excludedEmails))
	for _, e := range excludedEmails {
		excluded[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Directory{
		client:         client,
		projectKey:     projectKey,
		excludedEmails: excluded,
		logger:         logger,
	}
}

// ResolveEmail returns the lowercased email for an account ID.
func (d *Directory) ResolveEmail(ctx context.Context, accountID string) (string, error) {
	u, err := d.client.GetUser(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("resolve email for %s: %w", accountID, err)
	}
	return strings.ToLower(u.EmailAddress), nil
}

// ListActiveCandidates returns the deduplicated humans assigned to project
// items updated since the given date. Inactive accounts, bot-like display
// names, and excluded emails are dropped.
func (d *Directory) ListActiveCandidates(ctx context.Context, since time.Time) ([]workload.Candidate, error) {
	jql := BuildJQL(workload.Filter{
		Project:      d.projectKey,
		AssignedOnly: true,
		UpdatedFrom:  since,
	}, "")

	issues, err := d.client.SearchIssues(ctx, jql, []string{"assignee"})
	if err != nil {
		return nil, fmt.Errorf("list active candidates: %w", err)
	}

	seen := make(map[string]struct{})
	var candidates []workload.Candidate
	for _, issue := range issues {
		u := issue.Fields.Assignee
		if u == nil || u.AccountID == "" {
			continue
		}
		if _, dup := seen[u.AccountID]; dup {
			continue
		}
		seen[u.AccountID] = struct{}{}

		email := strings.ToLower(u.EmailAddress)
		if !u.Active || isBotLike(u.DisplayName) {
			continue
		}
		if _, excluded := d.excludedEmails[email]; excluded {
			d.logger.Debug("roster exclusion", "email", email)
			continue
		}

		candidates = append(candidates, workload.Candidate{
			ID:          u.AccountID,
			DisplayName: u.DisplayName,
			Email:       email,
			Active:      u.Active,
		})
	}

	d.logger.Info("roster resolved", "candidates", len(candidates))
	return candidates, nil
}

// isBotLike filters out automation accounts that show up as assignees.
func isBotLike(displayName string) bool {
	name := strings.ToLower(displayName)
	return strings.Contains(name, "bot") ||
		strings.Contains(name, "addon") ||
		strings.Contains(name, "system")
}

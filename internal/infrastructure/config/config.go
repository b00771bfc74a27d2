// Package config loads teambalance settings from defaults, an optional
// YAML file, and TEAMBALANCE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Jira holds the tracker connection and project scope settings.
type Jira struct {
	BaseURL  string `koanf:"base_url"`
	Email    string `koanf:"email"`
	APIToken string `koanf:"api_token"`

	ProjectKey string `koanf:"project_key"`

	// PointsField is the custom field ID carrying story points.
	// PointsFieldName is the human name used in JQL clauses.
	PointsField     string `koanf:"points_field"`
	PointsFieldName string `koanf:"points_field_name"`
}

// Statuses names the workflow statuses the engine cares about.
type Statuses struct {
	// Done is the terminal status whose points count as completed.
	Done string `koanf:"done"`
	// Tracking is the terminal tracking-only status excluded from totals.
	Tracking string `koanf:"tracking"`
	// Ready is the "ready to start" status used for transitions and as
	// the batch fallback.
	Ready string `koanf:"ready"`
	// InProgress marks actively worked items.
	InProgress string `koanf:"in_progress"`
	// Queue is the status batch source items sit in.
	Queue string `koanf:"queue"`
}

// Active returns the statuses that make a candidate ineligible for new
// work.
func (s Statuses) Active() []string {
	return []string{s.Ready, s.InProgress}
}

// Roster holds roster filtering settings.
type Roster struct {
	// ExcludedEmails are removed from the roster entirely.
	ExcludedEmails []string `koanf:"excluded_emails"`
	// ScopeExemptEmails are scored without the project clause.
	ScopeExemptEmails []string `koanf:"scope_exempt_emails"`
	// ActivityWindowDays bounds how far back roster activity is considered.
	ActivityWindowDays int `koanf:"activity_window_days"`
}

// Batch holds automation run settings.
type Batch struct {
	// SourceAccountID is the placeholder identity whose items feed the
	// run queue.
	SourceAccountID string `koanf:"source_account_id"`
	// ExcludedItems are item keys the runner skips.
	ExcludedItems []string `koanf:"excluded_items"`
}

// Config is the full process configuration.
type Config struct {
	Jira     Jira     `koanf:"jira"`
	Statuses Statuses `koanf:"statuses"`
	Roster   Roster   `koanf:"roster"`
	Batch    Batch    `koanf:"batch"`

	CacheTTLMinutes        int `koanf:"cache_ttl_minutes"`
	RefreshIntervalMinutes int `koanf:"refresh_interval_minutes"`
	WorkerCount            int `koanf:"worker_count"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	// MetricsAddr, when set, exposes Prometheus metrics during batch runs.
	MetricsAddr string `koanf:"metrics_addr"`

	// DataDir overrides where local state (targets) is stored. Empty
	// means the current directory.
	DataDir string `koanf:"data_dir"`
}

// Default returns the configuration baseline the file and environment are
// layered over.
func Default() *Config {
	return &Config{
		Jira: Jira{
			ProjectKey:      "S1",
			PointsField:     "customfield_10028",
			PointsFieldName: "Story Points",
		},
		Statuses: Statuses{
			Done:       "Done",
			Tracking:   "Tracking",
			Ready:      "Selected for Development",
			InProgress: "In Progress",
			Queue:      "Selected for Development",
		},
		Roster: Roster{
			ActivityWindowDays: 30,
		},
		CacheTTLMinutes:        5,
		RefreshIntervalMinutes: 5,
		WorkerCount:            8,
		LogLevel:               "info",
		LogFormat:              "text",
	}
}

// CacheTTL returns the metrics cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// RefreshInterval returns the watch-mode rescore interval.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// ValidateJira rejects configurations that cannot reach the tracker.
func (c *Config) ValidateJira() error {
	switch {
	case c.Jira.BaseURL == "":
		return errors.New("jira.base_url must be set")
	case c.Jira.Email == "":
		return errors.New("jira.email must be set")
	case c.Jira.APIToken == "":
		return errors.New("jira.api_token must be set")
	case c.Jira.ProjectKey == "":
		return errors.New("jira.project_key must be set")
	}
	if !strings.HasPrefix(c.Jira.BaseURL, "http://") && !strings.HasPrefix(c.Jira.BaseURL, "https://") {
		c.Jira.BaseURL = "https://" + c.Jira.BaseURL
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be positive, got %d", c.WorkerCount)
	}
	return nil
}

// NormalizeEmails lowercases and trims an email list, dropping empties.
func NormalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

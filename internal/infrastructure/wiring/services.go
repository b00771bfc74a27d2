// Package wiring assembles the application services over their concrete
// adapters.
package wiring

import (
	"log/slog"

	"github.com/felixgeelhaar/teambalance/internal/application"
	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/cache"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/config"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/jira"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/storage"
)

// AppServices exposes the application layer services wired together over
// the tracker, the metrics cache, and the local target store.
type AppServices struct {
	Config *config.Config

	// Tickets is the raw tracker port for read-only listings.
	Tickets workload.TicketStore

	Roster      *application.RosterService
	Score       *application.ScoreService
	Assign      *application.AssignService
	Batch       *application.BatchService
	Leaderboard *application.LeaderboardService
	Target      *application.TargetService

	Selector *workload.Selector
	Cache    *cache.Memory
}

// BuildAppServices constructs the service graph from a validated
// configuration.
func BuildAppServices(cfg *config.Config, logger *slog.Logger) (*AppServices, error) {
	if err := cfg.ValidateJira(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken)
	store := jira.NewStore(client, jira.StoreConfig{
		ProjectKey:       cfg.Jira.ProjectKey,
		PointsField:      cfg.Jira.PointsField,
		PointsFieldName:  cfg.Jira.PointsFieldName,
		ActiveStatuses:   cfg.Statuses.Active(),
		ActiveWindowDays: cfg.Roster.ActivityWindowDays,
	}, logger)
	directory := jira.NewDirectory(client, cfg.Jira.ProjectKey, config.NormalizeEmails(cfg.Roster.ExcludedEmails), logger)

	targets := storage.NewFilesystemTargetStore(cfg.DataDir)
	metricsCache := cache.NewMemory(cfg.CacheTTL())

	roster := application.NewRosterService(directory, store, cfg.Roster.ActivityWindowDays, cfg.WorkerCount, logger)
	score := application.NewScoreService(roster, store, directory, targets, metricsCache, application.ScoreServiceConfig{
		ProjectKey:        cfg.Jira.ProjectKey,
		DoneStatus:        cfg.Statuses.Done,
		TrackingStatus:    cfg.Statuses.Tracking,
		ScopeExemptEmails: config.NormalizeEmails(cfg.Roster.ScopeExemptEmails),
		Workers:           cfg.WorkerCount,
	}, logger)
	assign := application.NewAssignService(store, metricsCache, logger)
	selector := workload.NewSelector()
	batch := application.NewBatchService(store, score, assign, selector, application.BatchServiceConfig{
		ProjectKey:      cfg.Jira.ProjectKey,
		SourceAccountID: cfg.Batch.SourceAccountID,
		QueueStatus:     cfg.Statuses.Queue,
		ReadyStatus:     cfg.Statuses.Ready,
		FallbackStatus:  cfg.Statuses.Ready,
		ExcludedItems:   cfg.Batch.ExcludedItems,
	}, logger)

	return &AppServices{
		Config:      cfg,
		Tickets:     store,
		Roster:      roster,
		Score:       score,
		Assign:      assign,
		Batch:       batch,
		Leaderboard: application.NewLeaderboardService(roster, store, cfg.Jira.ProjectKey, cfg.Statuses.Done, cfg.Statuses.Tracking),
		Target:      application.NewTargetService(targets),
		Selector:    selector,
		Cache:       metricsCache,
	}, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/watch"
	"github.com/felixgeelhaar/teambalance/internal/infrastructure/wiring"
)

var watchKind string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescore the roster on an interval, reloading config on change",
	Long: `Print the scoreboard on the configured refresh interval until
interrupted. When a config file is in use, edits to it are picked up
live without restarting.`,
	RunE: runWatchCmd,
}

func init() {
	watchCmd.Flags().StringVar(&watchKind, "kind", string(workload.KindDone), "metric kind: done or total")
	RootCmd.AddCommand(watchCmd)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := loadServices()
	if err != nil {
		return err
	}

	var current atomic.Pointer[wiring.AppServices]
	current.Store(services)

	// Live-reload when the config file changes. Env-only configurations
	// have nothing to watch.
	if path := configFilePath(); path != "" {
		watcher, err := watch.NewFileWatcher(path, 0, func() {
			reloaded, err := loadServices()
			if err != nil {
				fmt.Fprintf(os.Stderr, "config reload failed, keeping previous settings: %v\n", err)
				return
			}
			current.Store(reloaded)
			fmt.Fprintln(os.Stderr, "config reloaded")
		})
		if err != nil {
			return err
		}
		go func() { _ = watcher.Run(ctx) }()
	}

	interval := services.Config.RefreshInterval()
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := printScoreboard(ctx, current.Load()); err != nil {
			fmt.Fprintf(os.Stderr, "scoring pass failed: %v\n", err)
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func configFilePath() string {
	if configPath != "" {
		return configPath
	}
	return os.Getenv("TEAMBALANCE_CONFIG")
}

func printScoreboard(ctx context.Context, services *wiring.AppServices) error {
	snapshots, err := services.Score.Scoreboard(ctx, workload.MetricKind(watchKind))
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", time.Now().Format(time.RFC1123))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDONE\tTOTAL\tCURRENT TARGET\tCURRENT %")
	for _, s := range snapshots {
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f%%\n",
			s.DisplayName, s.DonePoints, s.TotalPoints, s.CurrentTargetPoints, s.CurrentCompletionRatio)
	}
	return w.Flush()
}

package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/teambalance/internal/application"
	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
	"github.com/felixgeelhaar/teambalance/pkg/metrics"
)

var (
	batchStrategy string
	batchKind     string
	batchTest     bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Distribute the queued backlog across the roster in one run",
	Long: `Distribute the items queued on the configured source account across
the roster, one item per candidate per run.

Only the deterministic strategies may drive a run:
  lowest_done   fewest done points this month
  lowest_total  fewest total points this month

Items nobody can take are unassigned and parked on the ready status.
--test reports the full plan without touching Jira.`,
	RunE: runBatchCmd,
}

func init() {
	batchCmd.Flags().StringVar(&batchStrategy, "strategy", string(workload.StrategyLowestDone), "selection strategy (lowest_done or lowest_total)")
	batchCmd.Flags().StringVar(&batchKind, "kind", string(workload.KindDone), "metric kind: done or total")
	batchCmd.Flags().BoolVar(&batchTest, "test", false, "plan the run without mutating")
	RootCmd.AddCommand(batchCmd)
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	services, err := loadServices()
	if err != nil {
		return err
	}

	if addr := services.Config.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() { _ = srv.ListenAndServe() }()
		defer srv.Close()
	}

	report, err := services.Batch.Run(cmd.Context(), application.RunOptions{
		Strategy: workload.Strategy(batchStrategy),
		Kind:     workload.MetricKind(batchKind),
		TestMode: batchTest,
	})
	if err != nil {
		return MapError(err)
	}

	for _, res := range report.Results {
		switch {
		case res.Error != "":
			fmt.Printf("✗ %s: %s\n", res.ItemKey, res.Error)
		case res.FellBack:
			fmt.Printf("– %s parked, nobody could take it\n", res.ItemKey)
		default:
			fmt.Printf("✓ %s -> %s\n", res.ItemKey, res.DisplayName)
		}
	}
	fmt.Printf("\nrun %s %s: %d assigned, %d parked, %d failed in %s\n",
		report.RunID, report.State, report.Assigned, report.Fallbacks, report.Failures,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return nil
}

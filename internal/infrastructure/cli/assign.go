package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/teambalance/internal/application"
	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

var (
	assignStrategy   string
	assignCandidate  string
	assignKind       string
	assignComment    string
	assignTransition string
	assignTest       bool
)

var assignCmd = &cobra.Command{
	Use:   "assign <item-key>",
	Short: "Pick a candidate by strategy and assign them the item",
	Long: `Pick a candidate using a selection strategy and assign them the item.

Strategies:
  specific      the candidate given with --candidate
  random        uniform over everyone without active work
  lowest_done   fewest done points this month
  lowest_total  fewest total points this month
  under_80      random among those at or below 80% of their prorated target

The candidate's active-work state is re-checked immediately before any
mutation. --test runs the full selection and guard without touching Jira.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssignCmd,
}

func init() {
	assignCmd.Flags().StringVar(&assignStrategy, "strategy", string(workload.StrategyLowestDone), "selection strategy")
	assignCmd.Flags().StringVar(&assignCandidate, "candidate", "", "account id for --strategy specific")
	assignCmd.Flags().StringVar(&assignKind, "kind", string(workload.KindDone), "metric kind: done or total")
	assignCmd.Flags().StringVar(&assignComment, "comment", "", "comment to post after assignment")
	assignCmd.Flags().StringVar(&assignTransition, "transition", "", "status to move the item to (default the ready status)")
	assignCmd.Flags().BoolVar(&assignTest, "test", false, "select and guard, but do not mutate")
	RootCmd.AddCommand(assignCmd)
}

func runAssignCmd(cmd *cobra.Command, args []string) error {
	itemKey := args[0]

	strategy := workload.Strategy(assignStrategy)
	if !strategy.IsValid() {
		return MapError(fmt.Errorf("%w: unknown strategy %q", workload.ErrInvalidSelection, assignStrategy))
	}

	services, err := loadServices()
	if err != nil {
		return err
	}

	snapshots, err := services.Score.EligibleSnapshots(cmd.Context(), workload.MetricKind(assignKind))
	if err != nil {
		return MapError(err)
	}

	snap, err := services.Selector.Select(strategy, snapshots, assignCandidate)
	if err != nil {
		return MapError(err)
	}

	transition := assignTransition
	if transition == "" {
		transition = services.Config.Statuses.Ready
	}

	outcome := services.Assign.Execute(cmd.Context(), application.AssignRequest{
		ItemKey:      itemKey,
		CandidateID:  snap.CandidateID,
		DisplayName:  snap.DisplayName,
		Comment:      assignComment,
		TransitionTo: transition,
		TestMode:     assignTest,
	})

	if !outcome.Success {
		fmt.Printf("✗ %s\n", outcome.Err)
		for _, item := range outcome.BlockingItems {
			fmt.Printf("  blocking: %s  %s (%s)\n", item.Key, item.Summary, item.Status)
		}
		return NewCLIError("assignment did not run", "Pick another candidate or retry once their active work is done", nil)
	}

	if assignTest {
		fmt.Printf("✓ would assign %s to %s (test mode, nothing changed)\n", itemKey, snap.DisplayName)
		return nil
	}
	fmt.Printf("✓ assigned %s to %s\n", itemKey, snap.DisplayName)
	return nil
}

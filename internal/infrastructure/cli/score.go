package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

var (
	scoreKind string
	scoreJSON bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the monthly scoreboard against prorated targets",
	Long: `Show each roster member's monthly points against their target,
prorated by business days elapsed in the month.

The metric kind selects which sum drives the ratios:
  done   points in the done status (default)
  total  all points except tracking-only items`,
	RunE: runScoreCmd,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreKind, "kind", string(workload.KindDone), "metric kind: done or total")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(scoreCmd)
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	services, err := loadServices()
	if err != nil {
		return err
	}

	snapshots, err := services.Score.Scoreboard(cmd.Context(), workload.MetricKind(scoreKind))
	if err != nil {
		return MapError(err)
	}

	if scoreJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snapshots)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDONE\tTOTAL\tTARGET\tCURRENT TARGET\tCURRENT %")
	for _, s := range snapshots {
		low := ""
		if s.IsLowPerformer() {
			low = "  (behind)"
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.0f\t%.1f\t%.1f%%%s\n",
			s.DisplayName, s.DonePoints, s.TotalPoints, s.TargetPoints, s.CurrentTargetPoints, s.CurrentCompletionRatio, low)
	}
	return w.Flush()
}

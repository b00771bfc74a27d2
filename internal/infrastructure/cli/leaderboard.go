package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var leaderboardJSON bool

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank the roster by delivered points this month",
	RunE:  runLeaderboardCmd,
}

func init() {
	leaderboardCmd.Flags().BoolVar(&leaderboardJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboardCmd(cmd *cobra.Command, args []string) error {
	services, err := loadServices()
	if err != nil {
		return err
	}

	entries, err := services.Leaderboard.Standings(cmd.Context())
	if err != nil {
		return MapError(err)
	}

	if leaderboardJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tDONE PTS\tDONE\tTOTAL PTS\tPTS/ITEM")
	for i, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%d\t%.1f\t%.1f\n",
			i+1, e.DisplayName, e.DonePoints, e.DoneCount, e.TotalPoints, e.PointsPerItem())
	}
	return w.Flush()
}

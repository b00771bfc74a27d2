package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var rosterJSON bool

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "List the active roster and who currently holds work",
	RunE:  runRosterCmd,
}

func init() {
	rosterCmd.Flags().BoolVar(&rosterJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(rosterCmd)
}

func runRosterCmd(cmd *cobra.Command, args []string) error {
	services, err := loadServices()
	if err != nil {
		return err
	}

	candidates, err := services.Roster.ListCandidates(cmd.Context())
	if err != nil {
		return MapError(err)
	}

	if rosterJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tACCOUNT\tACTIVE WORK")
	for _, c := range candidates {
		marker := ""
		if c.HasActiveWorkItem {
			marker = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.DisplayName, c.Email, c.ID, marker)
	}
	return w.Flush()
}

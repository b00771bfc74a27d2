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
	itemsAll  bool
	itemsJSON bool
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List unassigned, estimated items ready to be handed out",
	Long: `List the project's unassigned work items that carry a point estimate
and sit in an active sprint. These are the items 'assign' and 'batch'
operate on. --all lifts the sprint and estimate requirements.`,
	RunE: runItemsCmd,
}

func init() {
	itemsCmd.Flags().BoolVar(&itemsAll, "all", false, "include items without an estimate or sprint")
	itemsCmd.Flags().BoolVar(&itemsJSON, "json", false, "output in JSON format")
	RootCmd.AddCommand(itemsCmd)
}

func runItemsCmd(cmd *cobra.Command, args []string) error {
	services, err := loadServices()
	if err != nil {
		return err
	}

	filter := workload.Filter{
		Project:           services.Config.Jira.ProjectKey,
		UnassignedOnly:    true,
		RequireSprint:     !itemsAll,
		RequirePoints:     !itemsAll,
		CreatedWithinDays: services.Config.Roster.ActivityWindowDays,
		OrderBy:           "created DESC",
	}
	items, err := services.Tickets.QueryItems(cmd.Context(), filter)
	if err != nil {
		return MapError(err)
	}

	if itemsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tPOINTS\tSTATUS\tSUMMARY")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n", item.Key, item.Points, item.Status, item.Summary)
	}
	return w.Flush()
}

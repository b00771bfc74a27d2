package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Manage per-person monthly point targets",
}

var targetGetCmd = &cobra.Command{
	Use:   "get <email>",
	Short: "Show the target for one person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		points, err := services.Target.Get(args[0])
		if err != nil {
			return NewCLIError(err.Error(), "Set one with 'teambalance target set <email> <points>'", err)
		}
		fmt.Println(points)
		return nil
	},
}

var targetSetCmd = &cobra.Command{
	Use:   "set <email> <points>",
	Short: "Set the monthly point target for one person",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := strconv.Atoi(args[1])
		if err != nil {
			return NewCLIError(fmt.Sprintf("%q is not a number", args[1]), "Pass the target as whole points, e.g. 40", err)
		}
		services, err := loadServices()
		if err != nil {
			return err
		}
		if err := services.Target.Set(args[0], points); err != nil {
			return err
		}
		fmt.Printf("✓ target for %s set to %d\n", args[0], points)
		return nil
	},
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configured target",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices()
		if err != nil {
			return err
		}
		targets, err := services.Target.List()
		if err != nil {
			return err
		}

		emails := make([]string, 0, len(targets))
		for email := range targets {
			emails = append(emails, email)
		}
		sort.Strings(emails)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tTARGET")
		for _, email := range emails {
			fmt.Fprintf(w, "%s\t%d\n", email, targets[email])
		}
		return w.Flush()
	},
}

func init() {
	targetCmd.AddCommand(targetGetCmd, targetSetCmd, targetListCmd)
	RootCmd.AddCommand(targetCmd)
}

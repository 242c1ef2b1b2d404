package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command, which cycles a resource through
// not_started, in_progress, and complete.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <resource-id>",
		Short: "Cycle a resource's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			next, err := pdb.CycleStatus(owner(cfg), args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(map[string]string{"id": args[0], "status": next})
			}
			fmt.Printf("%s %s\n", statusGlyph(next), next)
			return nil
		},
	}
}

// newSkipCmd creates the skip command.
func newSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip <resource-id>",
		Short: "Mark a resource as skipped",
		Long: `Mark a resource as skipped.

Skipped resources keep their position and assigned date; they are simply
excluded from overdue tracking. Cycling a skipped resource's status returns
it to not_started.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			if err := pdb.MarkSkipped(owner(cfg), args[0]); err != nil {
				return err
			}
			printSuccess("Skipped %s", args[0])
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/schedule"
)

// newBlockCmd creates the block command.
func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block <date>",
		Short: "Block a calendar date",
		Long: `Block a calendar date (YYYY-MM-DD).

Work scheduled on or after the blocked date shifts to the next open days.
The recalculation happens immediately.

Examples:
  plan block 2024-07-04 --reason "holiday"
  plan block 2024-07-05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, _ := cmd.Flags().GetString("reason")

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			registry := schedule.NewRegistry(pdb)
			if err := registry.Block(cmd.Context(), owner(cfg), args[0], reason); err != nil {
				return err
			}
			printSuccess("Blocked %s", args[0])
			return nil
		},
	}
	cmd.Flags().String("reason", "", "Why the date is blocked")
	return cmd
}

// newUnblockCmd creates the unblock command.
func newUnblockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unblock <date>",
		Short: "Unblock a calendar date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			registry := schedule.NewRegistry(pdb)
			if err := registry.Unblock(cmd.Context(), owner(cfg), args[0]); err != nil {
				return err
			}
			printSuccess("Unblocked %s", args[0])
			return nil
		},
	}
}

// newBlockedCmd creates the blocked command, listing blocked dates.
func newBlockedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocked",
		Short: "List blocked dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			registry := schedule.NewRegistry(pdb)
			dates, err := registry.ListBlocked(owner(cfg), from)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(dates)
			}
			if len(dates) == 0 {
				fmt.Println(styled(dimStyle, "No blocked dates."))
				return nil
			}
			for _, d := range dates {
				line := styled(dateStyle, d.Date)
				if d.Reason != "" {
					line += "  " + styled(dimStyle, d.Reason)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().String("from", "", "Only dates on or after this date")
	return cmd
}

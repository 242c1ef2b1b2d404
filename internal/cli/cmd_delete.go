package cli

import (
	"github.com/spf13/cobra"
)

// newDeleteCmd creates the delete command.
func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tier> <id>",
		Short: "Delete an item and everything beneath it",
		Long: `Delete an item. Children are removed with it, and remaining siblings
close the position gap.

Examples:
  plan delete resource r123
  plan delete phase p456    # Removes its weeks, days, and resources too`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := itemTier(args[0])
			if err != nil {
				return err
			}

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			if err := pdb.Delete(tier, owner(cfg), args[1]); err != nil {
				return err
			}
			printSuccess("Deleted %s %s", tier, args[1])
			return nil
		},
	}
}

// newRenameCmd creates the rename command.
func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <tier> <id> <title>",
		Short: "Rename an item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := itemTier(args[0])
			if err != nil {
				return err
			}

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			if err := pdb.Rename(tier, owner(cfg), args[1], args[2]); err != nil {
				return err
			}
			printSuccess("Renamed %s %s", tier, args[1])
			return nil
		},
	}
}

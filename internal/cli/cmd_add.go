package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
)

// newAddCmd creates the add command with one subcommand per tier.
func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a phase, week, day, or resource",
	}

	phaseCmd := &cobra.Command{
		Use:   "phase <title>",
		Short: "Add a phase at the end of the plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color, _ := cmd.Flags().GetString("color")
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			item, err := pdb.AppendPhase(owner(cfg), args[0], color)
			if err != nil {
				return err
			}
			return printAdded("phase", item.ID, item.Position)
		},
	}
	phaseCmd.Flags().String("color", "", "Display color")
	cmd.AddCommand(phaseCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "week <phase-id> <title>",
		Short: "Add a week at the end of a phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			item, err := pdb.AppendWeek(owner(cfg), args[0], args[1])
			if err != nil {
				return err
			}
			return printAdded("week", item.ID, item.Position)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "day <week-id> <title>",
		Short: "Add a day at the end of a week",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			item, err := pdb.AppendDay(owner(cfg), args[0], args[1])
			if err != nil {
				return err
			}
			return printAdded("day", item.ID, item.Position)
		},
	})

	resourceCmd := &cobra.Command{
		Use:   "resource <day-id> <title>",
		Short: "Add a resource at the end of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			kind, _ := cmd.Flags().GetString("kind")
			notes, _ := cmd.Flags().GetString("notes")

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			r, err := pdb.AppendResource(owner(cfg), args[0], args[1], url, kind, notes)
			if err != nil {
				return err
			}
			return printAdded("resource", r.ID, r.Position)
		},
	}
	resourceCmd.Flags().String("url", "", "Resource URL")
	resourceCmd.Flags().String("kind", "link", "Resource kind (link, video, book, exercise)")
	resourceCmd.Flags().String("notes", "", "Free-form notes")
	cmd.AddCommand(resourceCmd)

	return cmd
}

func printAdded(tier, id string, pos int) error {
	if jsonOut {
		return printJSON(map[string]any{"tier": tier, "id": id, "position": pos})
	}
	fmt.Printf("Added %s %s at position %d\n", tier, styled(titleStyle, id), pos)
	return nil
}

// itemTier parses the tier argument shared by move, rename, and delete.
func itemTier(arg string) (db.Tier, error) {
	return db.ParseTier(arg)
}

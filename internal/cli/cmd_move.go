package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
	"github.com/Greenjacket-nomad/personal-plan/internal/order"
)

// newMoveCmd creates the move command.
func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <tier> <id> <position>",
		Short: "Move an item within or across parents",
		Long: `Move an item to a new position, optionally under a new parent.

Positions are zero-based and dense. Out-of-range positions clamp to the
nearest valid slot. Moving a container reorders every resource beneath it in
the global schedule; run 'plan schedule recalc' afterwards to refresh dates.

Examples:
  plan move week w123 0                    # First week of its phase
  plan move day d456 2 --parent w789       # Into another week
  plan move resource r1 5                  # Within its day`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := itemTier(args[0])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid position %q: %w", args[2], err)
			}
			newParent, _ := cmd.Flags().GetString("parent")

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			own := owner(cfg)
			if newParent == "" && tier != db.TierPhase {
				item, err := pdb.GetItem(tier, own, args[1])
				if err != nil {
					return err
				}
				newParent = item.ParentID
			}

			engine := order.NewEngine(pdb)
			if err := engine.Move(cmd.Context(), own, tier, args[1], newParent, pos); err != nil {
				return err
			}
			printSuccess("Moved %s %s to position %d", tier, args[1], pos)
			return nil
		},
	}

	cmd.Flags().String("parent", "", "New parent ID (defaults to current parent)")
	return cmd
}

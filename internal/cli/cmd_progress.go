package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/db"
)

// newProgressCmd creates the progress command group.
func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show or move your place in the plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			pr, err := pdb.GetProgress(owner(cfg))
			if err != nil {
				return err
			}
			return printProgress(pdb, owner(cfg), pr)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "advance",
		Short: "Move one week forward",
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			pr, err := pdb.AdvanceProgress(owner(cfg))
			if err != nil {
				return err
			}
			return printProgress(pdb, owner(cfg), pr)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "retreat",
		Short: "Move one week back",
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			pr, err := pdb.RetreatProgress(owner(cfg))
			if err != nil {
				return err
			}
			return printProgress(pdb, owner(cfg), pr)
		},
	})

	return cmd
}

func printProgress(pdb *db.PlanDB, own string, pr *db.Progress) error {
	if jsonOut {
		return printJSON(pr)
	}

	phases, err := pdb.Siblings(db.TierPhase, own, "")
	if err != nil {
		return err
	}
	if len(phases) == 0 || pr.PhasePosition >= len(phases) {
		fmt.Printf("Phase %d, week %d\n", pr.PhasePosition, pr.WeekPosition)
		return nil
	}

	phase := phases[pr.PhasePosition]
	label := phase.Title
	weeks, err := pdb.Siblings(db.TierWeek, own, phase.ID)
	if err != nil {
		return err
	}
	if pr.WeekPosition < len(weeks) {
		label += " / " + weeks[pr.WeekPosition].Title
	}
	fmt.Println(styled(titleStyle, label))
	return nil
}

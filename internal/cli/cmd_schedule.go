package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/schedule"
)

// newScheduleCmd creates the schedule command group.
func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Project and inspect the calendar schedule",
	}
	cmd.AddCommand(newScheduleSetStartCmd())
	cmd.AddCommand(newScheduleRecalcCmd())
	cmd.AddCommand(newScheduleShowCmd())
	cmd.AddCommand(newScheduleOverdueCmd())
	return cmd
}

func newScheduleSetStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-start <date>",
		Short: "Project the schedule from a start date",
		Long: `Project the schedule from a start date (YYYY-MM-DD).

Walks every day of the plan in order, assigning one calendar date per day
and skipping blocked dates. Fails if a schedule already exists; pass
--reset to re-project from scratch. First-assigned dates survive a reset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reset, _ := cmd.Flags().GetBool("reset")

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			scheduler := schedule.NewScheduler(pdb)
			if err := scheduler.Project(cmd.Context(), owner(cfg), args[0], reset); err != nil {
				return err
			}
			end, err := pdb.ProjectedEndDate(owner(cfg))
			if err != nil {
				return err
			}
			printSuccess("Scheduled from %s", args[0])
			if end != "" {
				fmt.Printf("Projected end: %s\n", styled(dateStyle, end))
			}
			return nil
		},
	}
	cmd.Flags().Bool("reset", false, "Wipe existing dates and re-project")
	return cmd
}

func newScheduleRecalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc <from-date>",
		Short: "Recalculate the schedule from a date onward",
		Long: `Recalculate assigned dates from a date onward.

Days scheduled before the date keep their assignments; the earliest day on
or after it becomes the pivot, and everything from the pivot is re-walked
across open dates. Run this after moving containers around.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			scheduler := schedule.NewScheduler(pdb)
			if err := scheduler.RecalculateFrom(cmd.Context(), owner(cfg), args[0]); err != nil {
				return err
			}
			printSuccess("Recalculated from %s", args[0])
			return nil
		},
	}
}

func newScheduleShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the day-by-day schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			groups, err := pdb.DayGroups(owner(cfg))
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(groups)
			}
			if len(groups) == 0 {
				fmt.Println(styled(dimStyle, "Nothing to schedule yet."))
				return nil
			}
			for _, g := range groups {
				date := styled(dimStyle, "unscheduled")
				if g.AssignedDate != "" {
					date = styled(dateStyle, g.AssignedDate)
				}
				fmt.Printf("%s  %s (%d resources)\n", date, g.DayTitle, len(g.ResourceIDs))
			}
			return nil
		},
	}
}

func newScheduleOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List days scheduled in the past with unfinished work",
		RunE: func(cmd *cobra.Command, args []string) error {
			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			groups, err := pdb.OverdueDayGroups(owner(cfg), schedule.Today())
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(groups)
			}
			if len(groups) == 0 {
				printSuccess("Nothing overdue.")
				return nil
			}
			for _, g := range groups {
				fmt.Printf("%s  %s (%d resources)\n",
					styled(warnStyle, g.AssignedDate), g.DayTitle, len(g.ResourceIDs))
			}
			return nil
		},
	}
}

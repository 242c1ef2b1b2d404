package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/schedule"
)

// newCalendarCmd creates the calendar command, showing what is assigned to
// a specific date.
func newCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [date]",
		Short: "Show resources assigned to a date (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := schedule.Today()
			if len(args) == 1 {
				var err error
				date, err = schedule.ParseDate(args[0])
				if err != nil {
					return err
				}
			}

			pdb, cfg, err := openPlan()
			if err != nil {
				return err
			}
			defer pdb.Close()

			resources, err := pdb.ResourcesOnDate(owner(cfg), date)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(resources)
			}
			fmt.Println(styled(titleStyle, date))
			if len(resources) == 0 {
				fmt.Println(styled(dimStyle, "Nothing scheduled."))
				return nil
			}
			for _, r := range resources {
				line := fmt.Sprintf("%s %s", statusGlyph(r.Status), r.Title)
				if r.URL != "" {
					line += "  " + styled(dimStyle, r.URL)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

// Package cli implements the plan command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/config"
	"github.com/Greenjacket-nomad/personal-plan/internal/db"
	"github.com/Greenjacket-nomad/personal-plan/internal/db/driver"
	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
)

var (
	planDir string
	ownerID string
	jsonOut bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plan",
	Short: "Personal learning curriculum tracker",
	Long: `plan tracks a learning curriculum as phases, weeks, days, and resources,
and projects them onto real calendar dates.

Quick start:
  plan init                         Initialize a plan in this directory
  plan add phase "Foundations"      Create a phase
  plan add week <phase-id> "Week 1" Create a week inside it
  plan schedule set-start 2024-01-01  Project the schedule
  plan tree                         Show the full hierarchy`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if planErr := planerrors.AsPlanError(err); planErr != nil {
			fmt.Fprintln(os.Stderr, planErr.UserMessage())
			os.Exit(1)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&planDir, "dir", ".", "plan directory")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "owner ID (default from config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSkipCmd())
	rootCmd.AddCommand(newBlockCmd())
	rootCmd.AddCommand(newUnblockCmd())
	rootCmd.AddCommand(newBlockedCmd())
	rootCmd.AddCommand(newScheduleCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// openPlan loads config and opens the plan database for the current
// directory. Callers must Close the returned database.
func openPlan() (*db.PlanDB, *config.Config, error) {
	if _, err := os.Stat(filepath.Join(planDir, ".plan")); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, planerrors.ErrNotInitialized()
		}
		return nil, nil, err
	}

	cfg, err := config.Load(planDir)
	if err != nil {
		return nil, nil, err
	}

	var pdb *db.PlanDB
	if cfg.Database.Dialect == "postgres" {
		pdb, err = db.OpenPlanWithDialect(cfg.Database.DSN, driver.DialectPostgres)
	} else {
		pdb, err = db.OpenPlan(planDir)
	}
	if err != nil {
		return nil, nil, err
	}
	return pdb, cfg, nil
}

// owner returns the effective owner: the --owner flag when set, otherwise
// the configured default.
func owner(cfg *config.Config) string {
	if ownerID != "" {
		return ownerID
	}
	return cfg.Owner
}

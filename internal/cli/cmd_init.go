package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Greenjacket-nomad/personal-plan/internal/config"
	"github.com/Greenjacket-nomad/personal-plan/internal/db"
	planerrors "github.com/Greenjacket-nomad/personal-plan/internal/errors"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a plan in the current directory",
		Long: `Initialize a plan in the current directory.

Creates .plan/ with the database and a default config.yaml.

Examples:
  plan init                  # Initialize with defaults
  plan init --force          # Reinitialize, keeping the database
  plan init --owner alice    # Set the default owner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			planPath := filepath.Join(planDir, ".plan")
			if _, err := os.Stat(planPath); err == nil && !force {
				abs, _ := filepath.Abs(planPath)
				return planerrors.ErrAlreadyInitialized(abs)
			}

			cfg := config.Default()
			if ownerID != "" {
				cfg.Owner = ownerID
			}
			if err := cfg.Save(planDir); err != nil {
				return err
			}

			pdb, err := db.OpenPlan(planDir)
			if err != nil {
				return err
			}
			defer pdb.Close()

			printSuccess("Initialized plan in %s", planPath)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Reinitialize an existing plan")
	return cmd
}

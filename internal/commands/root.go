// Package commands implements the safespend CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/safespend-dev/safespend/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var repoDir string

	rootCmd := &cobra.Command{
		Use:     "safespend",
		Short:   "How much can I safely spend today?",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "workspace directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAddCommand(&repoDir),
		newNormalizeCommand(),
		newStatusCommand(&repoDir),
		newForecastCommand(&repoDir),
		newPlansCommand(&repoDir),
		newDebtsCommand(&repoDir),
		newCategoriesCommand(&repoDir),
		newInsightsCommand(&repoDir),
		newGoalsCommand(&repoDir),
		newLogCommand(&repoDir),
	)

	return rootCmd
}

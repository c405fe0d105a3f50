package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// TALLY_* environment variables, optionally from a .env file, supply flag defaults.
func NewRootCommand() *cobra.Command {
	defaults, envErr := config.LoadEnv()
	verbose := defaults.Verbose

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal finance metrics from plain CSV files",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if envErr != nil {
				return envErr
			}
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", defaults.Verbose, "enable debug logging (env TALLY_VERBOSE)")

	rootCmd.AddCommand(
		newInitCommand(),
		newNetWorthCommand(defaults),
		newIncomeCommand(defaults),
		newAddCommand(defaults),
		newImportCommand(defaults),
		newSpendingCommand(defaults),
		newAlertsCommand(defaults),
		newAccountCommand(defaults),
		newBudgetCommand(defaults),
		newGoalCommand(defaults),
	)

	return rootCmd
}

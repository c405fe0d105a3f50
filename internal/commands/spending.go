package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/render"
)

func newSpendingCommand(defaults config.Env) *cobra.Command {
	var repoDir string
	var month string

	cmd := &cobra.Command{
		Use:   "spending",
		Short: "Break down a month's expenses by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			rep, err := ws.monthReport(year, m)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Spending(rep.period, rep.totals, rep.breakdown))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&month, "month", "", "month to report (YYYY-MM), default current")

	return cmd
}

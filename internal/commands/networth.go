package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/accounts"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/render"
)

func newNetWorthCommand(defaults config.Env) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "networth",
		Short: "Show assets, liabilities and net worth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := accounts.Load(ws.root)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.BalanceSheet(svc.BalanceSheet(), svc.All()))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)

	return cmd
}

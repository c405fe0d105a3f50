package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/alertlog"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/render"
)

func newAlertsCommand(defaults config.Env) *cobra.Command {
	var repoDir string
	var month string
	var record bool

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate budget alerts for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			year, m, err := parseMonth(month, now)
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			rules, err := ws.cfg.AlertRules()
			if err != nil {
				return err
			}
			rep, err := ws.monthReport(year, m)
			if err != nil {
				return err
			}
			alerts, err := metrics.GenerateAlerts(rep.totals.AlertInput(rep.breakdown), rules)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), render.Alerts(alerts))

			if !record {
				return nil
			}
			existing, err := alertlog.Read(ws.root)
			if err != nil {
				return err
			}
			fresh := alertlog.Unrecorded(existing, alertlog.FromAlerts(now.UTC(), rep.period, alerts))
			if len(fresh) == 0 {
				slog.Debug("alerts already recorded", "period", rep.period)
				return nil
			}
			if err := alertlog.Append(ws.root, fresh); err != nil {
				return err
			}
			slog.Info("recorded alerts", "period", rep.period, "count", len(fresh))
			return ws.commit(fmt.Sprintf("alerts: record %d for %s", len(fresh), rep.period))
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&month, "month", "", "month to evaluate (YYYY-MM), default current")
	cmd.Flags().BoolVar(&record, "record", false, "append new alerts to logs/alert-log.csv")

	return cmd
}

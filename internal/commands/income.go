package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/income"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/render"
)

func newIncomeCommand(defaults config.Env) *cobra.Command {
	var repoDir string
	var asOf string

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Show income sources normalized to monthly and annual amounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseDay("as-of", asOf, time.Now())
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			sources, err := income.Load(ws.root)
			if err != nil {
				return err
			}
			total, err := metrics.TotalIncome(sources, now)
			if err != nil {
				return err
			}
			out, err := render.IncomeSources(sources, total, now)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate on this date (YYYY-MM-DD), default today")

	cmd.AddCommand(
		newIncomeAddCommand(defaults),
		newIncomeReceivedCommand(defaults),
		newIncomeRemoveCommand(defaults),
	)
	return cmd
}

func newIncomeAddCommand(defaults config.Env) *cobra.Command {
	var repoDir, name, amount, frequency, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a recurring income source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid --amount %q: %w", amount, err)
			}
			freq, err := model.ParseFrequency(frequency)
			if err != nil {
				return err
			}
			startDate, err := parseDay("start", start, time.Now())
			if err != nil {
				return err
			}
			var endDate time.Time
			if end != "" {
				if endDate, err = parseDay("end", end, time.Now()); err != nil {
					return err
				}
			}

			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			sources, err := income.Load(ws.root)
			if err != nil {
				return err
			}
			sources, src, err := income.Add(sources, model.IncomeSource{
				Name:      name,
				Amount:    amt,
				Frequency: freq,
				StartDate: startDate,
				EndDate:   endDate,
			})
			if err != nil {
				return err
			}
			if err := income.Save(ws.root, sources); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("income: add #%d %s", src.ID, src.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added income source #%d %s: %s %s\n",
				src.ID, src.Name, render.Money(src.Amount), src.Frequency)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&name, "name", "", "source name (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount per payment (required)")
	cmd.Flags().StringVar(&frequency, "frequency", string(model.FrequencyMonthly), "WEEKLY, BIWEEKLY, MONTHLY, QUARTERLY or ANNUAL")
	cmd.Flags().StringVar(&start, "start", "", "first payment date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&end, "end", "", "last possible payment date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newIncomeReceivedCommand(defaults config.Env) *cobra.Command {
	var repoDir, date string

	cmd := &cobra.Command{
		Use:   "received <id>",
		Short: "Mark a payment from an income source as received",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("income source", args[0])
			if err != nil {
				return err
			}
			on, err := parseDay("date", date, time.Now())
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			sources, err := income.Load(ws.root)
			if err != nil {
				return err
			}
			sources, src, err := income.MarkReceived(sources, id, on)
			if err != nil {
				return err
			}
			if err := income.Save(ws.root, sources); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("income: #%d %s received %s", src.ID, src.Name, on.Format(dateFormat))); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recorded %s received on %s\n", src.Name, on.Format(dateFormat))
			next, ok, err := metrics.NextExpected(src)
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(out, "Next payment expected %s\n", next.Format(dateFormat))
			}
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&date, "date", "", "date received (YYYY-MM-DD), default today")
	return cmd
}

func newIncomeRemoveCommand(defaults config.Env) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an income source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("income source", args[0])
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			sources, err := income.Load(ws.root)
			if err != nil {
				return err
			}
			sources, src, err := income.Remove(sources, id)
			if err != nil {
				return err
			}
			if err := income.Save(ws.root, sources); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("income: remove #%d %s", src.ID, src.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed income source #%d %s\n", src.ID, src.Name)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	return cmd
}

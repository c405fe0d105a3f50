package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/goals"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/render"
)

func newGoalCommand(defaults config.Env) *cobra.Command {
	var repoDir, asOf string

	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Show progress toward savings goals",
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
			all, err := goals.Load(ws.root)
			if err != nil {
				return err
			}
			out, err := render.Goals(all, now)
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
		newGoalAddCommand(defaults),
		newGoalContributeCommand(defaults),
	)
	return cmd
}

func newGoalAddCommand(defaults config.Env) *cobra.Command {
	var repoDir, name, target, by string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Start saving toward a new goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			amt, err := decimal.NewFromString(target)
			if err != nil {
				return fmt.Errorf("invalid --target %q: %w", target, err)
			}
			var deadline time.Time
			if by != "" {
				if deadline, err = parseDay("by", by, time.Now()); err != nil {
					return err
				}
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			all, err := goals.Load(ws.root)
			if err != nil {
				return err
			}
			all, g, err := goals.Add(all, goals.NewGoal{Name: name, Target: amt, TargetDate: deadline})
			if err != nil {
				return err
			}
			if err := goals.Save(ws.root, all); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("goal: add #%d %s", g.ID, g.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added goal #%d %s: %s\n", g.ID, g.Name, render.Money(g.TargetAmount))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&name, "name", "", "goal name (required)")
	cmd.Flags().StringVar(&target, "target", "", "amount to save (required)")
	cmd.Flags().StringVar(&by, "by", "", "target date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newGoalContributeCommand(defaults config.Env) *cobra.Command {
	var repoDir, date string

	cmd := &cobra.Command{
		Use:     "contribute <id> <amount>",
		Short:   "Add savings to a goal; a negative amount withdraws",
		Example: `  tally goal contribute 1 250
  tally goal contribute -- 1 -100`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("goal", args[0])
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			on, err := parseDay("date", date, time.Now())
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			all, err := goals.Load(ws.root)
			if err != nil {
				return err
			}
			all, g, err := goals.Contribute(all, id, amt, on)
			if err != nil {
				return err
			}
			if err := goals.Save(ws.root, all); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("goal: #%d %s %s", g.ID, g.Name, render.Money(amt))); err != nil {
				return err
			}

			p, err := metrics.Progress(g, on)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s of %s (%s)\n",
				g.Name, render.Money(g.CurrentAmount), render.Money(g.TargetAmount), render.Percent(p.Percent))
			if g.Status == model.GoalCompleted {
				fmt.Fprintln(out, render.SuccessStyle.Render(render.SuccessIcon+" Goal reached on "+g.CompletedDate.Format(dateFormat)))
			}
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&date, "date", "", "contribution date (YYYY-MM-DD), default today")
	return cmd
}

package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/render"
)

func newBudgetCommand(defaults config.Env) *cobra.Command {
	var repoDir, month string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show category budgets against a month's spending",
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
			fmt.Fprint(cmd.OutOrStdout(), render.Budgets(rep.period, rep.categories, rep.breakdown))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&month, "month", "", "month to compare (YYYY-MM), default current")

	cmd.AddCommand(
		newBudgetSetCommand(defaults),
		newBudgetClearCommand(defaults),
	)
	return cmd
}

func newBudgetSetCommand(defaults config.Env) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set a category's monthly budget, adding the category if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid budget %q: %w", args[1], err)
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			cat, err := ws.setBudget(args[0], decimal.NewNullDecimal(amt))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s budget set to %s\n", cat, render.Money(amt))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	return cmd
}

func newBudgetClearCommand(defaults config.Env) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "clear <category>",
		Short: "Remove a category's monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			cat, err := ws.setBudget(args[0], decimal.NullDecimal{})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s budget cleared\n", cat)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	return cmd
}

// setBudget saves a category's budget and commits it, returning the
// category's stored name.
func (w *workspace) setBudget(name string, budget decimal.NullDecimal) (string, error) {
	cats, err := ledger.LoadCategories(w.root)
	if err != nil {
		return "", err
	}
	cats, cat, err := ledger.SetBudget(cats, name, budget)
	if err != nil {
		return "", err
	}
	if err := ledger.SaveCategories(w.root, cats); err != nil {
		return "", err
	}
	msg := fmt.Sprintf("budget: clear %s", cat.Name)
	if budget.Valid {
		msg = fmt.Sprintf("budget: %s %s", cat.Name, render.Money(budget.Decimal))
	}
	if err := w.commit(msg); err != nil {
		return "", err
	}
	return cat.Name, nil
}

package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

func newAddCommand(defaults config.Env) *cobra.Command {
	var repoDir, date, txnType, amount, category, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income or expense transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			params, err := parseAddParams(ws.root, date, txnType, amount, category, description)
			if err != nil {
				return err
			}
			id, err := ledger.NewService(ws.root).Add(params)
			if err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("add: %s %s %s", id, params.Type, params.Amount.StringFixed(2))); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s %s %s\n",
				id, params.Type, params.Amount.StringFixed(2), params.Category)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&txnType, "type", string(model.TransactionExpense), "INCOME or EXPENSE")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount (required)")
	cmd.Flags().StringVar(&category, "category", "", "category name")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func parseAddParams(repoRoot, date, txnType, amount, category, description string) (ledger.AddParams, error) {
	when, err := parseDay("date", date, time.Now())
	if err != nil {
		return ledger.AddParams{}, err
	}

	typ, err := model.ParseTransactionType(txnType)
	if err != nil {
		return ledger.AddParams{}, err
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return ledger.AddParams{}, fmt.Errorf("invalid --amount %q: %w", amount, err)
	}

	if category != "" {
		known, err := ledger.LoadCategories(repoRoot)
		if err != nil {
			return ledger.AddParams{}, err
		}
		if name, ok := ledger.MatchCategory(category, known); ok {
			if name != category {
				slog.Debug("matched category", "typed", category, "category", name)
			}
			category = name
		} else {
			slog.Warn("category not in categories.csv", "category", category)
		}
	}

	return ledger.AddParams{
		Date:        when,
		Type:        typ,
		Amount:      amt,
		Category:    category,
		Description: description,
	}, nil
}

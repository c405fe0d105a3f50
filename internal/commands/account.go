package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/accounts"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
	"github.com/tally-dev/tally/internal/render"
)

func newAccountCommand(defaults config.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "List, open, update and close accounts",
	}
	cmd.AddCommand(
		newAccountListCommand(defaults),
		newAccountAddCommand(defaults),
		newAccountSetBalanceCommand(defaults),
		newAccountRemoveCommand(defaults),
	)
	return cmd
}

func newAccountListCommand(defaults config.Env) *cobra.Command {
	var repoDir, accountType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, optionally of one type",
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
			accts := svc.All()
			if accountType != "" {
				typ, err := model.ParseAccountType(accountType)
				if err != nil {
					return err
				}
				accts = svc.ByType(typ)
			}
			fmt.Fprint(cmd.OutOrStdout(), render.BalanceSheet(metrics.NetWorth(accts), accts))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&accountType, "type", "", "only accounts of this type (e.g. CHECKING, CREDIT_CARD)")
	return cmd
}

func newAccountAddCommand(defaults config.Env) *cobra.Command {
	var repoDir, name, accountType, balance, currency string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			typ, err := model.ParseAccountType(accountType)
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(balance)
			if err != nil {
				return fmt.Errorf("invalid --balance %q: %w", balance, err)
			}
			if currency == "" {
				currency = ws.cfg.Profile.Currency
			}

			svc, err := accounts.Load(ws.root)
			if err != nil {
				return err
			}
			acct, err := svc.Add(accounts.NewAccount{Name: name, Type: typ, Balance: amt, Currency: currency})
			if err != nil {
				return err
			}
			if err := svc.Save(ws.root); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("account: open #%d %s", acct.ID, acct.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened account #%d %s (%s) %s %s\n",
				acct.ID, acct.Name, acct.Type, render.Money(acct.CurrentBalance), acct.Currency)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	cmd.Flags().StringVar(&accountType, "type", string(model.AccountTypeChecking), "account type")
	cmd.Flags().StringVar(&balance, "balance", "0", "current balance; liabilities take the amount owed")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code, default the profile currency")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountSetBalanceCommand(defaults config.Env) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "set-balance <id> <amount>",
		Short: "Replace an account's current balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			amt, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", args[1], err)
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := accounts.Load(ws.root)
			if err != nil {
				return err
			}
			acct, err := svc.SetBalance(id, amt)
			if err != nil {
				return err
			}
			if err := svc.Save(ws.root); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("account: #%d %s balance %s", acct.ID, acct.Name, render.Money(amt))); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s balance is now %s\n", acct.Name, render.Money(acct.CurrentBalance))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	return cmd
}

func newAccountRemoveCommand(defaults config.Env) *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Close an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := accounts.Load(ws.root)
			if err != nil {
				return err
			}
			acct, err := svc.Remove(id)
			if err != nil {
				return err
			}
			if err := svc.Save(ws.root); err != nil {
				return err
			}
			if err := ws.commit(fmt.Sprintf("account: close #%d %s", acct.ID, acct.Name)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Closed account #%d %s\n", acct.ID, acct.Name)
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir, defaults)
	return cmd
}

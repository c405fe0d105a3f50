package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/accounts"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/goals"
	"github.com/tally-dev/tally/internal/income"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/render"
)

func newInitCommand() *cobra.Command {
	var name string
	var currency string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, name, currency, useGit); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.SuccessStyle.Render(
				render.SuccessIcon+" Initialized tally workspace at "+absDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "profile name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&currency, "currency", "USD", "default currency code")
	cmd.Flags().BoolVar(&useGit, "git", false, "track the workspace in a git repository")

	return cmd
}

func runInit(dir, name, currency string, useGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
		return fmt.Errorf("%s already exists in %s", configFile, dir)
	}

	dirs := []string{
		"accounts",
		"income",
		"categories",
		"goals",
		"ledger",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name, strings.ToUpper(currency))
	if err := config.Save(filepath.Join(dir, configFile), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := accounts.NewService(nil).Save(dir); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}

	if err := income.Save(dir, nil); err != nil {
		return fmt.Errorf("writing income sources: %w", err)
	}

	if err := goals.Save(dir, nil); err != nil {
		return fmt.Errorf("writing goals: %w", err)
	}

	if err := ledger.SaveCategories(dir, ledger.DefaultCategories()); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		return nil
	}
	if err := gitops.Init(dir); err != nil {
		return err
	}
	if _, err := gitops.CommitAll(dir, "init: Initialize "+name, cfg.GitAuthor()); err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	return nil
}

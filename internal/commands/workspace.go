package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

const (
	configFile  = "tally.yaml"
	monthFormat = "2006-01"
	dateFormat  = "2006-01-02"
)

// workspace is an initialized tally directory and its configuration.
type workspace struct {
	root string
	cfg  *config.Config
}

func openWorkspace(repoDir string) (*workspace, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, configFile))
	if err != nil {
		return nil, fmt.Errorf("%w (run tally init first?)", err)
	}
	slog.Debug("opened workspace", "root", root, "profile", cfg.Profile.Name)
	return &workspace{root: root, cfg: cfg}, nil
}

// commit records the workspace's changes when it is a git repository.
// Workspaces without git are left alone.
func (w *workspace) commit(message string) error {
	if !gitops.IsRepo(w.root) {
		return nil
	}
	hash, err := gitops.CommitAll(w.root, message, w.cfg.GitAuthor())
	if err != nil {
		return err
	}
	if hash != "" {
		slog.Debug("committed", "hash", hash, "message", message)
	}
	return nil
}

// parseDay reads a YYYY-MM-DD flag. An empty value means today.
func parseDay(flag, s string, now time.Time) (time.Time, error) {
	if s != "" {
		t, err := time.Parse(dateFormat, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --%s %q, want YYYY-MM-DD", flag, s)
		}
		return t, nil
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
}

// parseID reads a numeric record ID argument.
func parseID(kind, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return n, nil
}

func addRepoFlag(cmd *cobra.Command, repoDir *string, defaults config.Env) {
	cmd.Flags().StringVar(repoDir, "repo", defaults.Repo, "workspace directory (env TALLY_REPO)")
}

// parseMonth reads a YYYY-MM flag. An empty value means the current month.
func parseMonth(s string, now time.Time) (year, month int, err error) {
	if s == "" {
		return now.Year(), int(now.Month()), nil
	}
	t, err := time.Parse(monthFormat, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t.Year(), int(t.Month()), nil
}

// monthReport is one month's totals and category breakdown.
type monthReport struct {
	period     string
	totals     metrics.PeriodTotals
	breakdown  []metrics.CategorySpending
	categories []model.Category
}

func (w *workspace) monthReport(year, month int) (*monthReport, error) {
	svc := ledger.NewService(w.root)
	txns, err := svc.ReadMonth(year, month)
	if err != nil {
		return nil, err
	}

	cats, err := ledger.LoadCategories(w.root)
	if err != nil {
		return nil, err
	}

	var baseline metrics.Baseline
	if n := w.cfg.Spending.TrendWindow; n > 0 {
		prev, err := svc.ReadPrevious(year, month, n)
		if err != nil {
			return nil, err
		}
		baseline = metrics.TrailingBaseline(prev...)
	}

	totals, err := metrics.Totals(txns)
	if err != nil {
		return nil, err
	}
	breakdown, err := metrics.Spending(txns, cats, baseline, w.cfg.SpendingRules())
	if err != nil {
		return nil, err
	}

	period := fmt.Sprintf("%04d-%02d", year, month)
	slog.Debug("built month report", "period", period, "transactions", len(txns), "categories", len(breakdown))
	return &monthReport{period: period, totals: totals, breakdown: breakdown, categories: cats}, nil
}

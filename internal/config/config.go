package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Profile  ProfileConfig  `yaml:"profile"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Spending SpendingConfig `yaml:"spending"`
	Git      GitConfig      `yaml:"git"`
}

// ProfileConfig identifies whose books these are.
type ProfileConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// AlertsConfig controls budget alert thresholds. Ratios are fractions of
// income, percents are 0-100.
type AlertsConfig struct {
	Cap                  int             `yaml:"cap"`
	HighExpenseRatio     float64         `yaml:"high_expense_ratio"`
	ModerateExpenseRatio float64         `yaml:"moderate_expense_ratio"`
	LowSavingsPercent    float64         `yaml:"low_savings_percent"`
	GoodSavingsPercent   float64         `yaml:"good_savings_percent"`
	SavingsTargetPercent float64         `yaml:"savings_target_percent"`
	HealthyBalanceRatio  float64         `yaml:"healthy_balance_ratio"`
	CategoryLimits       []CategoryLimit `yaml:"category_limits,omitempty"`
}

// CategoryLimit caps one kind of spending as a share of all expenses.
type CategoryLimit struct {
	Match           string  `yaml:"match"`
	MaxSharePercent float64 `yaml:"max_share_percent"`
	Severity        string  `yaml:"severity"`
	Title           string  `yaml:"title"`
	Advice          string  `yaml:"advice,omitempty"`
}

// SpendingConfig controls trend detection in the spending breakdown.
type SpendingConfig struct {
	TrendTolerancePercent float64 `yaml:"trend_tolerance_percent"`
	AnomalyMultiple       float64 `yaml:"anomaly_multiple"`
	TrendWindow           int     `yaml:"trend_window"` // months averaged for the baseline
}

// GitConfig controls commits made when the workspace is a git repository.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk. Thresholds the file leaves out
// keep their Default values; an absent git section falls back through
// GitAuthor.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("", "")
	cfg.Git = GitConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the standard thresholds for a new workspace.
func Default(name, currency string) *Config {
	rules := metrics.DefaultAlertRules()
	spending := metrics.DefaultSpendingRules()
	limits := make([]CategoryLimit, len(rules.CategoryLimits))
	for i, l := range rules.CategoryLimits {
		limits[i] = CategoryLimit{
			Match:           l.Match,
			MaxSharePercent: l.MaxSharePercent.InexactFloat64(),
			Severity:        string(l.Severity),
			Title:           l.Title,
			Advice:          l.Advice,
		}
	}

	return &Config{
		Profile: ProfileConfig{
			Name:     name,
			Currency: currency,
		},
		Alerts: AlertsConfig{
			Cap:                  rules.Cap,
			HighExpenseRatio:     0.80,
			ModerateExpenseRatio: 0.70,
			LowSavingsPercent:    10,
			GoodSavingsPercent:   20,
			SavingsTargetPercent: 20,
			HealthyBalanceRatio:  0.5,
			CategoryLimits:       limits,
		},
		Spending: SpendingConfig{
			TrendTolerancePercent: spending.TrendTolerance.Mul(decimal.NewFromInt(100)).InexactFloat64(),
			AnomalyMultiple:       spending.AnomalyMultiple.InexactFloat64(),
			TrendWindow:           3,
		},
		Git: GitConfig{
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// AlertRules converts the alert section into engine thresholds.
func (c *Config) AlertRules() (metrics.AlertRules, error) {
	a := c.Alerts
	rules := metrics.AlertRules{
		Cap:                  a.Cap,
		HighExpenseRatio:     decimal.NewFromFloat(a.HighExpenseRatio),
		ModerateExpenseRatio: decimal.NewFromFloat(a.ModerateExpenseRatio),
		LowSavingsPercent:    decimal.NewFromFloat(a.LowSavingsPercent),
		GoodSavingsPercent:   decimal.NewFromFloat(a.GoodSavingsPercent),
		SavingsTargetPercent: decimal.NewFromFloat(a.SavingsTargetPercent),
		HealthyBalanceRatio:  decimal.NewFromFloat(a.HealthyBalanceRatio),
	}
	if rules.Cap == 0 {
		rules.Cap = metrics.DefaultAlertCap
	}
	if a.ModerateExpenseRatio > a.HighExpenseRatio {
		return metrics.AlertRules{}, fmt.Errorf("moderate_expense_ratio %.2f exceeds high_expense_ratio %.2f",
			a.ModerateExpenseRatio, a.HighExpenseRatio)
	}

	for i, l := range a.CategoryLimits {
		sev, err := parseSeverity(l.Severity)
		if err != nil {
			return metrics.AlertRules{}, fmt.Errorf("category_limits[%d]: %w", i, err)
		}
		rules.CategoryLimits = append(rules.CategoryLimits, metrics.CategoryLimit{
			Match:           l.Match,
			MaxSharePercent: decimal.NewFromFloat(l.MaxSharePercent),
			Severity:        sev,
			Title:           l.Title,
			Advice:          l.Advice,
		})
	}
	return rules, nil
}

// SpendingRules converts the spending section into engine thresholds.
func (c *Config) SpendingRules() metrics.SpendingRules {
	return metrics.SpendingRules{
		TrendTolerance:  decimal.NewFromFloat(c.Spending.TrendTolerancePercent).Div(decimal.NewFromInt(100)),
		AnomalyMultiple: decimal.NewFromFloat(c.Spending.AnomalyMultiple),
	}
}

// GitAuthor returns the identity for workspace commits, falling back to the
// profile name when none is configured.
func (c *Config) GitAuthor() gitops.Author {
	a := gitops.Author{Name: c.Git.AuthorName, Email: c.Git.AuthorEmail}
	if a.Name == "" {
		a.Name = c.Profile.Name
	}
	if a.Email == "" {
		a.Email = "tally@localhost"
	}
	return a
}

func parseSeverity(s string) (model.Severity, error) {
	switch sev := model.Severity(s); sev {
	case model.SeverityCritical, model.SeverityWarning, model.SeverityInfo, model.SeveritySuccess:
		return sev, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

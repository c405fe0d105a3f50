package metrics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// Fixed alert IDs. Category rules use id.CategoryAlertID.
const (
	AlertNegativeBalance  = "negative-balance"
	AlertHighExpenses     = "high-expenses"
	AlertModerateExpenses = "moderate-expenses"
	AlertLowSavings       = "low-savings"
	AlertGoodSavings      = "good-savings"
	AlertHealthyBalance   = "healthy-balance"
)

// DefaultAlertCap is the most alerts surfaced in one evaluation.
const DefaultAlertCap = 6

// CategoryLimit flags a category whose share of expenses is too large.
type CategoryLimit struct {
	Match           string          // case-insensitive substring of the category name, e.g. "hous"
	MaxSharePercent decimal.Decimal // alert when share of expenses exceeds this
	Severity        model.Severity
	Title           string
	Advice          string
}

// AlertRules holds every threshold GenerateAlerts applies. Ratios are
// fractions of income; percents are on a 0-100 scale.
type AlertRules struct {
	Cap                  int
	HighExpenseRatio     decimal.Decimal
	ModerateExpenseRatio decimal.Decimal
	LowSavingsPercent    decimal.Decimal
	GoodSavingsPercent   decimal.Decimal
	SavingsTargetPercent decimal.Decimal
	HealthyBalanceRatio  decimal.Decimal
	CategoryLimits       []CategoryLimit
}

// DefaultAlertRules returns the standard budgeting guidance: expenses under
// 70% of income, at least 20% saved, housing at most 30% and dining at most
// 15% of expenses.
func DefaultAlertRules() AlertRules {
	return AlertRules{
		Cap:                  DefaultAlertCap,
		HighExpenseRatio:     decimal.RequireFromString("0.80"),
		ModerateExpenseRatio: decimal.RequireFromString("0.70"),
		LowSavingsPercent:    decimal.NewFromInt(10),
		GoodSavingsPercent:   decimal.NewFromInt(20),
		SavingsTargetPercent: decimal.NewFromInt(20),
		HealthyBalanceRatio:  decimal.RequireFromString("0.5"),
		CategoryLimits: []CategoryLimit{
			{
				Match:           "hous",
				MaxSharePercent: decimal.NewFromInt(30),
				Severity:        model.SeverityWarning,
				Title:           "High Housing Costs",
				Advice:          "Consider optimizing rent or mortgage costs.",
			},
			{
				Match:           "din",
				MaxSharePercent: decimal.NewFromInt(15),
				Severity:        model.SeverityInfo,
				Title:           "Dining Expenses",
				Advice:          "Consider meal planning to reduce costs.",
			},
		},
	}
}

// CategoryAmount is one entry of the spending breakdown fed to the alerts.
type CategoryAmount struct {
	Name  string
	Value decimal.Decimal
}

// AlertInput is the period summary that alerts are evaluated against.
type AlertInput struct {
	Balance        decimal.Decimal
	Income         decimal.Decimal
	Expenses       decimal.Decimal
	SavingsPercent decimal.Decimal
	Breakdown      []CategoryAmount
}

// GenerateAlerts evaluates every rule in a fixed order: balance, expense
// ratio, savings rate, category limits (in breakdown order), reserves. The
// result keeps that order, drops repeated IDs, and is truncated to rules.Cap.
func GenerateAlerts(in AlertInput, rules AlertRules) ([]model.BudgetAlert, error) {
	if in.Income.IsNegative() {
		return nil, invalidf("income %s must not be negative", in.Income)
	}
	if in.Expenses.IsNegative() {
		return nil, invalidf("expenses %s must not be negative", in.Expenses)
	}
	if rules.Cap < 1 {
		return nil, invalidf("alert cap %d must be at least 1", rules.Cap)
	}

	var l alertList

	if in.Balance.IsNegative() {
		l.add(model.BudgetAlert{
			ID:       AlertNegativeBalance,
			Severity: model.SeverityCritical,
			Title:    "Negative Balance Alert",
			Message: fmt.Sprintf("Your account is overdrawn by %s. Consider reducing expenses or increasing income.",
				in.Balance.Abs().StringFixed(2)),
			Amount: decimal.NewNullDecimal(in.Balance),
		})
	}

	if in.Income.IsPositive() {
		ratio := in.Expenses.Div(in.Income)
		pct := ratio.Mul(hundred).StringFixed(1)
		switch {
		case ratio.GreaterThan(rules.HighExpenseRatio):
			l.add(model.BudgetAlert{
				ID:       AlertHighExpenses,
				Severity: model.SeverityCritical,
				Title:    "High Expense Alert",
				Message: fmt.Sprintf("Your expenses (%s%% of income) are very high. Aim to keep expenses below %s%% of income.",
					pct, rules.ModerateExpenseRatio.Mul(hundred).StringFixed(0)),
				Amount: decimal.NewNullDecimal(in.Expenses),
			})
		case ratio.GreaterThan(rules.ModerateExpenseRatio):
			l.add(model.BudgetAlert{
				ID:       AlertModerateExpenses,
				Severity: model.SeverityWarning,
				Title:    "Expense Warning",
				Message:  fmt.Sprintf("Your expenses are %s%% of income. Consider optimizing your spending.", pct),
				Amount:   decimal.NewNullDecimal(in.Expenses),
			})
		}
	}

	switch {
	case in.SavingsPercent.LessThan(rules.LowSavingsPercent) && in.Income.IsPositive():
		l.add(model.BudgetAlert{
			ID:       AlertLowSavings,
			Severity: model.SeverityWarning,
			Title:    "Low Savings Rate",
			Message: fmt.Sprintf("Your savings rate is only %s%%. Aim for at least %s%% of income.",
				in.SavingsPercent.StringFixed(1), rules.SavingsTargetPercent.StringFixed(0)),
			Amount: decimal.NewNullDecimal(in.Income.Mul(rules.SavingsTargetPercent).Div(hundred)),
		})
	case in.SavingsPercent.GreaterThanOrEqual(rules.GoodSavingsPercent):
		l.add(model.BudgetAlert{
			ID:       AlertGoodSavings,
			Severity: model.SeveritySuccess,
			Title:    "Great Savings Rate!",
			Message: fmt.Sprintf("You're saving %s%% of your income. Keep up the excellent work!",
				in.SavingsPercent.StringFixed(1)),
			Amount: decimal.NewNullDecimal(in.Income.Mul(in.SavingsPercent).Div(hundred)),
		})
	}

	for _, cat := range in.Breakdown {
		share := decimal.Zero
		if in.Expenses.IsPositive() {
			share = cat.Value.Div(in.Expenses).Mul(hundred)
		}
		name := strings.ToLower(cat.Name)
		for _, limit := range rules.CategoryLimits {
			if limit.Match == "" || !strings.Contains(name, strings.ToLower(limit.Match)) {
				continue
			}
			if !share.GreaterThan(limit.MaxSharePercent) {
				continue
			}
			l.add(model.BudgetAlert{
				ID:       id.CategoryAlertID(cat.Name),
				Severity: limit.Severity,
				Title:    limit.Title,
				Message:  fmt.Sprintf("%s%% of expenses on %s. %s", share.StringFixed(1), name, limit.Advice),
				Category: cat.Name,
				Amount:   decimal.NewNullDecimal(cat.Value),
			})
		}
	}

	if in.Balance.GreaterThan(in.Income.Mul(rules.HealthyBalanceRatio)) {
		l.add(model.BudgetAlert{
			ID:       AlertHealthyBalance,
			Severity: model.SeveritySuccess,
			Title:    "Healthy Balance",
			Message:  fmt.Sprintf("You have a strong emergency fund with %s saved.", in.Balance.StringFixed(2)),
			Amount:   decimal.NewNullDecimal(in.Balance),
		})
	}

	if len(l.alerts) > rules.Cap {
		l.alerts = l.alerts[:rules.Cap]
	}
	return l.alerts, nil
}

type alertList struct {
	alerts []model.BudgetAlert
	seen   map[string]bool
}

func (l *alertList) add(a model.BudgetAlert) {
	if l.seen == nil {
		l.seen = make(map[string]bool)
	}
	if l.seen[a.ID] {
		return
	}
	l.seen[a.ID] = true
	l.alerts = append(l.alerts, a)
}

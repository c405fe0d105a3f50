package metrics

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tally-dev/tally/internal/model"
)

// Trend compares a category's spend with its baseline.
type Trend string

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendStable Trend = "STABLE"
)

// Uncategorized is the display name for transactions without a category.
const Uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// SpendingRules controls trend and anomaly detection.
type SpendingRules struct {
	// TrendTolerance is the fractional change treated as STABLE (0.05 = ±5%).
	TrendTolerance decimal.Decimal
	// AnomalyMultiple flags a category whose rise exceeds TrendTolerance*AnomalyMultiple.
	AnomalyMultiple decimal.Decimal
}

// DefaultSpendingRules returns a ±5% tolerance with anomalies at 3× that.
func DefaultSpendingRules() SpendingRules {
	return SpendingRules{
		TrendTolerance:  decimal.RequireFromString("0.05"),
		AnomalyMultiple: decimal.NewFromInt(3),
	}
}

// CategorySpending is the aggregate of one category's expenses.
type CategorySpending struct {
	Name               string
	TotalSpent         decimal.Decimal
	TransactionCount   int
	AverageTransaction decimal.Decimal
	PercentageOfTotal  decimal.Decimal
	MonthlyBudget      decimal.NullDecimal
	PercentageOfBudget decimal.NullDecimal
	Trend              Trend
	Change             decimal.NullDecimal // fractional change vs baseline, when finite
	Anomalous          bool
}

// Baseline maps a category key (see CategoryKey) to the spend it is compared
// against. An empty Baseline means no history and every trend is STABLE.
type Baseline map[string]decimal.Decimal

// CategoryKey normalizes a category name for case-insensitive grouping.
func CategoryKey(name string) string {
	key := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if key == "" {
		return strings.ToLower(Uncategorized)
	}
	return key
}

// DisplayName returns the canonical presentation form of a category name.
func DisplayName(name string) string {
	// Casers hold state, so each call gets its own.
	return cases.Title(language.English).String(CategoryKey(name))
}

// TrailingBaseline averages per-category expense totals over the given
// periods. A category missing from a period counts as zero for it.
func TrailingBaseline(periods ...[]model.Transaction) Baseline {
	if len(periods) == 0 {
		return nil
	}
	sums := make(Baseline)
	for _, txns := range periods {
		for _, t := range txns {
			if t.Type != model.TransactionExpense {
				continue
			}
			key := CategoryKey(t.Category)
			sums[key] = sums[key].Add(t.Amount)
		}
	}
	n := decimal.NewFromInt(int64(len(periods)))
	for k, v := range sums {
		sums[k] = v.Div(n)
	}
	return sums
}

// Spending groups expense transactions by category. Income transactions are
// ignored. The result is sorted by total spent, largest first, with ties
// broken by name.
func Spending(txns []model.Transaction, categories []model.Category, baseline Baseline, rules SpendingRules) ([]CategorySpending, error) {
	if rules.TrendTolerance.IsNegative() {
		return nil, invalidf("trend tolerance %s must not be negative", rules.TrendTolerance)
	}
	if rules.AnomalyMultiple.IsNegative() {
		return nil, invalidf("anomaly multiple %s must not be negative", rules.AnomalyMultiple)
	}

	budgets := make(map[string]decimal.NullDecimal, len(categories))
	for _, c := range categories {
		key := CategoryKey(c.Name)
		if _, ok := budgets[key]; !ok {
			budgets[key] = c.MonthlyBudget
		}
	}

	byKey := make(map[string]*CategorySpending)
	var order []string
	grand := decimal.Zero
	for _, t := range txns {
		if t.Amount.IsNegative() {
			return nil, invalidf("transaction %s has negative amount %s", t.ID, t.Amount)
		}
		if t.Type != model.TransactionExpense {
			continue
		}
		key := CategoryKey(t.Category)
		cs, ok := byKey[key]
		if !ok {
			cs = &CategorySpending{Name: DisplayName(key), TotalSpent: decimal.Zero}
			byKey[key] = cs
			order = append(order, key)
		}
		cs.TotalSpent = cs.TotalSpent.Add(t.Amount)
		cs.TransactionCount++
		grand = grand.Add(t.Amount)
	}

	result := make([]CategorySpending, 0, len(order))
	for _, key := range order {
		cs := byKey[key]
		cs.AverageTransaction = cs.TotalSpent.Div(decimal.NewFromInt(int64(cs.TransactionCount)))
		cs.PercentageOfTotal = decimal.Zero
		if grand.IsPositive() {
			cs.PercentageOfTotal = cs.TotalSpent.Div(grand).Mul(hundred)
		}
		if budget, ok := budgets[key]; ok && budget.Valid && budget.Decimal.IsPositive() {
			cs.MonthlyBudget = budget
			cs.PercentageOfBudget = decimal.NewNullDecimal(cs.TotalSpent.Div(budget.Decimal).Mul(hundred))
		}
		// With any history, a category absent from it was zero.
		base, hasBase := baseline[key]
		if !hasBase && len(baseline) > 0 {
			hasBase = true
		}
		cs.Trend, cs.Change = classifyTrend(cs.TotalSpent, base, hasBase, rules.TrendTolerance)
		cs.Anomalous = isAnomalous(cs, rules)
		result = append(result, *cs)
	}

	slices.SortFunc(result, func(a, b CategorySpending) int {
		if c := b.TotalSpent.Cmp(a.TotalSpent); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return result, nil
}

func classifyTrend(current, base decimal.Decimal, hasBase bool, tolerance decimal.Decimal) (Trend, decimal.NullDecimal) {
	if !hasBase {
		return TrendStable, decimal.NullDecimal{}
	}
	if base.IsZero() {
		if current.IsPositive() {
			return TrendUp, decimal.NullDecimal{}
		}
		return TrendStable, decimal.NewNullDecimal(decimal.Zero)
	}
	change := current.Sub(base).Div(base)
	switch {
	case change.Abs().LessThanOrEqual(tolerance):
		return TrendStable, decimal.NewNullDecimal(change)
	case change.IsPositive():
		return TrendUp, decimal.NewNullDecimal(change)
	default:
		return TrendDown, decimal.NewNullDecimal(change)
	}
}

func isAnomalous(cs *CategorySpending, rules SpendingRules) bool {
	if cs.PercentageOfBudget.Valid && cs.PercentageOfBudget.Decimal.GreaterThan(hundred) {
		return true
	}
	if cs.Trend != TrendUp {
		return false
	}
	// Spend appearing against a zero baseline has no finite change.
	if !cs.Change.Valid {
		return true
	}
	return cs.Change.Decimal.GreaterThan(rules.TrendTolerance.Mul(rules.AnomalyMultiple))
}

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMoneyAndPercent(t *testing.T) {
	assert.Equal(t, "1500.00", Money(d("1500")))
	assert.Equal(t, "-3.10", Money(d("-3.1")))
	assert.Equal(t, "33.3%", Percent(d("33.333")))
}

func TestBalanceSheet(t *testing.T) {
	accts := []model.Account{
		{ID: 1, Name: "Everyday", Type: model.AccountTypeChecking, CurrentBalance: d("2000"), Currency: "USD"},
		{ID: 2, Name: "Visa", Type: model.AccountTypeCreditCard, CurrentBalance: d("500"), Currency: "USD"},
	}
	out := BalanceSheet(metrics.NetWorth(accts), accts)

	assert.Contains(t, out, "Net Worth")
	assert.Contains(t, out, "Everyday")
	assert.Contains(t, out, "CREDIT_CARD")
	assert.Contains(t, out, "2000.00")
	assert.Contains(t, out, "1500.00")
	assert.NotContains(t, out, "without conversion")
}

func lineWith(t *testing.T, out, needle string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	t.Fatalf("no line contains %q in:\n%s", needle, out)
	return ""
}

func TestTable_CellsStayOnOneLine(t *testing.T) {
	accts := []model.Account{
		{ID: 1, Name: "Joint household checking account", Type: model.AccountTypeChecking, CurrentBalance: d("2000"), Currency: "USD"},
		{ID: 2, Name: "Visa", Type: model.AccountTypeCreditCard, CurrentBalance: d("500"), Currency: "USD"},
	}
	out := BalanceSheet(metrics.NetWorth(accts), accts)

	header := lineWith(t, out, "Account")
	assert.Contains(t, header, "Currency")
	assert.Contains(t, lineWith(t, out, "Visa"), "CREDIT_CARD")
	assert.Contains(t, lineWith(t, out, "Joint household checking account"), "2000.00")

	cols := []column{{title: "Frequency", width: 4}, {title: "Used", width: 3, right: true}}
	tbl := table(cols, [][]string{{"BIWEEKLY", "120.0%"}})
	lines := strings.Split(tbl, "\n")
	require.Len(t, lines, 3) // header, rule, row
	assert.Contains(t, lines[0], "Frequency")
	assert.Contains(t, lines[2], "BIWEEKLY")
	assert.Contains(t, lines[2], "120.0%")
}

func TestBalanceSheet_MixedCurrencies(t *testing.T) {
	accts := []model.Account{
		{ID: 1, Name: "Home", Type: model.AccountTypeChecking, CurrentBalance: d("10"), Currency: "USD"},
		{ID: 2, Name: "Away", Type: model.AccountTypeSavings, CurrentBalance: d("10"), Currency: "EUR"},
	}
	out := BalanceSheet(metrics.NetWorth(accts), accts)
	assert.Contains(t, out, "EUR, USD")
	assert.Contains(t, out, "without conversion")
}

func TestIncomeSources(t *testing.T) {
	sources := []model.IncomeSource{
		{
			ID: 1, Name: "Salary", Amount: d("2000"), Frequency: model.FrequencyBiweekly,
			StartDate:        time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
			LastReceivedDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		},
	}
	total, err := metrics.TotalIncome(sources, time.Time{})
	require.NoError(t, err)

	out, err := IncomeSources(sources, total, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, out, "Salary")
	assert.Contains(t, out, "BIWEEKLY")
	assert.Contains(t, out, "2025-03-28")
	assert.Contains(t, out, OverdueLabel)
	assert.Contains(t, lineWith(t, out, "Salary"), OverdueLabel)
	assert.Contains(t, out, "52000.00")
}

func TestIncomeSources_InvalidFrequency(t *testing.T) {
	sources := []model.IncomeSource{{ID: 1, Name: "Odd", Amount: d("10"), Frequency: "HOURLY"}}
	_, err := IncomeSources(sources, metrics.Equivalents{}, time.Now())
	assert.ErrorIs(t, err, metrics.ErrInvalidInput)
}

func TestSpending(t *testing.T) {
	totals := metrics.PeriodTotals{
		Income:         d("3000"),
		Expenses:       d("1200"),
		Balance:        d("1800"),
		SavingsPercent: d("60"),
	}
	breakdown := []metrics.CategorySpending{
		{
			Name: "Groceries", TotalSpent: d("1200"), TransactionCount: 3,
			AverageTransaction: d("400"), PercentageOfTotal: d("100"),
			MonthlyBudget:      decimal.NewNullDecimal(d("1000")),
			PercentageOfBudget: decimal.NewNullDecimal(d("120")),
			Trend:              metrics.TrendUp,
			Change:             decimal.NewNullDecimal(d("0.5")),
			Anomalous:          true,
		},
	}
	out := Spending("2025-01", totals, breakdown)
	assert.Contains(t, out, "Spending 2025-01")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "120.0%")
	assert.Contains(t, lineWith(t, out, "Groceries"), "120.0%")
	assert.Contains(t, lineWith(t, out, "Category"), "Count")
	assert.Contains(t, out, UpIcon+" 50%")
	assert.Contains(t, out, AnomalyIcon)
}

func TestSpending_Empty(t *testing.T) {
	out := Spending("2025-02", metrics.PeriodTotals{}, nil)
	assert.Contains(t, out, "No expenses recorded.")
}

func TestAlerts(t *testing.T) {
	alerts := []model.BudgetAlert{
		{ID: "high-expenses", Severity: model.SeverityCritical, Title: "High Expenses", Message: "Cut back.", Amount: decimal.NewNullDecimal(d("4500"))},
		{ID: "good-savings", Severity: model.SeveritySuccess, Title: "Great Savings", Message: "Keep going."},
	}
	out := Alerts(alerts)
	assert.Contains(t, out, ErrorIcon+" High Expenses")
	assert.Contains(t, out, "Amount: 4500.00")
	assert.Contains(t, out, SuccessIcon+" Great Savings")
	assert.Less(t, strings.Index(out, "High Expenses"), strings.Index(out, "Great Savings"))
}

func TestAlerts_None(t *testing.T) {
	assert.Equal(t, "No alerts.\n", Alerts(nil))
}

func TestTrendIcon(t *testing.T) {
	tests := []struct {
		trend metrics.Trend
		want  string
	}{
		{metrics.TrendUp, UpIcon},
		{metrics.TrendDown, DownIcon},
		{metrics.TrendStable, StableIcon},
	}
	for _, tt := range tests {
		t.Run(string(tt.trend), func(t *testing.T) {
			assert.Equal(t, tt.want, TrendIcon(tt.trend))
		})
	}
}

func TestBudgets(t *testing.T) {
	cats := []model.Category{
		{Name: "Housing", MonthlyBudget: decimal.NewNullDecimal(d("1500"))},
		{Name: "Dining Out", MonthlyBudget: decimal.NewNullDecimal(d("200"))},
		{Name: "Other"},
	}
	breakdown := []metrics.CategorySpending{
		{Name: "Dining Out", TotalSpent: d("250"), PercentageOfBudget: decimal.NewNullDecimal(d("125"))},
	}
	out := Budgets("2025-01", cats, breakdown)

	assert.Contains(t, out, "Budgets 2025-01")
	housing := lineWith(t, out, "Housing")
	assert.Contains(t, housing, "1500.00")
	assert.Contains(t, housing, "0.00")
	dining := lineWith(t, out, "Dining Out")
	assert.Contains(t, dining, "250.00")
	assert.Contains(t, dining, "125.0%")
	assert.Contains(t, lineWith(t, out, "Other"), "-")
	assert.Contains(t, lineWith(t, out, "Total budgeted"), "1700.00")

	assert.Contains(t, Budgets("2025-01", nil, nil), "No categories defined.")
}

func TestGoals(t *testing.T) {
	goals := []model.Goal{
		{ID: 1, Name: "Emergency fund", TargetAmount: d("3000"), CurrentAmount: d("750"),
			TargetDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Status: model.GoalInProgress},
		{ID: 2, Name: "Bike", TargetAmount: d("900"), CurrentAmount: d("900"), Status: model.GoalCompleted},
	}
	out, err := Goals(goals, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	fund := lineWith(t, out, "Emergency fund")
	assert.Contains(t, fund, "25.0%")
	assert.Contains(t, fund, "2025-03-01")
	assert.Contains(t, fund, OverdueLabel)
	bike := lineWith(t, out, "Bike")
	assert.Contains(t, bike, "100.0%")
	assert.Contains(t, bike, "COMPLETED")

	goals[0].TargetAmount = d("0")
	_, err = Goals(goals, time.Now())
	assert.ErrorIs(t, err, metrics.ErrInvalidInput)

	out, err = Goals(nil, time.Now())
	require.NoError(t, err)
	assert.Contains(t, out, "No goals yet.")
}

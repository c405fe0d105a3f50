package metrics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func alertIDs(alerts []model.BudgetAlert) []string {
	ids := make([]string, len(alerts))
	for i, a := range alerts {
		ids[i] = a.ID
	}
	return ids
}

func findAlert(alerts []model.BudgetAlert, id string) (model.BudgetAlert, bool) {
	for _, a := range alerts {
		if a.ID == id {
			return a, true
		}
	}
	return model.BudgetAlert{}, false
}

func TestGenerateAlerts_NegativeBalanceAndHighExpenses(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Balance:        dec("-50"),
		Income:         dec("2000"),
		Expenses:       dec("1800"),
		SavingsPercent: dec("10"),
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(alerts), DefaultAlertCap)
	assert.Equal(t, []string{AlertNegativeBalance, AlertHighExpenses}, alertIDs(alerts))

	neg := alerts[0]
	assert.Equal(t, model.SeverityCritical, neg.Severity)
	assert.Contains(t, neg.Message, "overdrawn by 50.00")
	require.True(t, neg.Amount.Valid)
	assert.True(t, neg.Amount.Decimal.Equal(dec("-50")))

	high := alerts[1]
	assert.Equal(t, model.SeverityCritical, high.Severity)
	assert.Contains(t, high.Message, "90.0%")
}

func TestGenerateAlerts_ExpenseRatioBands(t *testing.T) {
	tests := []struct {
		expenses string
		wantID   string
	}{
		{"1700", AlertHighExpenses},
		{"1601", AlertHighExpenses},
		{"1600", AlertModerateExpenses},
		{"1401", AlertModerateExpenses},
		{"1400", ""},
		{"0", ""},
	}
	for _, tt := range tests {
		alerts, err := GenerateAlerts(AlertInput{
			Income:         dec("2000"),
			Expenses:       dec(tt.expenses),
			SavingsPercent: dec("15"),
		}, DefaultAlertRules())
		require.NoError(t, err)

		_, high := findAlert(alerts, AlertHighExpenses)
		_, moderate := findAlert(alerts, AlertModerateExpenses)
		switch tt.wantID {
		case AlertHighExpenses:
			assert.True(t, high, "expenses %s", tt.expenses)
			assert.False(t, moderate, "expenses %s", tt.expenses)
		case AlertModerateExpenses:
			assert.False(t, high, "expenses %s", tt.expenses)
			assert.True(t, moderate, "expenses %s", tt.expenses)
		default:
			assert.False(t, high, "expenses %s", tt.expenses)
			assert.False(t, moderate, "expenses %s", tt.expenses)
		}
	}
}

func TestGenerateAlerts_ZeroIncome(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Balance:  dec("0"),
		Income:   dec("0"),
		Expenses: dec("500"),
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.Empty(t, alerts, "no ratio or savings alerts without income")
}

func TestGenerateAlerts_Savings(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Income:         dec("1000"),
		Expenses:       dec("600"),
		SavingsPercent: dec("5"),
	}, DefaultAlertRules())
	require.NoError(t, err)
	low, ok := findAlert(alerts, AlertLowSavings)
	require.True(t, ok)
	assert.Equal(t, model.SeverityWarning, low.Severity)
	assert.True(t, low.Amount.Decimal.Equal(dec("200")), "amount is the savings target")

	alerts, err = GenerateAlerts(AlertInput{
		Income:         dec("1000"),
		Expenses:       dec("600"),
		SavingsPercent: dec("20"),
	}, DefaultAlertRules())
	require.NoError(t, err)
	good, ok := findAlert(alerts, AlertGoodSavings)
	require.True(t, ok)
	assert.Equal(t, model.SeveritySuccess, good.Severity)
	assert.True(t, good.Amount.Decimal.Equal(dec("200")))
	_, ok = findAlert(alerts, AlertLowSavings)
	assert.False(t, ok)
}

func TestGenerateAlerts_CategoryLimits(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Income:         dec("4000"),
		Expenses:       dec("2000"),
		SavingsPercent: dec("15"),
		Breakdown: []CategoryAmount{
			{Name: "Housing", Value: dec("1000")},
			{Name: "Dining Out", Value: dec("400")},
			{Name: "Groceries", Value: dec("600")},
		},
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.Equal(t, []string{"high-housing", "high-dining-out"}, alertIDs(alerts))

	housing := alerts[0]
	assert.Equal(t, model.SeverityWarning, housing.Severity)
	assert.Equal(t, "Housing", housing.Category)
	assert.Contains(t, housing.Message, "50.0% of expenses on housing")

	dining := alerts[1]
	assert.Equal(t, model.SeverityInfo, dining.Severity)
	assert.True(t, dining.Amount.Decimal.Equal(dec("400")))
}

func TestGenerateAlerts_CategoryAtLimitIsQuiet(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Income:         dec("4000"),
		Expenses:       dec("1000"),
		SavingsPercent: dec("15"),
		Breakdown: []CategoryAmount{
			{Name: "housing", Value: dec("300")},
			{Name: "dinner parties", Value: dec("150")},
		},
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestGenerateAlerts_CategoryWithoutExpenses(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Income:         dec("1000"),
		SavingsPercent: dec("15"),
		Breakdown:      []CategoryAmount{{Name: "Housing", Value: dec("100")}},
	}, DefaultAlertRules())
	require.NoError(t, err)
	_, ok := findAlert(alerts, "high-housing")
	assert.False(t, ok, "share is zero when total expenses are zero")
}

func TestGenerateAlerts_DeduplicatesByID(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Income:         dec("4000"),
		Expenses:       dec("1000"),
		SavingsPercent: dec("15"),
		Breakdown: []CategoryAmount{
			{Name: "Housing", Value: dec("400")},
			{Name: "HOUSING", Value: dec("350")},
			{Name: "Housing Dining", Value: dec("200")},
		},
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.Equal(t, []string{"high-housing", "high-housing-dining"}, alertIDs(alerts))
	assert.True(t, alerts[0].Amount.Decimal.Equal(dec("400")), "first occurrence wins")
}

func TestGenerateAlerts_HealthyBalance(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Balance:        dec("1500"),
		Income:         dec("2000"),
		Expenses:       dec("500"),
		SavingsPercent: dec("15"),
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.Equal(t, []string{AlertHealthyBalance}, alertIDs(alerts))

	alerts, err = GenerateAlerts(AlertInput{
		Balance:        dec("1000"),
		Income:         dec("2000"),
		Expenses:       dec("500"),
		SavingsPercent: dec("15"),
	}, DefaultAlertRules())
	require.NoError(t, err)
	assert.Empty(t, alerts, "balance equal to half of income is not praised")
}

func TestGenerateAlerts_CapKeepsRuleOrder(t *testing.T) {
	in := AlertInput{
		Balance:        dec("-100"),
		Income:         dec("1000"),
		Expenses:       dec("900"),
		SavingsPercent: dec("2"),
		Breakdown: []CategoryAmount{
			{Name: "Housing", Value: dec("400")},
			{Name: "Dining", Value: dec("200")},
			{Name: "Housing Extra", Value: dec("300")},
			{Name: "Dining Late", Value: dec("150")},
			{Name: "Dinner", Value: dec("150")},
		},
	}
	alerts, err := GenerateAlerts(in, DefaultAlertRules())
	require.NoError(t, err)
	assert.Equal(t, []string{
		AlertNegativeBalance,
		AlertHighExpenses,
		AlertLowSavings,
		"high-housing",
		"high-dining",
		"high-housing-extra",
	}, alertIDs(alerts))

	rules := DefaultAlertRules()
	rules.Cap = 2
	alerts, err = GenerateAlerts(in, rules)
	require.NoError(t, err)
	assert.Equal(t, []string{AlertNegativeBalance, AlertHighExpenses}, alertIDs(alerts))
}

func TestGenerateAlerts_NeverExceedsCapOrRepeats(t *testing.T) {
	var breakdown []CategoryAmount
	for _, name := range []string{"Housing", "housing", "Dining", "Rehousing", "Dinner", "Din", "Houseboat"} {
		breakdown = append(breakdown, CategoryAmount{Name: name, Value: dec("500")})
	}
	for _, balance := range []string{"-1000", "0", "5000"} {
		alerts, err := GenerateAlerts(AlertInput{
			Balance:        dec(balance),
			Income:         dec("1000"),
			Expenses:       dec("1000"),
			SavingsPercent: decimal.Zero,
			Breakdown:      breakdown,
		}, DefaultAlertRules())
		require.NoError(t, err)
		assert.LessOrEqual(t, len(alerts), DefaultAlertCap)

		seen := make(map[string]bool)
		for _, a := range alerts {
			assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
			seen[a.ID] = true
		}
	}
}

func TestGenerateAlerts_InvalidInput(t *testing.T) {
	_, err := GenerateAlerts(AlertInput{Income: dec("-1")}, DefaultAlertRules())
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = GenerateAlerts(AlertInput{Expenses: dec("-1")}, DefaultAlertRules())
	assert.ErrorIs(t, err, ErrInvalidInput)

	rules := DefaultAlertRules()
	rules.Cap = 0
	_, err = GenerateAlerts(AlertInput{}, rules)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateAlerts_HousingScenario(t *testing.T) {
	alerts, err := GenerateAlerts(AlertInput{
		Income:         dec("5000"),
		Expenses:       dec("2000"),
		SavingsPercent: dec("15"),
		Breakdown:      []CategoryAmount{{Name: "Housing", Value: dec("1000")}},
	}, DefaultAlertRules())
	require.NoError(t, err)
	a, ok := findAlert(alerts, "high-housing")
	require.True(t, ok)
	assert.Equal(t, model.SeverityWarning, a.Severity)
}

package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// PeriodTotals summarizes cash flow over one period of transactions.
type PeriodTotals struct {
	Income         decimal.Decimal
	Expenses       decimal.Decimal
	Balance        decimal.Decimal // Income - Expenses
	SavingsPercent decimal.Decimal // 100 * Balance / Income, zero without income
}

// Totals adds up income and expense transactions.
func Totals(txns []model.Transaction) (PeriodTotals, error) {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range txns {
		if t.Amount.IsNegative() {
			return PeriodTotals{}, invalidf("transaction %s has negative amount %s", t.ID, t.Amount)
		}
		switch t.Type {
		case model.TransactionIncome:
			income = income.Add(t.Amount)
		case model.TransactionExpense:
			expenses = expenses.Add(t.Amount)
		default:
			return PeriodTotals{}, invalidf("transaction %s has unknown type %q", t.ID, t.Type)
		}
	}

	balance := income.Sub(expenses)
	savings := decimal.Zero
	if income.IsPositive() {
		savings = balance.Div(income).Mul(hundred)
	}
	return PeriodTotals{
		Income:         income,
		Expenses:       expenses,
		Balance:        balance,
		SavingsPercent: savings,
	}, nil
}

// AlertInput prepares the period for GenerateAlerts, keeping the
// breakdown in the order given.
func (p PeriodTotals) AlertInput(breakdown []CategorySpending) AlertInput {
	cats := make([]CategoryAmount, len(breakdown))
	for i, cs := range breakdown {
		cats[i] = CategoryAmount{Name: cs.Name, Value: cs.TotalSpent}
	}
	return AlertInput{
		Balance:        p.Balance,
		Income:         p.Income,
		Expenses:       p.Expenses,
		SavingsPercent: p.SavingsPercent,
		Breakdown:      cats,
	}
}

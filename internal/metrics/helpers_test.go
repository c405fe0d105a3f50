package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func expense(category, amount string) model.Transaction {
	return model.Transaction{Type: model.TransactionExpense, Category: category, Amount: dec(amount), Date: date(2025, 1, 15)}
}

func income(amount string) model.Transaction {
	return model.Transaction{Type: model.TransactionIncome, Category: "Salary", Amount: dec(amount), Date: date(2025, 1, 1)}
}

package ledger

import (
	"fmt"
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

func txn(seq int, amount string) model.Transaction {
	return model.Transaction{
		ID:       fmt.Sprintf("2025-01-%03d", seq),
		Date:     date(2025, 1, 15),
		Type:     model.TransactionExpense,
		Amount:   dec(amount),
		Category: "Groceries",
	}
}

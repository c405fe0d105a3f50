package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType separates money coming in from money going out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// ParseTransactionType accepts any casing of INCOME or EXPENSE.
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case TransactionIncome, TransactionExpense:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Transaction is a single row in a month's transactions.csv.
type Transaction struct {
	ID          string // "YYYY-MM-NNN"
	Date        time.Time
	Type        TransactionType
	Amount      decimal.Decimal // always non-negative; Type carries the direction
	Category    string          // free text, compared case-insensitively
	Description string
}

// BankTransaction is one line of a bank export, before it enters the ledger.
type BankTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = expense, positive = income
	Type        string          // bank transaction type (ACH_DEBIT, etc.)
}

package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// Rule names reported in ValidationError.
const (
	RuleAmount = "amount"
	RuleType   = "type"
	RuleDate   = "date"
	RuleID     = "id"
)

// ValidationError describes a single rule violation in a month's transactions.
type ValidationError struct {
	Rule          string
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.TransactionID, e.Description)
}

var cents = decimal.NewFromInt(100)

// ValidateTransactions checks one month's transactions: positive amounts in
// whole cents, a known type, dates inside the month, and unique IDs numbered
// 1..N for that month.
func ValidateTransactions(txns []model.Transaction, year, month int) []ValidationError {
	var errs []ValidationError

	for _, txn := range txns {
		if !txn.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Rule:          RuleAmount,
				TransactionID: txn.ID,
				Description:   fmt.Sprintf("amount %s must be positive", txn.Amount),
			})
		} else if scaled := txn.Amount.Mul(cents); !scaled.Equal(scaled.Floor()) {
			errs = append(errs, ValidationError{
				Rule:          RuleAmount,
				TransactionID: txn.ID,
				Description:   fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}

		if txn.Type != model.TransactionIncome && txn.Type != model.TransactionExpense {
			errs = append(errs, ValidationError{
				Rule:          RuleType,
				TransactionID: txn.ID,
				Description:   fmt.Sprintf("unknown type %q", txn.Type),
			})
		}

		if txn.Date.Year() != year || int(txn.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Rule:          RuleDate,
				TransactionID: txn.ID,
				Description:   fmt.Sprintf("date %s not in %04d-%02d", txn.Date.Format(dateFormat), year, month),
			})
		}
	}

	seqSeen := make(map[int]bool)
	for _, txn := range txns {
		y, m, seq, err := id.ParseTransactionID(txn.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Rule:          RuleID,
				TransactionID: txn.ID,
				Description:   fmt.Sprintf("invalid transaction ID: %v", err),
			})
			continue
		}
		if y != year || m != month {
			errs = append(errs, ValidationError{
				Rule:          RuleID,
				TransactionID: txn.ID,
				Description:   fmt.Sprintf("ID belongs to %04d-%02d", y, m),
			})
		}
		if seqSeen[seq] {
			errs = append(errs, ValidationError{
				Rule:          RuleID,
				TransactionID: txn.ID,
				Description:   "duplicate transaction ID",
			})
		}
		seqSeen[seq] = true
	}
	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Rule:          RuleID,
				TransactionID: fmt.Sprintf("seq %d", i),
				Description:   fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}

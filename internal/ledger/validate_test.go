package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func hasRule(errs []ValidationError, rule string) bool {
	for _, e := range errs {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidate_Valid(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{txn(1, "10.00"), txn(2, "0.01")}, 2025, 1)
	assert.Empty(t, errs)
}

func TestValidate_Amount(t *testing.T) {
	for _, amount := range []string{"0", "-5.00", "1.005"} {
		errs := ValidateTransactions([]model.Transaction{txn(1, amount)}, 2025, 1)
		require.NotEmpty(t, errs, "amount %s", amount)
		assert.Equal(t, RuleAmount, errs[0].Rule)
	}
}

func TestValidate_Type(t *testing.T) {
	bad := txn(1, "10.00")
	bad.Type = "TRANSFER"
	errs := ValidateTransactions([]model.Transaction{bad}, 2025, 1)
	assert.True(t, hasRule(errs, RuleType))
}

func TestValidate_WrongMonth(t *testing.T) {
	bad := txn(1, "10.00")
	bad.Date = date(2025, 2, 1)
	errs := ValidateTransactions([]model.Transaction{bad}, 2025, 1)
	assert.True(t, hasRule(errs, RuleDate))
}

func TestValidate_IDs(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{txn(1, "1"), txn(1, "2")}, 2025, 1)
	assert.True(t, hasRule(errs, RuleID), "duplicate")

	errs = ValidateTransactions([]model.Transaction{txn(1, "1"), txn(3, "2")}, 2025, 1)
	assert.True(t, hasRule(errs, RuleID), "gap")

	bad := txn(1, "1")
	bad.ID = "garbage"
	errs = ValidateTransactions([]model.Transaction{bad}, 2025, 1)
	assert.True(t, hasRule(errs, RuleID), "unparseable")

	other := txn(1, "1")
	other.ID = "2024-12-001"
	errs = ValidateTransactions([]model.Transaction{other}, 2025, 1)
	assert.True(t, hasRule(errs, RuleID), "wrong month prefix")
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Rule: RuleAmount, TransactionID: "2025-01-001", Description: "amount 0 must be positive"}
	assert.Equal(t, "amount [2025-01-001]: amount 0 must be positive", e.Error())
}

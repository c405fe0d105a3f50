package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestTransactionsRoundTrip(t *testing.T) {
	txns := []model.Transaction{
		{ID: "2025-01-001", Date: date(2025, 1, 3), Type: model.TransactionIncome, Amount: dec("3000"), Category: "Salary", Description: "January pay"},
		{ID: "2025-01-002", Date: date(2025, 1, 5), Type: model.TransactionExpense, Amount: dec("12.5"), Category: "Dining", Description: "Lunch, with \"quotes\""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, txns[0].ID, got[0].ID)
	assert.Equal(t, txns[0].Date, got[0].Date)
	assert.Equal(t, model.TransactionIncome, got[0].Type)
	assert.True(t, got[1].Amount.Equal(dec("12.50")))
	assert.Equal(t, "Lunch, with \"quotes\"", got[1].Description)
}

func TestMarshalTransaction(t *testing.T) {
	row := MarshalTransaction(model.Transaction{
		ID: "2025-02-007", Date: date(2025, 2, 14), Type: model.TransactionExpense,
		Amount: dec("40"), Category: "Gifts", Description: "Flowers",
	})
	assert.Equal(t, []string{"2025-02-007", "2025-02-14", "EXPENSE", "40.00", "Gifts", "Flowers"}, row)
}

func TestUnmarshalTransaction_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
	}{
		{"short row", []string{"2025-01-001", "2025-01-01"}},
		{"bad date", []string{"2025-01-001", "01/01/2025", "EXPENSE", "1.00", "", ""}},
		{"bad type", []string{"2025-01-001", "2025-01-01", "REFUND", "1.00", "", ""}},
		{"bad amount", []string{"2025-01-001", "2025-01-01", "EXPENSE", "one", "", ""}},
	}
	for _, tt := range tests {
		_, err := UnmarshalTransaction(tt.record)
		assert.Error(t, err, tt.name)
	}
}

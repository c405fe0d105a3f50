package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{ID: 1, Name: "Everyday Checking", Type: model.AccountTypeChecking, CurrentBalance: decimal.RequireFromString("1250.40"), Currency: "USD"},
		{ID: 2, Name: "Visa", Type: model.AccountTypeCreditCard, CurrentBalance: decimal.RequireFromString("310.05"), Currency: "USD"},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, accounts[0].ID, got[0].ID)
	assert.Equal(t, accounts[0].Name, got[0].Name)
	assert.Equal(t, accounts[0].Type, got[0].Type)
	assert.True(t, accounts[0].CurrentBalance.Equal(got[0].CurrentBalance))
	assert.Equal(t, "USD", got[0].Currency)

	assert.Equal(t, model.AccountTypeCreditCard, got[1].Type)
	assert.Equal(t, "310.05", got[1].CurrentBalance.StringFixed(2))
}

func TestReadAccounts_LowercaseTypeAndBlankBalance(t *testing.T) {
	input := "account_id,name,type,current_balance,currency\n" +
		"7,Brokerage,investment,,USD\n"

	got, err := ReadAccounts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AccountTypeInvestment, got[0].Type)
	assert.True(t, got[0].CurrentBalance.IsZero())
}

func TestReadAccounts_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad id", "h1,h2,h3,h4,h5\nx,Checking,CHECKING,10,USD\n"},
		{"bad type", "h1,h2,h3,h4,h5\n1,Checking,PIGGY_BANK,10,USD\n"},
		{"bad balance", "h1,h2,h3,h4,h5\n1,Checking,CHECKING,ten,USD\n"},
		{"wrong field count", "h1,h2,h3,h4,h5\n1,Checking,CHECKING\n"},
	}
	for _, tt := range tests {
		_, err := ReadAccounts(strings.NewReader(tt.input))
		assert.Error(t, err, tt.name)
	}
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

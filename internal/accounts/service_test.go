package accounts

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func sampleAccounts() []model.Account {
	return []model.Account{
		{ID: 1, Name: "Checking", Type: model.AccountTypeChecking, CurrentBalance: decimal.NewFromInt(1000), Currency: "USD"},
		{ID: 2, Name: "Savings", Type: model.AccountTypeSavings, CurrentBalance: decimal.NewFromInt(4000), Currency: "USD"},
		{ID: 3, Name: "Visa", Type: model.AccountTypeCreditCard, CurrentBalance: decimal.NewFromInt(300), Currency: "USD"},
		{ID: 4, Name: "Car Loan", Type: model.AccountTypeLoan, CurrentBalance: decimal.NewFromInt(8000), Currency: "USD"},
	}
}

func TestNewService(t *testing.T) {
	svc := NewService(sampleAccounts())
	assert.Len(t, svc.All(), 4)
}

func TestGet(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, ok := svc.Get(2)
	assert.True(t, ok)
	assert.Equal(t, "Savings", acct.Name)

	_, ok = svc.Get(99)
	assert.False(t, ok)
}

func TestByType(t *testing.T) {
	svc := NewService(sampleAccounts())

	cards := svc.ByType(model.AccountTypeCreditCard)
	require.Len(t, cards, 1)
	assert.Equal(t, "Visa", cards[0].Name)

	assert.Empty(t, svc.ByType(model.AccountTypeInvestment))
}

func TestBalanceSheet(t *testing.T) {
	bs := NewService(sampleAccounts()).BalanceSheet()
	assert.Equal(t, "5000.00", bs.TotalAssets.StringFixed(2))
	assert.Equal(t, "8300.00", bs.TotalLiabilities.StringFixed(2))
	assert.Equal(t, "-3300.00", bs.NetWorth.StringFixed(2))
}

func TestSaveRoundTrip(t *testing.T) {
	accts := sampleAccounts()
	svc := NewService(accts)

	dir := t.TempDir()
	err := svc.Save(dir)
	require.NoError(t, err)

	_, err = os.Stat(Path(dir))
	require.NoError(t, err)

	svc2, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc2.All(), len(accts))

	for _, orig := range accts {
		got, ok := svc2.Get(orig.ID)
		require.True(t, ok, "account %d should exist", orig.ID)
		assert.Equal(t, orig.Name, got.Name)
		assert.Equal(t, orig.Type, got.Type)
		assert.True(t, orig.CurrentBalance.Equal(got.CurrentBalance))
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAdd(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, err := svc.Add(NewAccount{Name: " Brokerage ", Type: model.AccountTypeInvestment, Balance: decimal.NewFromInt(250), Currency: "usd"})
	require.NoError(t, err)
	assert.Equal(t, 5, acct.ID)
	assert.Equal(t, "Brokerage", acct.Name)
	assert.Equal(t, "USD", acct.Currency)

	got, ok := svc.Get(5)
	require.True(t, ok)
	assert.Equal(t, "Brokerage", got.Name)
	assert.Len(t, svc.ByType(model.AccountTypeInvestment), 1)
	assert.Equal(t, "5250.00", svc.BalanceSheet().TotalAssets.StringFixed(2))
}

func TestAdd_FirstAccount(t *testing.T) {
	acct, err := NewService(nil).Add(NewAccount{Name: "Checking", Type: model.AccountTypeChecking, Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, 1, acct.ID)
}

func TestAdd_Rejects(t *testing.T) {
	tests := []struct {
		name string
		p    NewAccount
	}{
		{"blank name", NewAccount{Name: "  ", Type: model.AccountTypeChecking, Currency: "USD"}},
		{"duplicate name", NewAccount{Name: "visa", Type: model.AccountTypeCreditCard, Currency: "USD"}},
		{"bad type", NewAccount{Name: "Cash", Type: "WALLET", Currency: "USD"}},
		{"bad currency", NewAccount{Name: "Cash", Type: model.AccountTypeOther, Currency: "DOLLARS"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(sampleAccounts())
			_, err := svc.Add(tt.p)
			assert.Error(t, err)
			assert.Len(t, svc.All(), 4)
		})
	}
}

func TestSetBalance(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, err := svc.SetBalance(3, decimal.NewFromInt(1200))
	require.NoError(t, err)
	assert.Equal(t, "Visa", acct.Name)

	got, _ := svc.Get(3)
	assert.True(t, got.CurrentBalance.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "9200.00", svc.BalanceSheet().TotalLiabilities.StringFixed(2))

	_, err = svc.SetBalance(99, decimal.Zero)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	svc := NewService(sampleAccounts())

	acct, err := svc.Remove(4)
	require.NoError(t, err)
	assert.Equal(t, "Car Loan", acct.Name)
	assert.Len(t, svc.All(), 3)
	_, ok := svc.Get(4)
	assert.False(t, ok)
	assert.Empty(t, svc.ByType(model.AccountTypeLoan))

	_, err = svc.Remove(4)
	assert.ErrorIs(t, err, ErrNotFound)
}

package metrics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// BalanceSheet partitions account balances into what is held and what is owed.
type BalanceSheet struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	Currencies       []string // distinct, sorted; balances are not converted
}

// NetWorth sums account balances by type. Liability balances are taken as
// the raw outstanding amount and subtracted from assets.
func NetWorth(accounts []model.Account) BalanceSheet {
	assets := decimal.Zero
	liabilities := decimal.Zero
	var currencies []string

	for _, a := range accounts {
		switch {
		case !slices.Contains(model.AccountTypes, a.Type):
			continue
		case a.Type.IsLiability():
			liabilities = liabilities.Add(a.CurrentBalance)
		default:
			assets = assets.Add(a.CurrentBalance)
		}
		if a.Currency != "" && !slices.Contains(currencies, a.Currency) {
			currencies = append(currencies, a.Currency)
		}
	}
	slices.Sort(currencies)

	return BalanceSheet{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
		Currencies:       currencies,
	}
}

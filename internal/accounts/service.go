package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

// ErrNotFound is returned when no account has the requested ID.
var ErrNotFound = errors.New("account not found")

// Service provides lookup and edits over a user's accounts. Edits stay in
// memory until Save.
type Service struct {
	accounts []model.Account
	byID     map[int]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	s := &Service{accounts: accounts}
	s.index()
	return s
}

func (s *Service) index() {
	s.byID = make(map[int]model.Account, len(s.accounts))
	for _, a := range s.accounts {
		s.byID[a.ID] = a
	}
}

// Path returns the location of accounts.csv under a workspace root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "accounts.csv")
}

// Load reads accounts/accounts.csv from a workspace root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// NewAccount holds the fields of an account to open. The ID is assigned on add.
type NewAccount struct {
	Name     string
	Type     model.AccountType
	Balance  decimal.Decimal
	Currency string
}

// Add opens an account with the next free ID. Names must be unique,
// ignoring case.
func (s *Service) Add(p NewAccount) (model.Account, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return model.Account{}, fmt.Errorf("account name is required")
	}
	for _, a := range s.accounts {
		if strings.EqualFold(a.Name, name) {
			return model.Account{}, fmt.Errorf("account %q already exists as #%d", name, a.ID)
		}
	}
	typ, err := model.ParseAccountType(string(p.Type))
	if err != nil {
		return model.Account{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if len(currency) != 3 {
		return model.Account{}, fmt.Errorf("currency %q must be a three-letter code", p.Currency)
	}

	next := 1
	for _, a := range s.accounts {
		next = max(next, a.ID+1)
	}
	acct := model.Account{
		ID:             next,
		Name:           name,
		Type:           typ,
		CurrentBalance: p.Balance,
		Currency:       currency,
	}
	s.accounts = append(s.accounts, acct)
	s.byID[acct.ID] = acct
	return acct, nil
}

// SetBalance replaces an account's current balance.
func (s *Service) SetBalance(id int, balance decimal.Decimal) (model.Account, error) {
	i := slices.IndexFunc(s.accounts, func(a model.Account) bool { return a.ID == id })
	if i < 0 {
		return model.Account{}, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	s.accounts[i].CurrentBalance = balance
	s.byID[id] = s.accounts[i]
	return s.accounts[i], nil
}

// Remove closes an account.
func (s *Service) Remove(id int) (model.Account, error) {
	acct, ok := s.Get(id)
	if !ok {
		return model.Account{}, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	s.accounts = slices.DeleteFunc(s.accounts, func(a model.Account) bool { return a.ID == id })
	s.index()
	return acct, nil
}

// BalanceSheet totals assets and liabilities across every account.
func (s *Service) BalanceSheet() metrics.BalanceSheet {
	return metrics.NetWorth(s.accounts)
}

// Save writes the accounts to accounts/accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

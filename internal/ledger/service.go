package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// Service stores transactions as one CSV file per month under ledger/YYYY/MM/.
type Service struct {
	repoRoot string
}

// NewService creates a ledger Service rooted at a workspace directory.
func NewService(repoRoot string) *Service {
	return &Service{repoRoot: repoRoot}
}

// AddParams holds the fields of a new transaction. The ID is assigned on add.
type AddParams struct {
	Date        time.Time
	Type        model.TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
}

// Add validates a transaction, appends it to its month's transactions.csv,
// and returns its ID.
func (s *Service) Add(params AddParams) (string, error) {
	ids, err := s.AddBatch([]AddParams{params})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddBatch adds transactions that may span several months. Either every
// month validates and is written, or nothing is written.
func (s *Service) AddBatch(batch []AddParams) ([]string, error) {
	type monthKey struct{ year, month int }

	ids := make([]string, len(batch))
	pending := make(map[monthKey][]model.Transaction)
	existing := make(map[monthKey][]model.Transaction)
	nextSeq := make(map[monthKey]int)
	var order []monthKey

	for i, p := range batch {
		key := monthKey{p.Date.Year(), int(p.Date.Month())}
		if _, ok := nextSeq[key]; !ok {
			txns, err := s.ReadMonth(key.year, key.month)
			if err != nil {
				return nil, err
			}
			existing[key] = txns
			nextSeq[key] = maxSeq(txns) + 1
			order = append(order, key)
		}

		txnID := id.FormatTransactionID(key.year, key.month, nextSeq[key])
		nextSeq[key]++
		ids[i] = txnID
		pending[key] = append(pending[key], model.Transaction{
			ID:          txnID,
			Date:        p.Date,
			Type:        p.Type,
			Amount:      p.Amount,
			Category:    strings.TrimSpace(p.Category),
			Description: p.Description,
		})
	}

	// Validate every touched month before writing any of them.
	for _, key := range order {
		all := append(slices.Clone(existing[key]), pending[key]...)
		if verrs := ValidateTransactions(all, key.year, key.month); len(verrs) > 0 {
			msgs := make([]string, len(verrs))
			for i, ve := range verrs {
				msgs[i] = ve.Error()
			}
			return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
		}
	}

	for _, key := range order {
		if err := s.appendMonth(key.year, key.month, pending[key]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Service) appendMonth(year, month int, txns []model.Transaction) error {
	path := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if err := WriteTransactions(f, txns); err != nil {
			return fmt.Errorf("writing transactions: %w", err)
		}
		return nil
	}
	if err := AppendTransactions(f, txns); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return txns, nil
}

// ReadPrevious returns the n months before year/month, oldest first.
// Months with no ledger file come back empty.
func (s *Service) ReadPrevious(year, month, n int) ([][]model.Transaction, error) {
	periods := make([][]model.Transaction, 0, n)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	for i := 0; i < n; i++ {
		m := start.AddDate(0, i, 0)
		txns, err := s.ReadMonth(m.Year(), int(m.Month()))
		if err != nil {
			return nil, err
		}
		periods = append(periods, txns)
	}
	return periods, nil
}

func maxSeq(txns []model.Transaction) int {
	highest := 0
	for _, txn := range txns {
		_, _, seq, err := id.ParseTransactionID(txn.ID)
		if err != nil {
			continue
		}
		if seq > highest {
			highest = seq
		}
	}
	return highest
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, "ledger", fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "transactions.csv")
}

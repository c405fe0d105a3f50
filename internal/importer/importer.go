package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

// IncomeCategory is assigned to every deposit.
const IncomeCategory = "Income"

// Parser converts a bank CSV file into BankTransactions.
type Parser interface {
	Parse(r io.Reader) ([]model.BankTransaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a bank export waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&OFXParser{})
	return r
}

// byExtension picks a parser when no format is given.
var byExtension = map[string]string{
	".csv": "chase",
	".ofx": "ofx",
	".qfx": "ofx",
}

// ForFile returns the parser for format, or when format is empty the one
// implied by the file's extension. It returns nil when nothing matches.
func (r *Registry) ForFile(name, format string) Parser {
	if format != "" {
		return r.Get(format)
	}
	return r.Get(byExtension[strings.ToLower(filepath.Ext(name))])
}

// Convert turns bank rows into ledger entries. Negative amounts become
// expenses, positive amounts income, and zero rows are dropped. An expense
// whose description mentions a known category name is filed under it;
// otherwise it is Uncategorized.
func Convert(rows []model.BankTransaction, categories []model.Category) []ledger.AddParams {
	var out []ledger.AddParams
	for _, row := range rows {
		if row.Amount.IsZero() {
			continue
		}
		p := ledger.AddParams{
			Date:        row.Date,
			Amount:      row.Amount.Abs(),
			Description: row.Description,
		}
		if row.Amount.IsPositive() {
			p.Type = model.TransactionIncome
			p.Category = IncomeCategory
		} else {
			p.Type = model.TransactionExpense
			p.Category = categorize(row.Description, categories)
		}
		out = append(out, p)
	}
	return out
}

func categorize(description string, categories []model.Category) string {
	desc := strings.ToLower(description)
	for _, c := range categories {
		if c.Name != "" && strings.Contains(desc, strings.ToLower(c.Name)) {
			return c.Name
		}
	}
	return metrics.Uncategorized
}

// importDir is the subdirectory for bank exports awaiting import.
const importDir = "import"

// processedDir is the subdirectory for bank exports already imported.
const processedDir = "import/processed"

// Scan returns bank exports (.csv, .ofx, .qfx) in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if _, ok := byExtension[strings.ToLower(filepath.Ext(e.Name()))]; e.IsDir() || !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// ParseFile opens a bank export and runs it through p.
func ParseFile(p Parser, path string) ([]model.BankTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	rows, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

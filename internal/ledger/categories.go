package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

// CategoriesHeader is the CSV header for categories.csv.
var CategoriesHeader = []string{"name", "monthly_budget"}

// maxTypoDistance is how many edits a typed category may be from a known one.
// Names shorter than minFuzzyLen must match exactly.
const (
	maxTypoDistance = 2
	minFuzzyLen     = 4
)

// DefaultCategories returns the categories a new workspace starts with.
// None carry a budget.
func DefaultCategories() []model.Category {
	names := []string{
		"Housing", "Groceries", "Transportation", "Utilities", "Dining Out",
		"Entertainment", "Healthcare", "Shopping", "Subscriptions", "Savings", "Other",
	}
	cats := make([]model.Category, len(names))
	for i, n := range names {
		cats[i] = model.Category{Name: n}
	}
	return cats
}

// CategoriesPath returns the location of categories.csv under a workspace root.
func CategoriesPath(repoRoot string) string {
	return filepath.Join(repoRoot, "categories", "categories.csv")
}

// LoadCategories reads a workspace's categories. A missing file means none.
func LoadCategories(repoRoot string) ([]model.Category, error) {
	f, err := os.Open(CategoriesPath(repoRoot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	return ReadCategories(f)
}

// SaveCategories replaces a workspace's categories.csv.
func SaveCategories(repoRoot string, cats []model.Category) error {
	path := CategoriesPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating categories dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	return WriteCategories(f, cats)
}

// ReadCategories reads categories.csv. A blank budget means none is set.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CategoriesHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var cats []model.Category
	for i, rec := range records[1:] {
		c := model.Category{Name: strings.TrimSpace(rec[0])}
		if rec[1] != "" {
			budget, err := decimal.NewFromString(rec[1])
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing monthly_budget %q: %w", i+2, rec[1], err)
			}
			if budget.IsNegative() {
				return nil, fmt.Errorf("row %d: monthly_budget %s must not be negative", i+2, budget)
			}
			c.MonthlyBudget = decimal.NewNullDecimal(budget)
		}
		cats = append(cats, c)
	}
	return cats, nil
}

// WriteCategories writes categories.csv including the header.
func WriteCategories(w io.Writer, cats []model.Category) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CategoriesHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, c := range cats {
		budget := ""
		if c.MonthlyBudget.Valid {
			budget = c.MonthlyBudget.Decimal.StringFixed(2)
		}
		if err := cw.Write([]string{c.Name, budget}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SetBudget sets a category's monthly budget, adding the category when none
// matches name ignoring case. An invalid budget clears it.
func SetBudget(cats []model.Category, name string, budget decimal.NullDecimal) ([]model.Category, model.Category, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return cats, model.Category{}, fmt.Errorf("category name is required")
	}
	if budget.Valid && budget.Decimal.IsNegative() {
		return cats, model.Category{}, fmt.Errorf("budget %s must not be negative", budget.Decimal)
	}

	out := slices.Clone(cats)
	key := metrics.CategoryKey(name)
	for i, c := range out {
		if metrics.CategoryKey(c.Name) == key {
			out[i].MonthlyBudget = budget
			return out, out[i], nil
		}
	}
	if !budget.Valid {
		return cats, model.Category{}, fmt.Errorf("no category named %q", name)
	}
	c := model.Category{Name: name, MonthlyBudget: budget}
	return append(out, c), c, nil
}

// MatchCategory resolves a typed category name against known categories,
// forgiving case and small typos. It returns the known name and true on a
// match, or the input unchanged and false.
func MatchCategory(input string, known []model.Category) (string, bool) {
	typed := strings.ToLower(strings.TrimSpace(input))
	if typed == "" {
		return input, false
	}

	fuzzy := len([]rune(typed)) >= minFuzzyLen
	best := ""
	bestDist := maxTypoDistance + 1
	for _, c := range known {
		name := strings.ToLower(c.Name)
		if name == typed {
			return c.Name, true
		}
		if !fuzzy {
			continue
		}
		if d := levenshtein.ComputeDistance(typed, name); d < bestDist {
			best, bestDist = c.Name, d
		}
	}
	if best == "" {
		return input, false
	}
	return best, true
}

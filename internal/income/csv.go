package income

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header for income-sources.csv.
var Header = []string{"source_id", "name", "amount", "frequency", "start_date", "end_date", "last_received_date"}

const (
	numFields       = 7
	dateFormat      = "2006-01-02"
	colID           = 0
	colName         = 1
	colAmount       = 2
	colFrequency    = 3
	colStart        = 4
	colEnd          = 5
	colLastReceived = 6
)

// Path returns the location of income-sources.csv under a workspace root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "income", "income-sources.csv")
}

// Load reads every income source in a workspace. A missing file means no sources.
func Load(repoRoot string) ([]model.IncomeSource, error) {
	f, err := os.Open(Path(repoRoot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening income sources: %w", err)
	}
	defer f.Close()

	return ReadSources(f)
}

// Save replaces the workspace's income-sources.csv.
func Save(repoRoot string, sources []model.IncomeSource) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating income dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating income sources file: %w", err)
	}
	defer f.Close()

	if err := WriteSources(f, sources); err != nil {
		return fmt.Errorf("writing income sources: %w", err)
	}
	return nil
}

// ReadSources reads income-sources.csv.
func ReadSources(r io.Reader) ([]model.IncomeSource, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading income sources CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var sources []model.IncomeSource
	for i, rec := range records[1:] {
		src, err := UnmarshalSource(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// WriteSources writes income-sources.csv including the header.
func WriteSources(w io.Writer, sources []model.IncomeSource) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, src := range sources {
		if err := cw.Write(MarshalSource(src)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSource converts an IncomeSource to a CSV row.
func MarshalSource(src model.IncomeSource) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(src.ID)
	row[colName] = src.Name
	row[colAmount] = src.Amount.String()
	row[colFrequency] = string(src.Frequency)
	row[colStart] = formatDate(src.StartDate)
	row[colEnd] = formatDate(src.EndDate)
	row[colLastReceived] = formatDate(src.LastReceivedDate)
	return row
}

// UnmarshalSource converts a CSV row to an IncomeSource.
func UnmarshalSource(record []string) (model.IncomeSource, error) {
	if len(record) != numFields {
		return model.IncomeSource{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.IncomeSource{}, fmt.Errorf("parsing source_id %q: %w", record[colID], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.IncomeSource{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	freq, err := model.ParseFrequency(record[colFrequency])
	if err != nil {
		return model.IncomeSource{}, err
	}

	src := model.IncomeSource{
		ID:        id,
		Name:      record[colName],
		Amount:    amount,
		Frequency: freq,
	}
	if record[colStart] == "" {
		return model.IncomeSource{}, fmt.Errorf("start_date is required")
	}
	if src.StartDate, err = parseDate("start_date", record[colStart]); err != nil {
		return model.IncomeSource{}, err
	}
	if src.EndDate, err = parseDate("end_date", record[colEnd]); err != nil {
		return model.IncomeSource{}, err
	}
	if src.LastReceivedDate, err = parseDate("last_received_date", record[colLastReceived]); err != nil {
		return model.IncomeSource{}, err
	}
	return src, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return t, nil
}

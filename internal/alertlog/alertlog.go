// Package alertlog keeps a history of budget alerts the user chose to record.
package alertlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Entry is one recorded alert.
type Entry struct {
	Timestamp time.Time
	Period    string // "YYYY-MM"
	AlertID   string
	Severity  model.Severity
	Amount    decimal.NullDecimal
}

// Header is the CSV header for alert-log.csv.
const Header = "timestamp,period,alert_id,severity,amount"

const (
	numFields   = 5
	logDir      = "logs"
	logFile     = "logs/alert-log.csv"
	colTime     = 0
	colPeriod   = 1
	colAlertID  = 2
	colSeverity = 3
	colAmount   = 4
)

// Path returns the alert log location under repoRoot.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.Format(time.RFC3339)
	row[colPeriod] = e.Period
	row[colAlertID] = e.AlertID
	row[colSeverity] = string(e.Severity)
	if e.Amount.Valid {
		row[colAmount] = e.Amount.Decimal.StringFixed(2)
	}
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}

	e := Entry{
		Timestamp: ts,
		Period:    record[colPeriod],
		AlertID:   record[colAlertID],
		Severity:  model.Severity(record[colSeverity]),
	}
	if s := strings.TrimSpace(record[colAmount]); s != "" {
		amt, err := decimal.NewFromString(s)
		if err != nil {
			return Entry{}, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		e.Amount = decimal.NewNullDecimal(amt)
	}
	return e, nil
}

// FromAlerts builds log entries for alerts raised for period.
func FromAlerts(now time.Time, period string, alerts []model.BudgetAlert) []Entry {
	entries := make([]Entry, 0, len(alerts))
	for _, a := range alerts {
		entries = append(entries, Entry{
			Timestamp: now,
			Period:    period,
			AlertID:   a.ID,
			Severity:  a.Severity,
			Amount:    a.Amount,
		})
	}
	return entries
}

// Unrecorded drops entries whose (period, alert ID) pair is already in existing.
func Unrecorded(existing, candidates []Entry) []Entry {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Period+"/"+e.AlertID] = true
	}
	var out []Entry
	for _, c := range candidates {
		key := c.Period + "/" + c.AlertID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// Append writes entries to <repoRoot>/logs/alert-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(repoRoot)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing alert log: %w", err)
	}
	return f.Close()
}

// Read returns all entries from the alert log, or nil if it does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(Path(repoRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening alert log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading alert log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Package goals stores savings goals in goals/goals.csv.
package goals

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header for goals.csv.
var Header = []string{"goal_id", "name", "target_amount", "current_amount", "target_date", "status", "completed_date"}

const (
	numFields     = 7
	dateFormat    = "2006-01-02"
	colID         = 0
	colName       = 1
	colTarget     = 2
	colCurrent    = 3
	colTargetDate = 4
	colStatus     = 5
	colCompleted  = 6
)

// ErrNotFound is returned when no goal has the requested ID.
var ErrNotFound = errors.New("goal not found")

// Path returns the location of goals.csv under a workspace root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, "goals", "goals.csv")
}

// Load reads every goal in a workspace. A missing file means no goals.
func Load(repoRoot string) ([]model.Goal, error) {
	f, err := os.Open(Path(repoRoot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening goals: %w", err)
	}
	defer f.Close()

	return ReadGoals(f)
}

// Save replaces the workspace's goals.csv.
func Save(repoRoot string, goals []model.Goal) error {
	path := Path(repoRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating goals dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating goals file: %w", err)
	}
	defer f.Close()

	if err := WriteGoals(f, goals); err != nil {
		return fmt.Errorf("writing goals: %w", err)
	}
	return f.Close()
}

// ReadGoals reads goals.csv.
func ReadGoals(r io.Reader) ([]model.Goal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading goals CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var goals []model.Goal
	for i, rec := range records[1:] {
		g, err := UnmarshalGoal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// WriteGoals writes goals.csv including the header.
func WriteGoals(w io.Writer, goals []model.Goal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, g := range goals {
		if err := cw.Write(MarshalGoal(g)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalGoal converts a Goal to a CSV row.
func MarshalGoal(g model.Goal) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(g.ID)
	row[colName] = g.Name
	row[colTarget] = g.TargetAmount.StringFixed(2)
	row[colCurrent] = g.CurrentAmount.StringFixed(2)
	row[colTargetDate] = formatDate(g.TargetDate)
	row[colStatus] = string(g.Status)
	row[colCompleted] = formatDate(g.CompletedDate)
	return row
}

// UnmarshalGoal converts a CSV row to a Goal.
func UnmarshalGoal(record []string) (model.Goal, error) {
	if len(record) != numFields {
		return model.Goal{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.Goal{}, fmt.Errorf("parsing goal_id %q: %w", record[colID], err)
	}
	target, err := decimal.NewFromString(record[colTarget])
	if err != nil {
		return model.Goal{}, fmt.Errorf("parsing target_amount %q: %w", record[colTarget], err)
	}
	current := decimal.Zero
	if record[colCurrent] != "" {
		if current, err = decimal.NewFromString(record[colCurrent]); err != nil {
			return model.Goal{}, fmt.Errorf("parsing current_amount %q: %w", record[colCurrent], err)
		}
	}
	status, err := model.ParseGoalStatus(record[colStatus])
	if err != nil {
		return model.Goal{}, err
	}

	g := model.Goal{
		ID:            id,
		Name:          record[colName],
		TargetAmount:  target,
		CurrentAmount: current,
		Status:        status,
	}
	if g.TargetDate, err = parseDate("target_date", record[colTargetDate]); err != nil {
		return model.Goal{}, err
	}
	if g.CompletedDate, err = parseDate("completed_date", record[colCompleted]); err != nil {
		return model.Goal{}, err
	}
	return g, nil
}

// NewGoal holds the fields of a goal to create.
type NewGoal struct {
	Name       string
	Target     decimal.Decimal
	TargetDate time.Time
}

// Add appends a goal with the next free ID and nothing saved yet.
func Add(goals []model.Goal, p NewGoal) ([]model.Goal, model.Goal, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return goals, model.Goal{}, fmt.Errorf("goal name is required")
	}
	if !p.Target.IsPositive() {
		return goals, model.Goal{}, fmt.Errorf("target %s must be positive", p.Target)
	}
	g := model.Goal{
		ID:            1,
		Name:          name,
		TargetAmount:  p.Target,
		CurrentAmount: decimal.Zero,
		TargetDate:    p.TargetDate,
		Status:        model.GoalNotStarted,
	}
	for _, existing := range goals {
		g.ID = max(g.ID, existing.ID+1)
	}
	return append(goals, g), g, nil
}

// Contribute records a deposit into goal id, or a withdrawal when amount
// is negative.
func Contribute(goals []model.Goal, id int, amount decimal.Decimal, on time.Time) ([]model.Goal, model.Goal, error) {
	i := slices.IndexFunc(goals, func(g model.Goal) bool { return g.ID == id })
	if i < 0 {
		return goals, model.Goal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	g, err := metrics.Contribute(goals[i], amount, on)
	if err != nil {
		return goals, model.Goal{}, err
	}
	out := slices.Clone(goals)
	out[i] = g
	return out, g, nil
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

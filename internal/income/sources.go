package income

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tally-dev/tally/internal/model"
)

// ErrNotFound is returned when no income source has the requested ID.
var ErrNotFound = errors.New("income source not found")

// Validate checks the fields a stored source must carry.
func Validate(src model.IncomeSource) error {
	if strings.TrimSpace(src.Name) == "" {
		return fmt.Errorf("income source name is required")
	}
	if !src.Amount.IsPositive() {
		return fmt.Errorf("amount %s must be positive", src.Amount)
	}
	if _, err := model.ParseFrequency(string(src.Frequency)); err != nil {
		return err
	}
	if src.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if !src.EndDate.IsZero() && src.EndDate.Before(src.StartDate) {
		return fmt.Errorf("end date %s is before start date %s",
			src.EndDate.Format(dateFormat), src.StartDate.Format(dateFormat))
	}
	return nil
}

// Add validates src, gives it the next free ID and appends it.
func Add(sources []model.IncomeSource, src model.IncomeSource) ([]model.IncomeSource, model.IncomeSource, error) {
	src.Name = strings.TrimSpace(src.Name)
	if err := Validate(src); err != nil {
		return sources, model.IncomeSource{}, err
	}
	src.ID = 1
	for _, s := range sources {
		src.ID = max(src.ID, s.ID+1)
	}
	return append(sources, src), src, nil
}

// MarkReceived records a payment from source id on the given date, which
// moves its next expected date forward.
func MarkReceived(sources []model.IncomeSource, id int, on time.Time) ([]model.IncomeSource, model.IncomeSource, error) {
	i := slices.IndexFunc(sources, func(s model.IncomeSource) bool { return s.ID == id })
	if i < 0 {
		return sources, model.IncomeSource{}, fmt.Errorf("income source %d: %w", id, ErrNotFound)
	}
	src := sources[i]
	if on.Before(src.StartDate) {
		return sources, model.IncomeSource{}, fmt.Errorf("%s received %s, before it starts on %s",
			src.Name, on.Format(dateFormat), src.StartDate.Format(dateFormat))
	}
	src.LastReceivedDate = on
	out := slices.Clone(sources)
	out[i] = src
	return out, src, nil
}

// Remove drops source id.
func Remove(sources []model.IncomeSource, id int) ([]model.IncomeSource, model.IncomeSource, error) {
	i := slices.IndexFunc(sources, func(s model.IncomeSource) bool { return s.ID == id })
	if i < 0 {
		return sources, model.IncomeSource{}, fmt.Errorf("income source %d: %w", id, ErrNotFound)
	}
	removed := sources[i]
	return slices.Delete(slices.Clone(sources), i, i+1), removed, nil
}

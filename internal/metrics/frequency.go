package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

var periodsPerYear = map[model.Frequency]int64{
	model.FrequencyWeekly:    52,
	model.FrequencyBiweekly:  26,
	model.FrequencyMonthly:   12,
	model.FrequencyQuarterly: 4,
	model.FrequencyAnnual:    1,
}

var monthsPerYear = decimal.NewFromInt(12)

// Equivalents is an income amount restated at a fixed cadence.
// Annual is exact; Monthly is Annual/12 and is never rounded here.
type Equivalents struct {
	Monthly decimal.Decimal
	Annual  decimal.Decimal
}

// Add returns the element-wise sum of two equivalents.
func (e Equivalents) Add(o Equivalents) Equivalents {
	return Equivalents{Monthly: e.Monthly.Add(o.Monthly), Annual: e.Annual.Add(o.Annual)}
}

// PeriodsPerYear returns how many payments a frequency produces in a year.
func PeriodsPerYear(f model.Frequency) (int64, error) {
	n, ok := periodsPerYear[f]
	if !ok {
		return 0, invalidf("unknown frequency %q", f)
	}
	return n, nil
}

// Normalize converts a per-period amount into monthly and annual equivalents.
func Normalize(amount decimal.Decimal, f model.Frequency) (Equivalents, error) {
	if !amount.IsPositive() {
		return Equivalents{}, invalidf("amount %s must be positive", amount)
	}
	n, err := PeriodsPerYear(f)
	if err != nil {
		return Equivalents{}, err
	}
	annual := amount.Mul(decimal.NewFromInt(n))
	return Equivalents{Monthly: annual.Div(monthsPerYear), Annual: annual}, nil
}

// NextExpected returns the date one period after the last receipt, or after
// the start date when nothing has been received yet. ok is false when the
// source has an end date and the next payment would fall after it.
func NextExpected(src model.IncomeSource) (next time.Time, ok bool, err error) {
	if _, err := Normalize(src.Amount, src.Frequency); err != nil {
		return time.Time{}, false, err
	}

	base := src.StartDate
	if !src.LastReceivedDate.IsZero() {
		base = src.LastReceivedDate
	}
	if base.IsZero() {
		return time.Time{}, false, invalidf("income source %d has no start date", src.ID)
	}

	next = advance(base, src.Frequency)
	if !src.EndDate.IsZero() && next.After(src.EndDate) {
		return time.Time{}, false, nil
	}
	return next, true, nil
}

// Overdue reports whether a payment was expected before now and has not
// been recorded. Sources with no upcoming payment are never overdue.
func Overdue(src model.IncomeSource, now time.Time) bool {
	next, ok, err := NextExpected(src)
	if err != nil || !ok {
		return false
	}
	return next.Before(now)
}

// TotalIncome sums the equivalents of every source active on asOf. A zero
// asOf includes all sources.
func TotalIncome(sources []model.IncomeSource, asOf time.Time) (Equivalents, error) {
	total := Equivalents{Monthly: decimal.Zero, Annual: decimal.Zero}
	for _, src := range sources {
		if !asOf.IsZero() && !activeOn(src, asOf) {
			continue
		}
		eq, err := Normalize(src.Amount, src.Frequency)
		if err != nil {
			return Equivalents{}, err
		}
		total = total.Add(eq)
	}
	return total, nil
}

func activeOn(src model.IncomeSource, day time.Time) bool {
	if !src.StartDate.IsZero() && src.StartDate.After(day) {
		return false
	}
	if !src.EndDate.IsZero() && src.EndDate.Before(day) {
		return false
	}
	return true
}

func advance(t time.Time, f model.Frequency) time.Time {
	switch f {
	case model.FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case model.FrequencyBiweekly:
		return t.AddDate(0, 0, 14)
	case model.FrequencyMonthly:
		return addMonths(t, 1)
	case model.FrequencyQuarterly:
		return addMonths(t, 3)
	default:
		return addMonths(t, 12)
	}
}

// addMonths clamps to the last day of the target month, so Jan 31 + 1 month
// is Feb 28 (or 29) rather than spilling into March.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often an income source pays out.
type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiweekly  Frequency = "BIWEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnual    Frequency = "ANNUAL"
)

// ParseFrequency accepts any casing of a recognized frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToUpper(strings.TrimSpace(s))); f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return f, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// IncomeSource is a recurring payment such as a salary or a retainer.
// Optional dates are left as the zero time.
type IncomeSource struct {
	ID               int
	Name             string
	Amount           decimal.Decimal
	Frequency        Frequency
	StartDate        time.Time
	EndDate          time.Time
	LastReceivedDate time.Time
}

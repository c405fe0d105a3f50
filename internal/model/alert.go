package model

import "github.com/shopspring/decimal"

// Severity ranks how urgently an alert needs attention.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
	SeveritySuccess  Severity = "SUCCESS"
)

// BudgetAlert is produced fresh on every evaluation and never stored by the engine.
type BudgetAlert struct {
	ID       string
	Severity Severity
	Title    string
	Message  string
	Category string // empty unless the alert concerns one spending category
	Amount   decimal.NullDecimal
}

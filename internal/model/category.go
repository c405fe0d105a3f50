package model

import "github.com/shopspring/decimal"

// Category is a spending category with an optional monthly budget.
type Category struct {
	Name          string
	MonthlyBudget decimal.NullDecimal
}

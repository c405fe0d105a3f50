package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GoalStatus tracks a savings goal from creation to completion.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "NOT_STARTED"
	GoalInProgress GoalStatus = "IN_PROGRESS"
	GoalCompleted  GoalStatus = "COMPLETED"
)

// ParseGoalStatus accepts any casing of a recognized status.
func ParseGoalStatus(s string) (GoalStatus, error) {
	switch st := GoalStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case GoalNotStarted, GoalInProgress, GoalCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown goal status %q", s)
	}
}

// Goal is an amount the user is saving toward. TargetDate and
// CompletedDate are optional and left as the zero time.
type Goal struct {
	ID            int
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
	Status        GoalStatus
	CompletedDate time.Time
}

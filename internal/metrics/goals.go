package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// GoalProgress summarizes how far a savings goal has come.
type GoalProgress struct {
	Percent     decimal.Decimal // saved / target × 100 to two places, not capped
	Remaining   decimal.Decimal // never negative
	HasDeadline bool
	DaysLeft    int  // until TargetDate; negative once it has passed
	PastDue     bool // deadline passed before the goal completed
}

// Progress measures a goal as of the given day.
func Progress(g model.Goal, asOf time.Time) (GoalProgress, error) {
	if !g.TargetAmount.IsPositive() {
		return GoalProgress{}, invalidf("goal %d target %s must be positive", g.ID, g.TargetAmount)
	}
	if g.CurrentAmount.IsNegative() {
		return GoalProgress{}, invalidf("goal %d has negative saved amount %s", g.ID, g.CurrentAmount)
	}

	p := GoalProgress{
		Percent:   g.CurrentAmount.Div(g.TargetAmount).Round(4).Mul(hundred),
		Remaining: decimal.Max(g.TargetAmount.Sub(g.CurrentAmount), decimal.Zero),
	}
	if !g.TargetDate.IsZero() {
		p.HasDeadline = true
		p.DaysLeft = int(midnight(g.TargetDate).Sub(midnight(asOf)).Hours() / 24)
		p.PastDue = p.DaysLeft < 0 && g.Status != model.GoalCompleted
	}
	return p, nil
}

// Contribute adds amount to a goal's savings and updates its status. A
// negative amount is a withdrawal. The goal completes on the day savings
// first reach the target, and reopens if a withdrawal drops them below it.
func Contribute(g model.Goal, amount decimal.Decimal, on time.Time) (model.Goal, error) {
	if amount.IsZero() {
		return g, invalidf("contribution to goal %d must not be zero", g.ID)
	}
	if !g.TargetAmount.IsPositive() {
		return g, invalidf("goal %d target %s must be positive", g.ID, g.TargetAmount)
	}
	saved := g.CurrentAmount.Add(amount)
	if saved.IsNegative() {
		return g, invalidf("withdrawal of %s exceeds the %s saved toward goal %d", amount.Neg(), g.CurrentAmount, g.ID)
	}

	g.CurrentAmount = saved
	switch {
	case saved.GreaterThanOrEqual(g.TargetAmount):
		if g.Status != model.GoalCompleted {
			g.Status = model.GoalCompleted
			g.CompletedDate = midnight(on)
		}
	case saved.IsPositive():
		g.Status = model.GoalInProgress
		g.CompletedDate = time.Time{}
	default:
		g.Status = model.GoalNotStarted
		g.CompletedDate = time.Time{}
	}
	return g, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

const (
	dateFormat = "2006-01-02"
	colGap     = 2
)

// Money formats an amount with two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent formats a 0-100 value with one decimal.
func Percent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

type column struct {
	title string
	width int
	right bool
}

// table lays out rows under a header. Each column is at least its
// configured width and grows to fit its longest cell.
func table(cols []column, rows [][]string) string {
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = max(c.width, lipgloss.Width(c.title))
		for _, r := range rows {
			widths[i] = max(widths[i], lipgloss.Width(r[i]))
		}
	}

	// Width includes padding, so reserve room for the gutter.
	cell := func(i int, s string) string {
		st := lipgloss.NewStyle().Width(widths[i] + colGap).PaddingRight(colGap)
		if cols[i].right {
			st = st.Align(lipgloss.Right)
		}
		return st.Render(s)
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = cell(i, c.title)
	}
	lines := []string{TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, header...))}
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i := range cols {
			cells[i] = cell(i, r[i])
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summaryLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		BoldStyle.Width(20).Render(label),
		value,
	)
}

// BalanceSheet renders the accounts and their net worth.
func BalanceSheet(bs metrics.BalanceSheet, accounts []model.Account) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Net Worth"))
	b.WriteString("\n")

	if len(accounts) > 0 {
		cols := []column{
			{title: "#", width: 3, right: true},
			{title: "Account", width: 24},
			{title: "Type", width: 12},
			{title: "Balance", width: 14, right: true},
			{title: "Currency", width: 8},
		}
		rows := make([][]string, len(accounts))
		for i, a := range accounts {
			rows[i] = []string{strconv.Itoa(a.ID), a.Name, string(a.Type), Money(a.CurrentBalance), a.Currency}
		}
		b.WriteString(table(cols, rows))
		b.WriteString("\n\n")
	}

	b.WriteString(summaryLine("Total assets", Money(bs.TotalAssets)) + "\n")
	b.WriteString(summaryLine("Total liabilities", Money(bs.TotalLiabilities)) + "\n")
	net := SuccessStyle.Render(Money(bs.NetWorth))
	if bs.NetWorth.IsNegative() {
		net = ErrorStyle.Render(Money(bs.NetWorth))
	}
	b.WriteString(summaryLine("Net worth", net) + "\n")

	if len(bs.Currencies) > 1 {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("%s balances span %s and are summed without conversion",
			WarningIcon, strings.Join(bs.Currencies, ", "))))
		b.WriteString("\n")
	}
	return b.String()
}

// IncomeSources renders each source with its monthly equivalent and next
// expected payment as of now.
func IncomeSources(sources []model.IncomeSource, total metrics.Equivalents, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Income"))
	b.WriteString("\n")

	cols := []column{
		{title: "#", width: 3, right: true},
		{title: "Source", width: 22},
		{title: "Amount", width: 12, right: true},
		{title: "Frequency", width: 10},
		{title: "Monthly", width: 12, right: true},
		{title: "Next", width: 12},
		{title: "", width: 8},
	}
	rows := make([][]string, 0, len(sources))
	for _, src := range sources {
		eq, err := metrics.Normalize(src.Amount, src.Frequency)
		if err != nil {
			return "", fmt.Errorf("income source %q: %w", src.Name, err)
		}
		next, ok, err := metrics.NextExpected(src)
		if err != nil {
			return "", fmt.Errorf("income source %q: %w", src.Name, err)
		}
		nextCol := "-"
		if ok {
			nextCol = next.Format(dateFormat)
		}
		flag := ""
		if metrics.Overdue(src, now) {
			flag = ErrorStyle.Render(OverdueLabel)
		}
		rows = append(rows, []string{strconv.Itoa(src.ID), src.Name, Money(src.Amount), string(src.Frequency), Money(eq.Monthly), nextCol, flag})
	}
	if len(rows) > 0 {
		b.WriteString(table(cols, rows))
		b.WriteString("\n\n")
	}

	b.WriteString(summaryLine("Monthly income", Money(total.Monthly)) + "\n")
	b.WriteString(summaryLine("Annual income", Money(total.Annual)) + "\n")
	return b.String(), nil
}

// Spending renders a month's totals followed by the category breakdown.
func Spending(period string, totals metrics.PeriodTotals, breakdown []metrics.CategorySpending) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Spending " + period))
	b.WriteString("\n")

	b.WriteString(summaryLine("Income", Money(totals.Income)) + "\n")
	b.WriteString(summaryLine("Expenses", Money(totals.Expenses)) + "\n")
	b.WriteString(summaryLine("Balance", Money(totals.Balance)) + "\n")
	b.WriteString(summaryLine("Savings rate", Percent(totals.SavingsPercent)) + "\n\n")

	if len(breakdown) == 0 {
		b.WriteString(SubtleStyle.Render("No expenses recorded."))
		b.WriteString("\n")
		return b.String()
	}

	cols := []column{
		{title: "Category", width: 20},
		{title: "Spent", width: 12, right: true},
		{title: "Count", width: 6, right: true},
		{title: "Average", width: 10, right: true},
		{title: "Share", width: 7, right: true},
		{title: "Budget", width: 10, right: true},
		{title: "Used", width: 7, right: true},
		{title: "Trend", width: 10},
	}
	rows := make([][]string, len(breakdown))
	for i, cs := range breakdown {
		budget, used := "-", "-"
		if cs.MonthlyBudget.Valid {
			budget = Money(cs.MonthlyBudget.Decimal)
		}
		if cs.PercentageOfBudget.Valid {
			used = Percent(cs.PercentageOfBudget.Decimal)
			if cs.PercentageOfBudget.Decimal.GreaterThan(decimal.NewFromInt(100)) {
				used = ErrorStyle.Render(used)
			}
		}
		rows[i] = []string{
			cs.Name,
			Money(cs.TotalSpent),
			fmt.Sprintf("%d", cs.TransactionCount),
			Money(cs.AverageTransaction),
			Percent(cs.PercentageOfTotal),
			budget,
			used,
			trendCell(cs),
		}
	}
	b.WriteString(table(cols, rows))
	b.WriteString("\n")
	return b.String()
}

func trendCell(cs metrics.CategorySpending) string {
	s := TrendIcon(cs.Trend)
	if cs.Change.Valid {
		s += " " + cs.Change.Decimal.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
	}
	if cs.Anomalous {
		return WarningStyle.Render(s + " " + AnomalyIcon)
	}
	return s
}

// Alerts renders alerts in the order given, one box each.
func Alerts(alerts []model.BudgetAlert) string {
	if len(alerts) == 0 {
		return SubtleStyle.Render("No alerts.") + "\n"
	}
	boxes := make([]string, len(alerts))
	for i, a := range alerts {
		st := SeverityStyle(a.Severity)
		title := st.Render(SeverityIcon(a.Severity) + " " + a.Title)
		body := a.Message
		if a.Amount.Valid {
			body += "\n" + SubtleStyle.Render("Amount: "+Money(a.Amount.Decimal))
		}
		boxes[i] = BoxStyle.BorderForeground(st.GetForeground()).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...) + "\n"
}

// Budgets renders every category with its budget and what the period's
// spending has used of it.
func Budgets(period string, cats []model.Category, breakdown []metrics.CategorySpending) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Budgets " + period))
	b.WriteString("\n")

	if len(cats) == 0 {
		b.WriteString(SubtleStyle.Render("No categories defined."))
		b.WriteString("\n")
		return b.String()
	}

	spent := make(map[string]metrics.CategorySpending, len(breakdown))
	for _, cs := range breakdown {
		spent[metrics.CategoryKey(cs.Name)] = cs
	}

	cols := []column{
		{title: "Category", width: 20},
		{title: "Budget", width: 10, right: true},
		{title: "Spent", width: 10, right: true},
		{title: "Used", width: 7, right: true},
	}
	budgeted := decimal.Zero
	rows := make([][]string, len(cats))
	for i, c := range cats {
		cs := spent[metrics.CategoryKey(c.Name)]
		budget, used := "-", "-"
		if c.MonthlyBudget.Valid {
			budget = Money(c.MonthlyBudget.Decimal)
			budgeted = budgeted.Add(c.MonthlyBudget.Decimal)
		}
		if cs.PercentageOfBudget.Valid {
			used = Percent(cs.PercentageOfBudget.Decimal)
			if cs.PercentageOfBudget.Decimal.GreaterThan(decimal.NewFromInt(100)) {
				used = ErrorStyle.Render(used)
			}
		}
		rows[i] = []string{c.Name, budget, Money(cs.TotalSpent), used}
	}
	b.WriteString(table(cols, rows))
	b.WriteString("\n\n")
	b.WriteString(summaryLine("Total budgeted", Money(budgeted)) + "\n")
	return b.String()
}

// Goals renders each savings goal with its progress as of now.
func Goals(goals []model.Goal, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Goals"))
	b.WriteString("\n")

	if len(goals) == 0 {
		b.WriteString(SubtleStyle.Render("No goals yet."))
		b.WriteString("\n")
		return b.String(), nil
	}

	cols := []column{
		{title: "#", width: 3, right: true},
		{title: "Goal", width: 22},
		{title: "Target", width: 12, right: true},
		{title: "Saved", width: 12, right: true},
		{title: "Progress", width: 8, right: true},
		{title: "Due", width: 12},
		{title: "Status", width: 11},
	}
	rows := make([][]string, len(goals))
	for i, g := range goals {
		p, err := metrics.Progress(g, now)
		if err != nil {
			return "", fmt.Errorf("goal %q: %w", g.Name, err)
		}
		due := "-"
		if p.HasDeadline {
			due = g.TargetDate.Format(dateFormat)
		}
		status := string(g.Status)
		switch {
		case g.Status == model.GoalCompleted:
			status = SuccessStyle.Render(status)
		case p.PastDue:
			status = ErrorStyle.Render(OverdueLabel)
		}
		rows[i] = []string{strconv.Itoa(g.ID), g.Name, Money(g.TargetAmount), Money(g.CurrentAmount), Percent(p.Percent), due, status}
	}
	b.WriteString(table(cols, rows))
	b.WriteString("\n")
	return b.String(), nil
}

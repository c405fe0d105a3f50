// Package render formats engine results for the terminal using lipgloss.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tally-dev/tally/internal/metrics"
	"github.com/tally-dev/tally/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5FAFD7")
	// SuccessColor marks healthy figures.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor marks figures that need watching.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor marks figures that need action.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor marks neutral notices.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor is for secondary text.
	SubtleColor = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// TableHeaderStyle underlines column headings.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(SubtleColor)

	// BoxStyle frames a single alert.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// Icons.
const (
	SuccessIcon  = "✓"
	ErrorIcon    = "✗"
	WarningIcon  = "!"
	InfoIcon     = "i"
	UpIcon       = "▲"
	DownIcon     = "▼"
	StableIcon   = "="
	AnomalyIcon  = "*"
	OverdueLabel = "overdue"
)

// SeverityStyle returns the text style for an alert severity.
func SeverityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityCritical:
		return ErrorStyle.Bold(true)
	case model.SeverityWarning:
		return WarningStyle
	case model.SeveritySuccess:
		return SuccessStyle
	default:
		return InfoStyle
	}
}

// SeverityIcon returns the marker shown next to an alert title.
func SeverityIcon(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return ErrorIcon
	case model.SeverityWarning:
		return WarningIcon
	case model.SeveritySuccess:
		return SuccessIcon
	default:
		return InfoIcon
	}
}

// TrendIcon returns the arrow for a spending trend.
func TrendIcon(t metrics.Trend) string {
	switch t {
	case metrics.TrendUp:
		return UpIcon
	case metrics.TrendDown:
		return DownIcon
	default:
		return StableIcon
	}
}

// Package cli renders pipeline output for terminals using lipgloss.
package cli

import (
	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// AccentColor marks titles and headers.
	AccentColor = lipgloss.Color("#F4A259")
	// OKColor marks processed transactions.
	OKColor = lipgloss.Color("#5B8E7D")
	// AlertColor marks failures and risky scores.
	AlertColor = lipgloss.Color("#BC4B51")
	// CautionColor marks warnings and medium scores.
	CautionColor = lipgloss.Color("#F4E285")
	// NoteColor marks informational lines.
	NoteColor = lipgloss.Color("#8CB369")
	// MutedColor marks timestamps and debug traces.
	MutedColor = lipgloss.Color("#6C757D")

	// TitleStyle is used for command titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(AccentColor).MarginBottom(1)
	// SuccessStyle formats processed transactions.
	SuccessStyle = lipgloss.NewStyle().Foreground(OKColor)
	// WarningStyle formats warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(CautionColor)
	// ErrorStyle formats failures.
	ErrorStyle = lipgloss.NewStyle().Foreground(AlertColor)
	// InfoStyle formats informational lines.
	InfoStyle = lipgloss.NewStyle().Foreground(NoteColor)
	// SubtleStyle formats timestamps and debug traces.
	SubtleStyle = lipgloss.NewStyle().Foreground(MutedColor)

	// TableHeaderStyle is used for the history table header.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(AccentColor).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(MutedColor)

	// TableCellStyle pads history table cells.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "i"
	WatchIcon   = "◉"
	DebugIcon   = "·"
)

// Scores at or above these thresholds are highlighted in the history table.
const (
	HighRiskScore   = 0.8
	MediumRiskScore = 0.5
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a command title.
func FormatTitle(title string) string {
	return TitleStyle.Render(WatchIcon + " " + title)
}

// FormatSubtle formats de-emphasized text.
func FormatSubtle(message string) string {
	return SubtleStyle.Render(message)
}

// FormatEvent renders a status event body by its title. Debug events are
// returned muted without their title.
func FormatEvent(event model.StatusEvent) string {
	switch event.Title {
	case model.TitleProcessed:
		return FormatSuccess(event.Title + ": " + event.Text)
	case model.TitleFailed:
		return FormatError(event.Title + ": " + event.Text)
	case model.TitleDebug:
		return FormatSubtle(DebugIcon + " " + event.Text)
	default:
		return FormatInfo(event.Title + ": " + event.Text)
	}
}

// ScoreStyle picks the style for a fraud score.
func ScoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= HighRiskScore:
		return ErrorStyle.Bold(true)
	case score >= MediumRiskScore:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

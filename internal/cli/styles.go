// Package cli holds the terminal presentation shared by khru commands:
// lipgloss styles, typed confirmations, interrupt handling, and progress bars.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Green is the chalkboard; the rest follow traffic-light meaning.
var (
	PrimaryColor = lipgloss.Color("#2E8B57")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
)

// Styles used across commands.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SubtitleStyle = lipgloss.NewStyle().Italic(true).Foreground(SubtleColor)
	SubtleStyle   = lipgloss.NewStyle().Foreground(SubtleColor)
	SuccessStyle  = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle  = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle    = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle     = lipgloss.NewStyle().Foreground(InfoColor)
	PromptStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)

	// BoxStyle frames status panels such as the dashboard and study tips.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	BookIcon    = "📚"
	RobotIcon   = "🤖"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
	LockIcon    = "🔒"
	UnlockIcon  = "🔓"
)

func iconLine(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess renders a one-line success notification.
func FormatSuccess(message string) string { return iconLine(SuccessStyle, SuccessIcon, message) }

// FormatError renders a one-line error notification.
func FormatError(message string) string { return iconLine(ErrorStyle, ErrorIcon, message) }

// FormatWarning renders a one-line warning, used for edit-mode rejections.
func FormatWarning(message string) string { return iconLine(WarningStyle, WarningIcon, message) }

// FormatInfo renders a one-line informational note.
func FormatInfo(message string) string { return iconLine(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section heading.
func FormatTitle(title string) string { return iconLine(TitleStyle, BookIcon, title) }

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// FormatCheck renders a completion mark.
func FormatCheck(done bool) string {
	if done {
		return SuccessStyle.Render(SuccessIcon)
	}
	return ErrorStyle.Render(ErrorIcon)
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}

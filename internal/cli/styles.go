// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/Veraticus/conchis/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (shell pink).
	PrimaryColor = lipgloss.Color("#F497B6")
	// SubtleColor dims secondary details such as latency and indices.
	SubtleColor = lipgloss.Color("#666666")

	successColor = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	infoColor    = lipgloss.Color("#95E1D3")
	borderColor  = lipgloss.Color("#333")

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	labelStyle   = lipgloss.NewStyle().Width(20).PaddingRight(2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(borderColor)
)

var categoryColors = map[model.Category]lipgloss.Color{
	model.CategoryCode:    lipgloss.Color("#82AAFF"),
	model.CategoryLink:    lipgloss.Color("#4ECDC4"),
	model.CategoryData:    lipgloss.Color("#FFE66D"),
	model.CategoryText:    lipgloss.Color("#C3E88D"),
	model.CategoryUnknown: SubtleColor,
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	ClipIcon    = "📋"
	ChartIcon   = "📊"
	KeyIcon     = "🔑"
	ClockIcon   = "⏳"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return titleStyle.Render(ClipIcon + " " + title)
}

// FormatPrompt formats a question put to the user.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// renderBox draws content under a bold title inside a rounded border.
func renderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.UnsetMargins().Render(title),
		content,
	))
}

// FormatCategory renders a category with its emoji and color.
func FormatCategory(c model.Category) string {
	color, ok := categoryColors[c]
	if !ok {
		color = SubtleColor
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(c.Emoji() + " " + c.String())
}

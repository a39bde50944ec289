// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#6C5CE7")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats errors or failure messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor)

	// Per-category styles for list and recommendation output.
	categoryStyles = map[string]lipgloss.Style{
		"SAFETY":      lipgloss.NewStyle().Foreground(SuccessColor),
		"TARGET":      lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3")),
		"REACH":       lipgloss.NewStyle().Foreground(WarningColor),
		"SUPER_REACH": lipgloss.NewStyle().Foreground(ErrorColor),
	}
)

// CategoryStyle returns the style for a fit category, falling back to the
// subtle style for anything unrecognized.
func CategoryStyle(category string) lipgloss.Style {
	if style, ok := categoryStyles[category]; ok {
		return style
	}
	return SubtleStyle
}

package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Use these instead of inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: project names, paths, overlay names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the "created" file status.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for the "overridden" and "merged" file statuses.
	ColorYellow = lipgloss.Color("220")

	// ColorBoldRed is used for the "failed" status (matches ERROR level).
	ColorBoldRed = lipgloss.Color("204")

	// ColorGreenCheck is used for the completion checkmark.
	ColorGreenCheck = lipgloss.Color("10")

	// ColorBrand is the Compute Labs banner color.
	ColorBrand = lipgloss.Color("39")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (project names, paths, overlays).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles action verbs (creating, merging, initializing).
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleDim styles structural chrome (tree descriptions, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleBanner styles the startup banner.
	StyleBanner = lipgloss.NewStyle().Bold(true).Foreground(ColorBrand)

	// StyleBox frames the next-steps block when markdown rendering is off.
	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDimGray).
			Padding(0, 1)
)

// File status constants used by the creation summary and the validation report.
const (
	StatusCreated    = "created"
	StatusOverridden = "overridden"
	StatusMerged     = "merged"
	StatusSkipped    = "skipped"
	StatusPassed     = "passed"
	StatusFailed     = "failed"
)

// StatusStyle returns the lipgloss style for a status string.
// Unknown statuses return an unstyled default.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusCreated, StatusPassed:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusOverridden, StatusMerged:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusFailed:
		return lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minPathColumnWidth is the width of the path column before the status suffix.
const minPathColumnWidth = 48

// FormatFileLine renders a relative path with a right-aligned, color-coded
// status suffix.
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("f:")
	return prefix + StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatCross renders a red cross with a message for stdout output.
func FormatCross(msg string) string {
	cross := lipgloss.NewStyle().Foreground(ColorBoldRed).Render("✗")
	return cross + " " + msg
}

// FormatBanner renders the startup banner.
func FormatBanner(title string) string {
	return StyleBanner.Render(title)
}

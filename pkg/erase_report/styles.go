/* pkg/erase_report/styles.go */

package erase_report

import "github.com/charmbracelet/lipgloss"

// Palette shared by every operator-facing view.
var (
	ColorPrimary = lipgloss.Color("#00ffff") // Cyan
	ColorSuccess = lipgloss.Color("#00ff00") // Green
	ColorWarning = lipgloss.Color("#ffaa00") // Orange
	ColorError   = lipgloss.Color("#ff0000") // Red
	ColorMuted   = lipgloss.Color("#666666") // Gray
)

type Styles struct {
	Title   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style
	Banner  lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(ColorWarning),
		Success: lipgloss.NewStyle().Foreground(ColorSuccess),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(ColorError),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		Path:    lipgloss.NewStyle().Bold(true),
		Banner: lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.NormalBorder()).
			Padding(0, 1),
	}
}

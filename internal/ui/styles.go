// internal/ui/styles.go

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors and styles below are reassigned by updateStyles whenever the theme
// changes; the initial values match the default theme.
var (
	Subtle    = lipgloss.Color("#6C7086")
	Highlight = lipgloss.Color("#7DC4E4")
	Special   = lipgloss.Color("#FF9E64")
	Error     = lipgloss.Color("#F38BA8")
	StatusBar = lipgloss.Color("#E7E7E7")
	Border    = lipgloss.Color("#33B2FF")

	TitleStyle            lipgloss.Style
	SelectedItemStyle     lipgloss.Style
	ItemStyle             lipgloss.Style
	DescriptionStyle      lipgloss.Style
	HostStyle             lipgloss.Style
	LabelStyle            lipgloss.Style
	InputStyle            lipgloss.Style
	StatusConnectingStyle lipgloss.Style
	StatusConnectedStyle  lipgloss.Style
	StatusDefaultStyle    lipgloss.Style
	PanelTitleStyle       lipgloss.Style
	SuccessStyle          lipgloss.Style
	ErrorStyle            lipgloss.Style
	PanelStyle            lipgloss.Style
	ActivePanelStyle      lipgloss.Style
	StatusBarStyle        lipgloss.Style
)

func init() {
	updateStyles(themes[0])
}

// GetMaxWidth returns the widest rendered width among items.
func GetMaxWidth(items []string) int {
	maxWidth := 0
	for _, item := range items {
		if w := lipgloss.Width(item); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// Truncate cuts s to width cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

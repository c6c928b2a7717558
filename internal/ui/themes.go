package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name string

	// Base colors
	Subtle    lipgloss.Color
	Highlight lipgloss.Color
	Special   lipgloss.Color
	Error     lipgloss.Color
	StatusBar lipgloss.Color
	Border    lipgloss.Color

	HostColor  lipgloss.Color
	LabelColor lipgloss.Color
	InputColor lipgloss.Color
}

var (
	currentThemeIndex = 0

	themes = []Theme{
		{
			Name:      "default",
			Subtle:    lipgloss.Color("#6C7086"),
			Highlight: lipgloss.Color("#7DC4E4"),
			Special:   lipgloss.Color("#FF9E64"),
			Error:     lipgloss.Color("#F38BA8"),
			StatusBar: lipgloss.Color("#E7E7E7"),
			Border:    lipgloss.Color("#33B2FF"),

			HostColor:  lipgloss.Color("#2DAFFF"),
			LabelColor: lipgloss.Color("#A6ADC8"),
			InputColor: lipgloss.Color("#FFFFFF"),
		},
		{
			Name:      "dracula",
			Subtle:    lipgloss.Color("#6272a4"), // Comment
			Highlight: lipgloss.Color("#8be9fd"), // Cyan
			Special:   lipgloss.Color("#50fa7b"), // Green
			Error:     lipgloss.Color("#ff5555"), // Red
			StatusBar: lipgloss.Color("#282a36"), // Background
			Border:    lipgloss.Color("#bd93f9"), // Purple

			HostColor:  lipgloss.Color("#bd93f9"),
			LabelColor: lipgloss.Color("#f8f8f2"),
			InputColor: lipgloss.Color("#f8f8f2"),
		},
		{
			Name:      "vscode",
			Subtle:    lipgloss.Color("#808080"),
			Highlight: lipgloss.Color("#569CD6"),
			Special:   lipgloss.Color("#4EC9B0"),
			Error:     lipgloss.Color("#F44747"),
			StatusBar: lipgloss.Color("#007ACC"),
			Border:    lipgloss.Color("#569CD6"),

			HostColor:  lipgloss.Color("#569CD6"),
			LabelColor: lipgloss.Color("#D4D4D4"),
			InputColor: lipgloss.Color("#FFFFFF"),
		},
		{
			Name:      "molokai",
			Subtle:    lipgloss.Color("#808080"),
			Highlight: lipgloss.Color("#66D9EF"),
			Special:   lipgloss.Color("#A6E22E"),
			Error:     lipgloss.Color("#F92672"),
			StatusBar: lipgloss.Color("#272822"),
			Border:    lipgloss.Color("#66D9EF"),

			HostColor:  lipgloss.Color("#FD971F"),
			LabelColor: lipgloss.Color("#F8F8F2"),
			InputColor: lipgloss.Color("#F8F8F2"),
		},
		{
			Name:      "cyberneon",
			Subtle:    lipgloss.Color("#8B9BB4"),
			Highlight: lipgloss.Color("#FF2A6D"),
			Special:   lipgloss.Color("#05FFA1"),
			Error:     lipgloss.Color("#FF3366"),
			StatusBar: lipgloss.Color("#2D3246"),
			Border:    lipgloss.Color("#FF2A6D"),

			HostColor:  lipgloss.Color("#00F1F1"),
			LabelColor: lipgloss.Color("#C8D3F5"),
			InputColor: lipgloss.Color("#FFFFFF"),
		},
		{
			Name:      "atom",
			Subtle:    lipgloss.Color("#ABB2BF"),
			Highlight: lipgloss.Color("#61AFEF"),
			Special:   lipgloss.Color("#98C379"),
			Error:     lipgloss.Color("#E06C75"),
			StatusBar: lipgloss.Color("#282C34"),
			Border:    lipgloss.Color("#61AFEF"),

			HostColor:  lipgloss.Color("#61AFEF"),
			LabelColor: lipgloss.Color("#E5E5E5"),
			InputColor: lipgloss.Color("#FFFFFF"),
		},
	}
)

// SetTheme activates the theme with the given name. Unknown names keep the
// current theme and return false.
func SetTheme(name string) bool {
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			currentThemeIndex = i
			updateStyles(t)
			return true
		}
	}
	return false
}

// SwitchTheme moves to the next theme and returns its name.
func SwitchTheme() string {
	currentThemeIndex = (currentThemeIndex + 1) % len(themes)
	currentTheme := themes[currentThemeIndex]
	updateStyles(currentTheme)
	return currentTheme.Name
}

// ThemeNames lists the available themes in cycling order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

func updateStyles(theme Theme) {
	Subtle = theme.Subtle
	Highlight = theme.Highlight
	Special = theme.Special
	Error = theme.Error
	StatusBar = theme.StatusBar
	Border = theme.Border

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight).
		MarginLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(Highlight).
		Bold(true)

	ItemStyle = lipgloss.NewStyle().
		Foreground(theme.LabelColor)

	DescriptionStyle = lipgloss.NewStyle().
		Foreground(Subtle)

	HostStyle = lipgloss.NewStyle().
		Foreground(theme.HostColor)

	LabelStyle = lipgloss.NewStyle().
		Foreground(theme.LabelColor)

	InputStyle = lipgloss.NewStyle().
		Foreground(theme.InputColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Highlight).
		Padding(0, 1)

	StatusConnectingStyle = lipgloss.NewStyle().
		Foreground(Highlight).
		Bold(true)

	StatusConnectedStyle = lipgloss.NewStyle().
		Foreground(Special).
		Bold(true)

	StatusDefaultStyle = lipgloss.NewStyle().
		Foreground(Subtle)

	PanelTitleStyle = lipgloss.NewStyle().
		Foreground(Highlight).
		Bold(true).
		Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
		Foreground(Special).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	ActivePanelStyle = PanelStyle.
		BorderForeground(Border)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(theme.InputColor).
		Padding(0, 1)
}

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type PopupType int

const (
	PopupNone PopupType = iota
	PopupForm
	PopupHelp
)

// Popup is a bordered box centered on the screen.
type Popup struct {
	Type         PopupType
	Title        string
	Body         string
	Hint         string
	Width        int
	ScreenWidth  int
	ScreenHeight int

	BorderColor lipgloss.TerminalColor
	TitleStyle  lipgloss.Style
	HintStyle   lipgloss.Style
}

func NewPopup(popupType PopupType, title, body string, width, screenWidth, screenHeight int) *Popup {
	return &Popup{
		Type:         popupType,
		Title:        title,
		Body:         body,
		Width:        width,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		BorderColor:  lipgloss.Color("#33B2FF"),
		TitleStyle:   lipgloss.NewStyle().Bold(true),
		HintStyle:    lipgloss.NewStyle().Faint(true),
	}
}

func (p *Popup) Render() string {
	width := p.Width
	if limit := p.ScreenWidth - 4; width > limit {
		width = limit
	}

	popupStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderColor).
		Padding(1, 2).
		Width(width)

	titleStyle := p.TitleStyle.
		Align(lipgloss.Center).
		Width(width - 4)

	var content strings.Builder
	content.WriteString(titleStyle.Render(p.Title) + "\n\n")
	content.WriteString(p.Body)

	hint := p.Hint
	if hint == "" {
		switch p.Type {
		case PopupForm:
			hint = "tab: next field  enter: add  esc: cancel"
		case PopupHelp:
			hint = "?/esc: close"
		}
	}
	if hint != "" {
		content.WriteString("\n\n" + p.HintStyle.Render(hint))
	}

	return lipgloss.Place(
		p.ScreenWidth,
		p.ScreenHeight,
		lipgloss.Center,
		lipgloss.Center,
		popupStyle.Render(content.String()),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("0")),
	)
}

// internal/ui/layout.go

package ui

import (
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

const (
	MinWidth  = 60
	MinHeight = 10

	hostPanelPercent = 35
)

// BaseLayout holds the screen dimensions and derived panel sizes.
type BaseLayout struct {
	Width         int
	Height        int
	FooterHeight  int
	ContentHeight int
}

// NewBaseLayout computes the layout for a terminal of the given size.
func NewBaseLayout(width, height int) BaseLayout {
	const footerHeight = 1

	return BaseLayout{
		Width:         width,
		Height:        height,
		FooterHeight:  footerHeight,
		ContentHeight: height - footerHeight,
	}
}

// TooSmall reports whether the terminal is below the usable minimum.
func (l BaseLayout) TooSmall() bool {
	return l.Width < MinWidth || l.Height < MinHeight
}

// SplitWidths returns the outer widths of the hosts and tunnels panels.
func (l BaseLayout) SplitWidths() (hosts, tunnels int) {
	hosts = l.Width * hostPanelPercent / 100
	return hosts, l.Width - hosts
}

// PanelInner returns the content size of a panel of the given outer width.
// Two cells go to the border and two to padding; two rows to the border.
func (l BaseLayout) PanelInner(outerWidth int) (width, height int) {
	return outerWidth - 4, l.ContentHeight - 2
}

// Panel returns the style of a panel of the given outer width.
func (l BaseLayout) Panel(outerWidth int, active bool) lipgloss.Style {
	style := PanelStyle
	if active {
		style = ActivePanelStyle
	}
	w, h := l.PanelInner(outerWidth)
	return style.Width(w + 2).Height(h)
}

// CreateLipglossTable renders a bordered table with themed header and cells.
func CreateLipglossTable(headers []string, rows [][]string) string {
	tableStyle := func(row, col int) lipgloss.Style {
		switch {
		case row == -1: // headers
			return lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(Highlight).
				Bold(true)
		case col == 0:
			return lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(Special)
		default:
			return lipgloss.NewStyle().
				Padding(0, 1)
		}
	}

	return ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		StyleFunc(tableStyle).
		Headers(headers...).
		Rows(rows...).
		Render()
}

package ui

import (
	"fmt"
	"strings"

	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/ui/components"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	layout := NewBaseLayout(m.width, m.height)
	if layout.TooSmall() {
		return fmt.Sprintf("Terminal too small (need at least %dx%d)", MinWidth, MinHeight)
	}

	switch ov := m.overlay.(type) {
	case formOverlay:
		return m.renderForm(ov.form)
	case helpOverlay:
		return m.renderHelp()
	}

	hostWidth, tunnelWidth := layout.SplitWidths()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderHosts(layout, hostWidth),
		m.renderTunnels(layout, tunnelWidth),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusBar(layout.Width))
}

func (m Model) renderHosts(layout BaseLayout, outer int) string {
	width, height := layout.PanelInner(outer)

	title := "Hosts"
	if m.Overlay() == OverlaySearch {
		title = "Search: " + m.query + "█"
	} else if m.query != "" {
		title = fmt.Sprintf("Hosts (/%s)", m.query)
	}

	lines := []string{PanelTitleStyle.Render(Truncate(title, width))}
	if len(m.hosts) == 0 {
		lines = append(lines, DescriptionStyle.Render("No hosts"))
	}

	start, end := window(m.hostCursor, len(m.hosts), height-1)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderHostLine(m.hosts[i], i == m.hostCursor, width))
	}

	return layout.Panel(outer, m.panel == PanelHosts).Render(strings.Join(lines, "\n"))
}

func (m Model) renderHostLine(h models.Host, selected bool, width int) string {
	dot := StatusDefaultStyle.Render("○")
	if m.status.Host == h.Name {
		switch m.status.Kind {
		case StatusConnected:
			dot = StatusConnectedStyle.Render("●")
		case StatusConnecting:
			dot = StatusConnectingStyle.Render("◐")
		}
	}

	label := h.Name
	if entry, ok := m.history.Entry(h.Name); ok {
		label += fmt.Sprintf(" (%d, %s)", entry.UseCount, humanize.Time(entry.LastUsed))
	}
	label = Truncate(label, width-4)

	if selected && m.panel == PanelHosts {
		return dot + " " + SelectedItemStyle.Render("> "+label)
	}
	if selected {
		return dot + " " + HostStyle.Render("> "+label)
	}
	return dot + " " + ItemStyle.Render("  "+label)
}

func (m Model) renderTunnels(layout BaseLayout, outer int) string {
	width, height := layout.PanelInner(outer)

	title := "Tunnels"
	if m.session != nil {
		title += " · " + m.session.Host().Target()
	}
	lines := []string{PanelTitleStyle.Render(Truncate(title, width))}

	tunnels := m.registry.All()
	switch {
	case m.session == nil:
		lines = append(lines, DescriptionStyle.Render("Not connected. Select a host and press enter."))
	case len(tunnels) == 0:
		lines = append(lines, DescriptionStyle.Render("No tunnels. Press a to add one."))
	}

	start, end := window(m.tunnelCursor, len(tunnels), height-1)
	for i := start; i < end; i++ {
		t := tunnels[i]
		state := ErrorStyle.Render("[OFF]")
		if t.Enabled {
			state = SuccessStyle.Render("[ON] ")
		}
		text := fmt.Sprintf("localhost:%d → %s:%d", t.LocalPort, t.RemoteHost, t.RemotePort)
		if m.registry.Busy(t.ID) {
			text += " …"
		}
		text = Truncate(text, width-8)

		switch {
		case i == m.tunnelCursor && m.panel == PanelTunnels:
			text = SelectedItemStyle.Render("> " + text)
		default:
			text = LabelStyle.Render("  " + text)
		}
		lines = append(lines, state+" "+text)
	}

	return layout.Panel(outer, m.panel == PanelTunnels).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusBar(width int) string {
	var left string
	if n := m.notification; n != nil {
		switch n.Level {
		case NotifyError:
			left = ErrorStyle.Render(n.Text)
		case NotifySuccess:
			left = SuccessStyle.Render(n.Text)
		default:
			left = LabelStyle.Render(n.Text)
		}
	} else {
		switch m.status.Kind {
		case StatusConnected:
			left = StatusConnectedStyle.Render(m.status.String())
		case StatusConnecting:
			left = StatusConnectingStyle.Render(m.status.String())
		case StatusError:
			left = ErrorStyle.Render(m.status.String())
		default:
			left = StatusDefaultStyle.Render(m.status.String())
		}
	}

	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return StatusBarStyle.Render(Truncate(left, width-2))
	}
	return StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderForm(f tunnelForm) string {
	labels := [fieldCount]string{"Local port", "Remote host", "Remote port"}
	pad := GetMaxWidth(labels[:])
	var b strings.Builder
	for i := range f.inputs {
		text := fmt.Sprintf("%-*s", pad, labels[i])
		label := LabelStyle.Render(text)
		if formField(i) == f.focus {
			label = SelectedItemStyle.Render(text)
		}
		b.WriteString(label + " " + InputStyle.Render(f.inputs[i].View()))
		if f.err != "" && f.errField == formField(i) {
			b.WriteString("\n" + ErrorStyle.Render("  "+f.err))
		}
		if i < len(f.inputs)-1 {
			b.WriteString("\n")
		}
	}

	p := components.NewPopup(components.PopupForm, "Add Tunnel", b.String(), 50, m.width, m.height)
	p.BorderColor = Border
	p.TitleStyle = TitleStyle
	p.HintStyle = DescriptionStyle
	return p.Render()
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	p := components.NewPopup(components.PopupHelp, "Keys", h.View(m.keys), 70, m.width, m.height)
	p.BorderColor = Border
	p.TitleStyle = TitleStyle
	p.HintStyle = DescriptionStyle
	return p.Render()
}

// window returns the [start, end) slice of n rows that keeps cursor visible
// in size rows.
func window(cursor, n, size int) (int, int) {
	if size <= 0 || n == 0 {
		return 0, 0
	}
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

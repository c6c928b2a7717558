package ui

import (
	"fmt"

	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/ui/messages"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// Update implements tea.Model. It is the only place state changes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messages.TickMsg:
		return m.handleTick()

	case messages.ConnectMsg:
		return m.connect(msg.Name)

	case messages.ConnectEstablishedMsg:
		return m.connectEstablished(msg.SessionID)

	case messages.ConnectFailedMsg:
		return m.connectFailed(msg.SessionID, msg.Reason)

	case messages.DisconnectMsg:
		return m.disconnect()

	case messages.DisconnectedMsg:
		m.pruneRetired()
		if msg.SessionID == m.closing {
			m.closing = uuid.Nil
			if m.session == nil {
				m.status = ConnectionStatus{Kind: StatusDisconnected}
			}
		}
		return m, nil

	case messages.SessionAliveMsg:
		if msg.SessionID == m.healthCheck {
			m.healthCheck = uuid.Nil
		}
		return m, nil

	case messages.ToggleTunnelMsg:
		return m.toggleTunnel(msg.Index)

	case messages.TunnelToggledMsg:
		m.registry.ClearBusy(msg.ID)
		t, ok := m.registry.Get(msg.ID)
		if !ok {
			m.logger.Debug().Str("tunnel", msg.ID.String()).Msg("Toggle completed for removed tunnel")
			return m, nil
		}
		m.registry.SetEnabled(msg.ID, msg.Enabled)
		state := "disabled"
		if msg.Enabled {
			state = "enabled"
		}
		m.notify(NotifySuccess, fmt.Sprintf("Tunnel %s %s", t.ForwardSpec(), state))
		return m, nil

	case messages.TunnelFailedMsg:
		m.registry.ClearBusy(msg.ID)
		m.logger.Warn().Str("tunnel", msg.ID.String()).Str("reason", msg.Reason).Msg("Tunnel request failed")
		m.notify(NotifyError, msg.Reason)
		return m, nil

	case messages.DeleteTunnelMsg:
		return m.deleteTunnel(msg.Index)

	case messages.TunnelDeletedMsg:
		removed := m.registry.Remove(msg.ID)
		if removed {
			m.clampTunnelCursor()
		}
		switch {
		case msg.Err != "":
			m.notify(NotifyError, msg.Err)
		case removed:
			m.notify(NotifyInfo, "Tunnel deleted")
		}
		return m, nil

	case messages.RestoreTunnelsMsg:
		return m.restoreTunnels()
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.ticks++
	if m.notification != nil && m.ticks-m.notification.tick >= m.cfg.UI.NotificationTicks {
		m.notification = nil
	}

	cmds := []tea.Cmd{tick(m.tickRate())}
	every := m.cfg.UI.HealthCheckTicks
	if m.status.Kind == StatusConnected && m.session != nil &&
		m.healthCheck == uuid.Nil && every > 0 && m.ticks%every == 0 {
		m.healthCheck = m.session.ID()
		cmds = append(cmds, healthTask(m.session, m.commandTimeout()))
	}
	return m, tea.Batch(cmds...)
}

// connect replaces whatever session is current with a new one for name.
func (m Model) connect(name string) (tea.Model, tea.Cmd) {
	host, ok := m.findHost(name)
	if !ok {
		return m, nil
	}

	var cmds []tea.Cmd
	if old := m.session; old != nil {
		if m.status.Kind == StatusConnected {
			m.saveTunnels()
			cmds = append(cmds, m.persistHistory())
		}
		m.retire(old)
		cmds = append(cmds, retireTask(old, m.commandTimeout()))
	}

	m.registry.Clear()
	m.tunnelCursor = 0
	m.healthCheck = uuid.Nil
	m.status = ConnectionStatus{Kind: StatusConnecting, Host: host.Name}

	s := m.transport.NewSession(host)
	m.session = s
	m.logger.Info().Str("host", host.Display()).Str("session", s.ID().String()).Msg("Connecting")
	cmds = append(cmds, connectTask(s, m.connectTimeout()))
	return m, tea.Batch(cmds...)
}

func (m Model) connectEstablished(id uuid.UUID) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.ID() != id {
		m.logger.Debug().Str("session", id.String()).Msg("Ignoring stale connect result")
		return m, nil
	}

	name := m.session.Host().Name
	m.status = ConnectionStatus{Kind: StatusConnected, Host: name}
	m.history.RecordConnection(name, m.now())
	for _, saved := range m.history.SavedTunnels(name) {
		m.registry.Add(saved.Tunnel())
	}
	m.tunnelCursor = 0
	m.refreshHosts()
	m.notify(NotifySuccess, "Connected to "+name)
	m.logger.Info().Str("host", name).Int("saved_tunnels", m.registry.Len()).Msg("Connected")

	cmds := []tea.Cmd{m.persistHistory()}
	if m.cfg.General.AutoRestore {
		cmds = append(cmds, m.enableAll()...)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) connectFailed(id uuid.UUID, reason string) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.ID() != id {
		m.logger.Debug().Str("session", id.String()).Msg("Ignoring stale failure")
		return m, nil
	}

	s := m.session
	m.logger.Warn().Str("host", s.Host().Name).Str("reason", reason).Msg("Session failed")
	m.session = nil
	m.healthCheck = uuid.Nil
	m.status = ConnectionStatus{Kind: StatusError, Message: reason}
	m.notify(NotifyError, reason)
	m.registry.Clear()
	m.tunnelCursor = 0
	m.retire(s)
	return m, retireTask(s, m.commandTimeout())
}

func (m Model) disconnect() (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}

	s := m.session
	var cmds []tea.Cmd
	if m.status.Kind == StatusConnected {
		m.saveTunnels()
		cmds = append(cmds, m.persistHistory())
	}

	m.closing = s.ID()
	m.retire(s)
	m.session = nil
	m.healthCheck = uuid.Nil
	m.registry.Clear()
	m.tunnelCursor = 0
	m.status = ConnectionStatus{Kind: StatusDisconnected}
	m.notify(NotifyInfo, "Disconnected from "+s.Host().Name)
	cmds = append(cmds, teardownTask(s, m.commandTimeout()))
	return m, tea.Batch(cmds...)
}

func (m Model) toggleTunnel(index int) (tea.Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	t, ok := m.registry.At(index)
	if !ok {
		return m, nil
	}
	if !m.registry.MarkBusy(t.ID) {
		m.notify(NotifyInfo, "Tunnel "+t.ForwardSpec()+" is busy")
		return m, nil
	}
	return m, toggleTask(m.transport, m.session.Control(), t, !t.Enabled, m.commandTimeout())
}

func (m Model) deleteTunnel(index int) (tea.Model, tea.Cmd) {
	t, ok := m.registry.At(index)
	if !ok {
		return m, nil
	}
	if m.registry.Busy(t.ID) {
		m.notify(NotifyInfo, "Tunnel "+t.ForwardSpec()+" is busy")
		return m, nil
	}
	if t.Enabled && m.session != nil {
		m.registry.MarkBusy(t.ID)
		return m, deleteTask(m.transport, m.session.Control(), t, m.commandTimeout())
	}
	m.registry.Remove(t.ID)
	m.clampTunnelCursor()
	m.notify(NotifyInfo, "Tunnel deleted")
	return m, nil
}

func (m Model) restoreTunnels() (tea.Model, tea.Cmd) {
	if m.session == nil || m.status.Kind != StatusConnected {
		m.notify(NotifyInfo, "Connect to a host first")
		return m, nil
	}
	if m.registry.Len() == 0 {
		for _, saved := range m.history.SavedTunnels(m.session.Host().Name) {
			m.registry.Add(saved.Tunnel())
		}
	}
	cmds := m.enableAll()
	if len(cmds) == 0 {
		m.notify(NotifyInfo, "No tunnels to restore")
		return m, nil
	}
	m.notify(NotifyInfo, fmt.Sprintf("Restoring %d tunnel(s)", len(cmds)))
	return m, tea.Batch(cmds...)
}

// enableAll issues an enable for every idle, disabled tunnel, by identity.
func (m *Model) enableAll() []tea.Cmd {
	if m.session == nil {
		return nil
	}
	ctl := m.session.Control()
	var cmds []tea.Cmd
	for _, t := range m.registry.All() {
		if t.Enabled || !m.registry.MarkBusy(t.ID) {
			continue
		}
		cmds = append(cmds, toggleTask(m.transport, ctl, t, true, m.commandTimeout()))
	}
	return cmds
}

// addTunnel appends a validated tunnel and enables it.
func (m Model) addTunnel(spec tunnelSpec) (tea.Model, tea.Cmd) {
	t := models.NewTunnel(spec.LocalPort, spec.RemoteHost, spec.RemotePort)
	m.registry.Add(t)
	m.overlay = nil
	m.tunnelCursor = m.registry.IndexOf(t.ID)
	m.panel = PanelTunnels
	m.registry.MarkBusy(t.ID)
	m.logger.Info().Str("tunnel", t.ForwardSpec()).Msg("Tunnel added")
	return m, toggleTask(m.transport, m.session.Control(), t, true, m.commandTimeout())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch ov := m.overlay.(type) {
	case searchOverlay:
		return m.handleSearchKey(msg)
	case helpOverlay:
		if key.Matches(msg, m.keys.Quit, m.keys.Help) {
			m.overlay = nil
		}
		return m, nil
	case formOverlay:
		return m.handleFormKey(ov.form, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.SwitchPane):
		if m.panel == PanelHosts {
			m.panel = PanelTunnels
		} else {
			m.panel = PanelHosts
		}
	case key.Matches(msg, m.keys.Connect):
		if m.panel == PanelHosts && m.hostCursor < len(m.hosts) {
			return m.connect(m.hosts[m.hostCursor].Name)
		}
		if m.panel == PanelTunnels {
			return m.toggleTunnel(m.tunnelCursor)
		}
	case key.Matches(msg, m.keys.Disconnect):
		return m.disconnect()
	case key.Matches(msg, m.keys.Search):
		m.overlay = searchOverlay{}
		m.panel = PanelHosts
	case key.Matches(msg, m.keys.Help):
		m.overlay = helpOverlay{}
	case key.Matches(msg, m.keys.AddTunnel):
		if m.session == nil || m.status.Kind != StatusConnected {
			m.notify(NotifyInfo, "Connect to a host first")
			return m, nil
		}
		m.overlay = formOverlay{form: newTunnelForm()}
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if m.panel == PanelTunnels {
			return m.toggleTunnel(m.tunnelCursor)
		}
	case key.Matches(msg, m.keys.Delete):
		if m.panel == PanelTunnels {
			return m.deleteTunnel(m.tunnelCursor)
		}
	case key.Matches(msg, m.keys.Restore):
		return m.restoreTunnels()
	case key.Matches(msg, m.keys.Theme):
		m.notify(NotifyInfo, "Theme: "+SwitchTheme())
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.query = ""
		m.overlay = nil
	case tea.KeyEnter:
		m.overlay = nil
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	default:
		return m, nil
	}
	m.refreshHosts()
	return m, nil
}

func (m Model) handleFormKey(form tunnelForm, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.overlay = nil
		return m, nil
	case key.Matches(msg, m.formKeys.Submit):
		spec, field, err := form.validate(m.registry.LocalPortInUse, m.portFree)
		if err != nil {
			form.fail(field, err)
			m.overlay = formOverlay{form: form}
			return m, nil
		}
		if m.session == nil || m.status.Kind != StatusConnected {
			m.overlay = nil
			m.notify(NotifyError, "Not connected")
			return m, nil
		}
		return m.addTunnel(spec)
	case key.Matches(msg, m.formKeys.Next):
		form.next()
	case key.Matches(msg, m.formKeys.Prev):
		form.prev()
	default:
		cmd = form.update(msg)
	}
	m.overlay = formOverlay{form: form}
	return m, cmd
}

func (m *Model) moveCursor(delta int) {
	if m.panel == PanelHosts {
		m.hostCursor = clamp(m.hostCursor+delta, len(m.hosts))
		return
	}
	m.tunnelCursor = clamp(m.tunnelCursor+delta, m.registry.Len())
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// internal/ui/model.go

package ui

import (
	"context"
	"strings"
	"time"

	"sshTunnelManager/internal/config"
	"sshTunnelManager/internal/history"
	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/registry"
	"sshTunnelManager/internal/ssh"
	"sshTunnelManager/internal/ui/messages"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StatusKind is the connection state shown in the status bar.
type StatusKind int

const (
	StatusDisconnected StatusKind = iota
	StatusConnecting
	StatusConnected
	StatusError
)

// ConnectionStatus is the current connection state. Host is set while
// connecting or connected, Message only for StatusError.
type ConnectionStatus struct {
	Kind    StatusKind
	Host    string
	Message string
}

func (s ConnectionStatus) String() string {
	switch s.Kind {
	case StatusConnecting:
		return "Connecting to " + s.Host + "..."
	case StatusConnected:
		return "Connected to " + s.Host
	case StatusError:
		return "Error: " + s.Message
	default:
		return "Disconnected"
	}
}

// Panel is the focused half of the screen.
type Panel int

const (
	PanelHosts Panel = iota
	PanelTunnels
)

// OverlayKind names the overlay on top of the main screen.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlaySearch
	OverlayHelp
	OverlayAddTunnel
)

// overlay is one of searchOverlay, helpOverlay or formOverlay; nil means none.
type overlay interface {
	kind() OverlayKind
}

type searchOverlay struct{}

func (searchOverlay) kind() OverlayKind { return OverlaySearch }

type helpOverlay struct{}

func (helpOverlay) kind() OverlayKind { return OverlayHelp }

type formOverlay struct {
	form tunnelForm
}

func (formOverlay) kind() OverlayKind { return OverlayAddTunnel }

// NotificationLevel controls how a notification is styled.
type NotificationLevel int

const (
	NotifyInfo NotificationLevel = iota
	NotifySuccess
	NotifyError
)

// Notification is a transient message that expires after a number of ticks.
type Notification struct {
	Text  string
	Level NotificationLevel
	tick  int
}

// Options wires the model to its collaborators.
type Options struct {
	Config    config.Config
	Hosts     []models.Host
	History   history.History
	Store     HistoryStore
	Transport Transport
	Logger    zerolog.Logger

	// PortFree probes whether a local port can be bound. Defaults to
	// ssh.IsPortAvailable.
	PortFree func(port int) bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Model is the bubbletea model. Every state change happens in Update.
type Model struct {
	keys     KeyMap
	formKeys formKeys
	help     help.Model

	cfg       config.Config
	transport Transport
	store     HistoryStore
	logger    zerolog.Logger
	portFree  func(int) bool
	now       func() time.Time

	allHosts   []models.Host
	hosts      []models.Host
	hostCursor int
	query      string

	status      ConnectionStatus
	session     Session
	closing     uuid.UUID
	healthCheck uuid.UUID
	retired     []Session

	registry     *registry.Registry
	tunnelCursor int

	overlay      overlay
	panel        Panel
	notification *Notification
	ticks        int

	history    history.History
	historyRev uint64

	width    int
	height   int
	quitting bool
}

// NewModel builds the initial model.
func NewModel(opts Options) Model {
	m := Model{
		keys:      DefaultKeyMap(),
		formKeys:  defaultFormKeys(),
		help:      help.New(),
		cfg:       opts.Config,
		transport: opts.Transport,
		store:     opts.Store,
		logger:    opts.Logger,
		portFree:  opts.PortFree,
		now:       opts.Now,
		allHosts:  opts.Hosts,
		registry:  registry.New(),
		history:   opts.History.Clone(),
		width:     120,
		height:    30,
	}
	if m.portFree == nil {
		m.portFree = ssh.IsPortAvailable
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.refreshHosts()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tick(m.cfg.UI.TickRate)
}

// Status returns the connection status.
func (m Model) Status() ConnectionStatus { return m.status }

// Tunnels returns the tunnels of the current session in display order.
func (m Model) Tunnels() []models.Tunnel { return m.registry.All() }

// TunnelBusy reports whether a control request for the tunnel is in flight.
func (m Model) TunnelBusy(id uuid.UUID) bool { return m.registry.Busy(id) }

func (m Model) TunnelSelection() int { return m.tunnelCursor }

func (m Model) HostSelection() int { return m.hostCursor }

// VisibleHosts returns the host list after filtering and ordering.
func (m Model) VisibleHosts() []models.Host {
	out := make([]models.Host, len(m.hosts))
	copy(out, m.hosts)
	return out
}

func (m Model) SearchQuery() string { return m.query }

func (m Model) Panel() Panel { return m.panel }

func (m Model) Notification() *Notification { return m.notification }

// Overlay returns which overlay, if any, is open.
func (m Model) Overlay() OverlayKind {
	if m.overlay == nil {
		return OverlayNone
	}
	return m.overlay.kind()
}

// FormError returns the validation error shown in the add-tunnel form.
func (m Model) FormError() string {
	if f, ok := m.overlay.(formOverlay); ok {
		return f.form.err
	}
	return ""
}

// History returns a copy of the in-memory history.
func (m Model) History() history.History { return m.history.Clone() }

// Shutdown runs after the program loop has exited: it saves the current
// tunnels and history, then disconnects every session still alive.
func (m Model) Shutdown(ctx context.Context) error {
	if m.session != nil && m.status.Kind == StatusConnected {
		m.history.SaveTunnels(m.session.Host().Name, m.registry.All())
	}
	var err error
	if m.store != nil {
		m.historyRev++
		if err = m.store.Persist(m.historyRev, m.history.Clone()); err != nil {
			m.logger.Error().Err(err).Msg("Failed to save history on shutdown")
		}
	}

	sessions := append([]Session{}, m.retired...)
	if m.session != nil {
		sessions = append(sessions, m.session)
	}
	for _, s := range sessions {
		if derr := s.Disconnect(ctx); derr != nil {
			m.logger.Warn().Err(derr).Str("host", s.Host().Name).Msg("Disconnect on shutdown failed")
		}
	}
	return err
}

// refreshHosts rebuilds the visible host list from the query, the
// show-all setting and history, keeping the selected host if still visible.
func (m *Model) refreshHosts() {
	var selected string
	if m.hostCursor >= 0 && m.hostCursor < len(m.hosts) {
		selected = m.hosts[m.hostCursor].Name
	}

	byName := make(map[string]models.Host, len(m.allHosts))
	for _, h := range m.allHosts {
		byName[h.Name] = h
	}

	var ordered []models.Host
	used := make(map[string]bool)
	recent := m.history.RecentHosts()
	if !m.cfg.UI.ShowAllHosts && len(recent) > m.cfg.General.MaxRecentHosts {
		recent = recent[:m.cfg.General.MaxRecentHosts]
	}
	for _, name := range recent {
		if h, ok := byName[name]; ok {
			ordered = append(ordered, h)
			used[name] = true
		}
	}
	if m.cfg.UI.ShowAllHosts {
		for _, h := range m.allHosts {
			if !used[h.Name] {
				ordered = append(ordered, h)
			}
		}
	}

	q := strings.ToLower(strings.TrimSpace(m.query))
	m.hosts = m.hosts[:0:0]
	for _, h := range ordered {
		if q == "" || matchesHost(h, q) {
			m.hosts = append(m.hosts, h)
		}
	}

	m.hostCursor = 0
	for i, h := range m.hosts {
		if h.Name == selected {
			m.hostCursor = i
			break
		}
	}
}

func matchesHost(h models.Host, q string) bool {
	return strings.Contains(strings.ToLower(h.Name), q) ||
		strings.Contains(strings.ToLower(h.HostName), q) ||
		strings.Contains(strings.ToLower(h.User), q)
}

// retire keeps s until it is closed so Shutdown can still wait for it.
func (m *Model) retire(s Session) {
	m.pruneRetired()
	m.retired = append(m.retired, s)
}

// pruneRetired builds a fresh slice; earlier Model copies share the old one.
func (m *Model) pruneRetired() {
	kept := make([]Session, 0, len(m.retired)+1)
	for _, s := range m.retired {
		if !s.Closed() {
			kept = append(kept, s)
		}
	}
	m.retired = kept
}

func (m Model) findHost(name string) (models.Host, bool) {
	for _, h := range m.allHosts {
		if h.Name == name {
			return h, true
		}
	}
	return models.Host{}, false
}

func (m *Model) notify(level NotificationLevel, text string) {
	m.notification = &Notification{Text: text, Level: level, tick: m.ticks}
}

// persistHistory snapshots history and hands it to the store off-loop.
func (m *Model) persistHistory() tea.Cmd {
	if m.store == nil {
		return nil
	}
	m.historyRev++
	return persistTask(m.store, m.historyRev, m.history.Clone(), m.logger)
}

// saveTunnels records the current tunnels under the connected host.
func (m *Model) saveTunnels() {
	if m.session == nil || m.status.Kind != StatusConnected {
		return
	}
	m.history.SaveTunnels(m.session.Host().Name, m.registry.All())
}

func (m *Model) clampTunnelCursor() {
	if m.tunnelCursor >= m.registry.Len() {
		m.tunnelCursor = m.registry.Len() - 1
	}
	if m.tunnelCursor < 0 {
		m.tunnelCursor = 0
	}
}

func (m Model) commandTimeout() time.Duration { return m.cfg.General.CommandTimeout }

func (m Model) connectTimeout() time.Duration {
	return m.cfg.General.ConnectSettle + m.cfg.General.CommandTimeout
}

func (m Model) tickRate() time.Duration { return m.cfg.UI.TickRate }

var _ tea.Model = Model{}

// Compile-time check that the ssh session satisfies the UI's view of it.
var _ Session = (*ssh.Session)(nil)

// ConnectTo returns the message that opens a session to name.
func ConnectTo(name string) tea.Msg { return messages.ConnectMsg{Name: name} }

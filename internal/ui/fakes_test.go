package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"sshTunnelManager/internal/config"
	"sshTunnelManager/internal/history"
	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/ssh"
	"sshTunnelManager/internal/ui/messages"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeSession struct {
	id         uuid.UUID
	host       models.Host
	connectErr error

	mu          sync.Mutex
	alive       bool
	connects    int
	disconnects int
}

func (s *fakeSession) ID() uuid.UUID     { return s.id }
func (s *fakeSession) Host() models.Host { return s.host }

func (s *fakeSession) Control() ssh.Control {
	return ssh.Control{SocketPath: "/tmp/fake/" + s.host.Name, Target: s.host.Target()}
}

func (s *fakeSession) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connects++
	if s.connectErr != nil {
		return s.connectErr
	}
	s.alive = true
	return nil
}

func (s *fakeSession) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects++
	s.alive = false
	return nil
}

func (s *fakeSession) CheckAlive(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

func (s *fakeSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects > 0
}

func (s *fakeSession) setAlive(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = v
}

func (s *fakeSession) disconnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnects
}

type tunnelCall struct {
	Enable bool
	Spec   string
	Target string
}

type fakeTransport struct {
	mu          sync.Mutex
	sessions    []*fakeSession
	connectErrs map[string]error
	enableErrs  map[string]error
	calls       []tunnelCall
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		connectErrs: make(map[string]error),
		enableErrs:  make(map[string]error),
	}
}

func (f *fakeTransport) NewSession(host models.Host) Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &fakeSession{id: uuid.New(), host: host, connectErr: f.connectErrs[host.Name]}
	f.sessions = append(f.sessions, s)
	return s
}

func (f *fakeTransport) EnableTunnel(ctx context.Context, ctl ssh.Control, t models.Tunnel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tunnelCall{Enable: true, Spec: t.ForwardSpec(), Target: ctl.Target})
	return f.enableErrs[t.ForwardSpec()]
}

func (f *fakeTransport) DisableTunnel(ctx context.Context, ctl ssh.Control, t models.Tunnel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tunnelCall{Enable: false, Spec: t.ForwardSpec(), Target: ctl.Target})
	return nil
}

func (f *fakeTransport) session(i int) *fakeSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[i]
}

func (f *fakeTransport) tunnelCalls() []tunnelCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tunnelCall(nil), f.calls...)
}

type persistCall struct {
	Rev     uint64
	History history.History
}

type fakeStore struct {
	mu    sync.Mutex
	saves []persistCall
}

func (s *fakeStore) Persist(rev uint64, h history.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, persistCall{Rev: rev, History: h})
	return nil
}

func (s *fakeStore) last() (persistCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return persistCall{}, false
	}
	return s.saves[len(s.saves)-1], true
}

type harness struct {
	transport *fakeTransport
	store     *fakeStore
	usedPorts map[int]bool
}

var testHosts = []models.Host{
	{Name: "prod", HostName: "10.0.0.5", User: "deploy"},
	{Name: "staging", HostName: "staging.example.com"},
	{Name: "db", HostName: "db.internal", Port: 2222},
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.UI.TickRate = time.Millisecond
	cfg.General.ConnectSettle = 0
	cfg.General.CommandTimeout = time.Second
	return cfg
}

func newHarness(t *testing.T, cfg config.Config, h history.History) (*harness, Model) {
	t.Helper()
	hs := &harness{
		transport: newFakeTransport(),
		store:     &fakeStore{},
		usedPorts: make(map[int]bool),
	}
	m := NewModel(Options{
		Config:    cfg,
		Hosts:     testHosts,
		History:   h,
		Store:     hs.store,
		Transport: hs.transport,
		Logger:    zerolog.Nop(),
		PortFree:  func(port int) bool { return !hs.usedPorts[port] },
		Now:       func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) },
	})
	return hs, m
}

// runCmd runs cmd and returns the messages it produced, flattening batches.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func step(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// drive applies msg and then every message its commands produce, until
// nothing is left.
func drive(m Model, msg tea.Msg) Model {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		var cmd tea.Cmd
		m, cmd = step(m, next)
		for _, out := range runCmd(cmd) {
			if isTickOrQuit(out) {
				continue
			}
			queue = append(queue, out)
		}
	}
	return m
}

func isTickOrQuit(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.QuitMsg, messages.TickMsg:
		return true
	}
	return false
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeText sends text to the focused input and discards cursor commands.
func typeText(m Model, s string) Model {
	m, _ = step(m, keyRunes(s))
	return m
}

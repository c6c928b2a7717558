// internal/ssh/session.go

package ssh

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	apperr "sshTunnelManager/internal/error"
	"sshTunnelManager/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionState is the lifecycle of one ControlMaster session.
type SessionState int

const (
	StateNew SessionState = iota
	StateConnecting
	StateConnected
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

const (
	DefaultSettle = 500 * time.Millisecond
	killWait      = 2 * time.Second
)

// ErrSessionClosed is returned by Connect on a session that was disconnected.
var ErrSessionClosed = errors.New("session closed")

// Options configures how sessions spawn ssh.
type Options struct {
	Binary    string
	SocketDir string
	Settle    time.Duration
	Logger    zerolog.Logger
}

// Session owns one `ssh -M` process and its control socket.
// A closed session can't be reconnected; create a new one instead.
type Session struct {
	id     uuid.UUID
	host   models.Host
	ctl    Control
	settle time.Duration
	logger zerolog.Logger

	mu     sync.Mutex
	state  SessionState
	cmd    *exec.Cmd
	stderr *lockedBuffer
	done   chan struct{}
	closed chan struct{}
}

// NewSession prepares a session for host. Nothing is spawned until Connect.
func NewSession(host models.Host, opts Options) *Session {
	settle := opts.Settle
	if settle < 0 {
		settle = DefaultSettle
	}
	id := uuid.New()
	return &Session{
		id:   id,
		host: host,
		ctl: Control{
			Binary:     opts.Binary,
			SocketPath: SocketPath(opts.SocketDir, host),
			Target:     host.Target(),
		},
		settle: settle,
		logger: opts.Logger.With().Str("host", host.Name).Str("session", id.String()).Logger(),
		stderr: &lockedBuffer{},
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
}

// SocketPath is <dir>/<address>-<port>.
func SocketPath(dir string, host models.Host) string {
	return filepath.Join(dir, host.EffectiveHostName()+"-"+strconv.Itoa(host.EffectivePort()))
}

// BuildMasterArgs returns the arguments of the long-running master process.
func BuildMasterArgs(host models.Host, socket string) []string {
	args := []string{
		"-M",
		"-S", socket,
		"-N",
		"-o", "ControlPersist=yes",
		"-o", "ServerAliveInterval=15",
		"-o", "ServerAliveCountMax=3",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "BatchMode=yes",
	}
	if host.Port > 0 && host.Port != models.DefaultPort {
		args = append(args, "-p", strconv.Itoa(host.Port))
	}
	if host.IdentityFile != "" {
		args = append(args, "-i", host.IdentityFile)
	}
	if host.ProxyJump != "" {
		args = append(args, "-J", host.ProxyJump)
	}
	return append(args, host.Target())
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Host() models.Host { return s.host }

// Control returns the socket address used by tunnel and health commands.
func (s *Session) Control() Control { return s.ctl }

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect spawns the master, waits for it to settle and confirms it answers
// on the control socket. On failure everything it spawned is torn down and
// the error carries ssh's diagnostics, or "unknown error" when there are none.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateNew {
		s.mu.Unlock()
		return apperr.Session(ErrSessionClosed.Error(), ErrSessionClosed)
	}

	if err := os.MkdirAll(filepath.Dir(s.ctl.SocketPath), 0o700); err != nil {
		s.state = StateClosed
		close(s.closed)
		s.mu.Unlock()
		return apperr.Session("failed to create socket directory", err)
	}
	s.clearStaleSocket(ctx)

	if s.host.IdentityFile != "" {
		if err := CheckIdentity(s.host.IdentityFile); err != nil {
			s.logger.Warn().Err(err).Str("identity", s.host.IdentityFile).Msg("Identity file looks unusable")
		}
	}

	args := BuildMasterArgs(s.host, s.ctl.SocketPath)
	cmd := exec.Command(s.ctl.binary(), args...)
	cmd.Stderr = s.stderr
	cmd.SysProcAttr = sysProcAttr()
	cmd.WaitDelay = killWait

	s.logger.Info().Strs("args", args).Msg("Starting ssh master")
	if err := cmd.Start(); err != nil {
		s.state = StateClosed
		close(s.closed)
		s.mu.Unlock()
		return apperr.Session("failed to start ssh: "+err.Error(), err)
	}
	s.cmd = cmd
	s.state = StateConnecting
	go func() {
		_ = cmd.Wait()
		close(s.done)
	}()
	s.mu.Unlock()

	timer := time.NewTimer(s.settle)
	select {
	case <-timer.C:
	case <-s.done:
		timer.Stop()
	case <-ctx.Done():
		timer.Stop()
	}

	if s.State() == StateClosed {
		return apperr.Session(ErrSessionClosed.Error(), ErrSessionClosed)
	}

	if err := s.ctl.Check(ctx); err != nil {
		s.teardown()
		reason := strings.TrimSpace(s.stderr.String())
		if reason == "" {
			reason = "unknown error"
		}
		s.logger.Warn().Err(err).Str("reason", reason).Msg("ssh master failed to come up")
		return apperr.Session(reason, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return apperr.Session(ErrSessionClosed.Error(), ErrSessionClosed)
	}
	s.state = StateConnected
	s.logger.Info().Str("socket", s.ctl.SocketPath).Msg("Session connected")
	return nil
}

// Closed reports whether teardown has finished.
func (s *Session) Closed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// CheckAlive reports whether a connected session still answers on its socket.
func (s *Session) CheckAlive(ctx context.Context) bool {
	if s.State() != StateConnected {
		return false
	}
	return s.ctl.Check(ctx) == nil
}

// Disconnect asks the master to exit, kills it if it is still our child and
// removes the socket. Calling it again, or on a session that never
// connected, returns nil once the first teardown has finished.
func (s *Session) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	prev := s.state
	if prev == StateClosed {
		s.mu.Unlock()
		select {
		case <-s.closed:
		case <-ctx.Done():
		}
		return nil
	}
	s.state = StateClosed
	s.mu.Unlock()
	defer close(s.closed)

	if prev == StateNew {
		return nil
	}

	if err := s.ctl.Exit(ctx); err != nil {
		s.logger.Debug().Err(err).Msg("Control exit failed")
	}
	s.stop()
	s.logger.Info().Msg("Session disconnected")
	return nil
}

// teardown closes a session whose connect failed.
func (s *Session) teardown() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.mu.Unlock()
	defer close(s.closed)
	s.stop()
}

// stop kills the master if it is still running and removes the socket.
func (s *Session) stop() {
	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		select {
		case <-s.done:
		default:
			_ = cmd.Process.Kill()
			select {
			case <-s.done:
			case <-time.After(killWait):
				s.logger.Warn().Int("pid", cmd.Process.Pid).Msg("ssh master did not exit after kill")
			}
		}
	}
	removeSocket(s.ctl.SocketPath)
}

// clearStaleSocket shuts down whatever master a previous run left behind on
// our socket path. Called with s.mu held.
func (s *Session) clearStaleSocket(ctx context.Context) {
	if _, err := os.Stat(s.ctl.SocketPath); err != nil {
		return
	}
	s.logger.Warn().Str("socket", s.ctl.SocketPath).Msg("Removing stale control socket")
	_ = s.ctl.Exit(ctx)
	removeSocket(s.ctl.SocketPath)
}

func removeSocket(path string) {
	_ = os.Remove(path)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

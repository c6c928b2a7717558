package ui

import (
	"context"

	"sshTunnelManager/internal/history"
	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/ssh"

	"github.com/google/uuid"
)

// Session is the part of *ssh.Session the UI loop relies on.
type Session interface {
	ID() uuid.UUID
	Host() models.Host
	Control() ssh.Control
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	CheckAlive(ctx context.Context) bool
	Closed() bool
}

// Transport creates sessions and drives tunnels over their control sockets.
type Transport interface {
	NewSession(host models.Host) Session
	EnableTunnel(ctx context.Context, ctl ssh.Control, t models.Tunnel) error
	DisableTunnel(ctx context.Context, ctl ssh.Control, t models.Tunnel) error
}

// HistoryStore persists history snapshots. *history.Store implements it.
type HistoryStore interface {
	Persist(rev uint64, h history.History) error
}

type sshTransport struct {
	opts ssh.Options
}

// NewSSHTransport returns a Transport backed by the ssh binary.
func NewSSHTransport(opts ssh.Options) Transport {
	return sshTransport{opts: opts}
}

func (t sshTransport) NewSession(host models.Host) Session {
	return ssh.NewSession(host, t.opts)
}

func (t sshTransport) EnableTunnel(ctx context.Context, ctl ssh.Control, tn models.Tunnel) error {
	return ssh.EnableTunnel(ctx, ctl, tn)
}

func (t sshTransport) DisableTunnel(ctx context.Context, ctl ssh.Control, tn models.Tunnel) error {
	return ssh.DisableTunnel(ctx, ctl, tn)
}

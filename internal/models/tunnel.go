package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tunnel is a local-to-remote forwarding rule layered onto a live session.
type Tunnel struct {
	ID         uuid.UUID
	LocalPort  int
	RemoteHost string
	RemotePort int
	Enabled    bool
	CreatedAt  time.Time
}

// NewTunnel returns a disabled tunnel with a fresh identity.
func NewTunnel(localPort int, remoteHost string, remotePort int) Tunnel {
	return Tunnel{
		ID:         uuid.New(),
		LocalPort:  localPort,
		RemoteHost: remoteHost,
		RemotePort: remotePort,
		CreatedAt:  time.Now(),
	}
}

// ForwardSpec formats the rule as "local_port:remote_host:remote_port".
func (t Tunnel) ForwardSpec() string {
	return fmt.Sprintf("%d:%s:%d", t.LocalPort, t.RemoteHost, t.RemotePort)
}

// Saved strips runtime state, leaving what history keeps.
func (t Tunnel) Saved() SavedTunnel {
	return SavedTunnel{
		LocalPort:  t.LocalPort,
		RemoteHost: t.RemoteHost,
		RemotePort: t.RemotePort,
	}
}

// SavedTunnel is the persisted form of a tunnel.
type SavedTunnel struct {
	LocalPort  int    `json:"local_port"`
	RemoteHost string `json:"remote_host"`
	RemotePort int    `json:"remote_port"`
}

// Tunnel materializes a new, disabled tunnel from the saved spec.
func (s SavedTunnel) Tunnel() Tunnel {
	return NewTunnel(s.LocalPort, s.RemoteHost, s.RemotePort)
}

// internal/models/host.go

package models

import (
	"fmt"
	"strconv"
)

// DefaultPort is the port used when a host entry does not set one.
const DefaultPort = 22

// Host is one named entry from the ssh client config.
// Hosts are immutable once loaded.
type Host struct {
	Name         string `json:"name"`
	HostName     string `json:"hostname,omitempty"`
	User         string `json:"user,omitempty"`
	Port         int    `json:"port,omitempty"`
	IdentityFile string `json:"identity_file,omitempty"`
	ProxyJump    string `json:"proxy_jump,omitempty"`
}

// EffectiveHostName returns HostName, falling back to the entry name.
func (h Host) EffectiveHostName() string {
	if h.HostName != "" {
		return h.HostName
	}
	return h.Name
}

// EffectivePort returns Port, falling back to 22.
func (h Host) EffectivePort() int {
	if h.Port > 0 {
		return h.Port
	}
	return DefaultPort
}

// Target is the destination argument handed to ssh.
func (h Host) Target() string {
	if h.User != "" {
		return h.User + "@" + h.EffectiveHostName()
	}
	return h.EffectiveHostName()
}

// Display renders the host as its name followed by the ssh target.
func (h Host) Display() string {
	addr := h.Target()
	if h.EffectivePort() != DefaultPort {
		addr += ":" + strconv.Itoa(h.EffectivePort())
	}
	return fmt.Sprintf("%s (%s)", h.Name, addr)
}

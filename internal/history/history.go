// Package history keeps per-host connection statistics and the tunnels
// that were open the last time each host was used.
package history

import (
	"sort"
	"time"

	"sshTunnelManager/internal/models"
)

// History maps host names to their usage record.
type History struct {
	Hosts map[string]HostHistory `json:"hosts"`
}

// HostHistory is the usage record of one host.
type HostHistory struct {
	LastUsed time.Time            `json:"last_used"`
	UseCount int                  `json:"use_count"`
	Tunnels  []models.SavedTunnel `json:"tunnels"`
}

func New() History {
	return History{Hosts: make(map[string]HostHistory)}
}

// RecordConnection bumps the use count and last-used time of name,
// creating the entry on first use.
func (h *History) RecordConnection(name string, at time.Time) {
	if h.Hosts == nil {
		h.Hosts = make(map[string]HostHistory)
	}
	entry := h.Hosts[name]
	entry.LastUsed = at.UTC()
	entry.UseCount++
	if entry.Tunnels == nil {
		entry.Tunnels = []models.SavedTunnel{}
	}
	h.Hosts[name] = entry
}

// SaveTunnels replaces the saved tunnels of name. Hosts that were never
// recorded are left alone.
func (h *History) SaveTunnels(name string, tunnels []models.Tunnel) {
	entry, ok := h.Hosts[name]
	if !ok {
		return
	}
	saved := make([]models.SavedTunnel, 0, len(tunnels))
	for _, t := range tunnels {
		saved = append(saved, t.Saved())
	}
	entry.Tunnels = saved
	h.Hosts[name] = entry
}

// SavedTunnels returns the tunnels remembered for name.
func (h History) SavedTunnels(name string) []models.SavedTunnel {
	entry, ok := h.Hosts[name]
	if !ok {
		return nil
	}
	out := make([]models.SavedTunnel, len(entry.Tunnels))
	copy(out, entry.Tunnels)
	return out
}

// Entry returns the record for name.
func (h History) Entry(name string) (HostHistory, bool) {
	entry, ok := h.Hosts[name]
	return entry, ok
}

// RecentHosts returns host names ordered by last use, newest first.
// Ties are broken by name so the order is stable.
func (h History) RecentHosts() []string {
	names := make([]string, 0, len(h.Hosts))
	for name := range h.Hosts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := h.Hosts[names[i]], h.Hosts[names[j]]
		if !a.LastUsed.Equal(b.LastUsed) {
			return a.LastUsed.After(b.LastUsed)
		}
		return names[i] < names[j]
	})
	return names
}

// Clone returns a deep copy safe to hand to another goroutine.
func (h History) Clone() History {
	out := History{Hosts: make(map[string]HostHistory, len(h.Hosts))}
	for name, entry := range h.Hosts {
		tunnels := make([]models.SavedTunnel, len(entry.Tunnels))
		copy(tunnels, entry.Tunnels)
		entry.Tunnels = tunnels
		out.Hosts[name] = entry
	}
	return out
}

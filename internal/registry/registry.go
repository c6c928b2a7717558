// Package registry holds the ordered tunnel list of the current session.
// It is owned by the UI loop and is not safe for concurrent use.
package registry

import (
	"sshTunnelManager/internal/models"

	"github.com/google/uuid"
)

// Registry is an ordered set of tunnels keyed by identity, plus the set of
// tunnels with a control request in flight.
type Registry struct {
	tunnels []models.Tunnel
	busy    map[uuid.UUID]bool
}

func New() *Registry {
	return &Registry{busy: make(map[uuid.UUID]bool)}
}

func (r *Registry) Len() int { return len(r.tunnels) }

// All returns a copy of the tunnels in display order.
func (r *Registry) All() []models.Tunnel {
	out := make([]models.Tunnel, len(r.tunnels))
	copy(out, r.tunnels)
	return out
}

// At returns the tunnel at position i.
func (r *Registry) At(i int) (models.Tunnel, bool) {
	if i < 0 || i >= len(r.tunnels) {
		return models.Tunnel{}, false
	}
	return r.tunnels[i], true
}

// Get returns the tunnel with the given identity.
func (r *Registry) Get(id uuid.UUID) (models.Tunnel, bool) {
	i := r.IndexOf(id)
	if i < 0 {
		return models.Tunnel{}, false
	}
	return r.tunnels[i], true
}

// IndexOf returns the position of id, or -1.
func (r *Registry) IndexOf(id uuid.UUID) int {
	for i, t := range r.tunnels {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add appends t. A tunnel whose identity is already present is ignored.
func (r *Registry) Add(t models.Tunnel) bool {
	if r.IndexOf(t.ID) >= 0 {
		return false
	}
	r.tunnels = append(r.tunnels, t)
	return true
}

// Remove deletes the tunnel with identity id. Unknown ids are a no-op.
func (r *Registry) Remove(id uuid.UUID) bool {
	i := r.IndexOf(id)
	delete(r.busy, id)
	if i < 0 {
		return false
	}
	r.tunnels = append(r.tunnels[:i], r.tunnels[i+1:]...)
	return true
}

// SetEnabled updates the enabled flag of id. Unknown ids are a no-op.
func (r *Registry) SetEnabled(id uuid.UUID, enabled bool) bool {
	i := r.IndexOf(id)
	if i < 0 {
		return false
	}
	r.tunnels[i].Enabled = enabled
	return true
}

// MarkBusy records an in-flight request for id. It returns false when one
// is already pending or id is unknown.
func (r *Registry) MarkBusy(id uuid.UUID) bool {
	if r.busy[id] || r.IndexOf(id) < 0 {
		return false
	}
	r.busy[id] = true
	return true
}

func (r *Registry) ClearBusy(id uuid.UUID) { delete(r.busy, id) }

func (r *Registry) Busy(id uuid.UUID) bool { return r.busy[id] }

// Clear drops every tunnel and pending mark.
func (r *Registry) Clear() {
	r.tunnels = nil
	r.busy = make(map[uuid.UUID]bool)
}

// LocalPortInUse reports whether another tunnel already claims port.
func (r *Registry) LocalPortInUse(port int) bool {
	for _, t := range r.tunnels {
		if t.LocalPort == port {
			return true
		}
	}
	return false
}

package registry

import (
	"testing"

	"sshTunnelManager/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndLookup(t *testing.T) {
	r := New()
	a := models.NewTunnel(8080, "localhost", 80)
	b := models.NewTunnel(5432, "db", 5432)

	require.True(t, r.Add(a))
	require.True(t, r.Add(b))
	assert.False(t, r.Add(a))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, r.IndexOf(b.ID))
	assert.Equal(t, -1, r.IndexOf(uuid.New()))

	got, ok := r.At(0)
	require.True(t, ok)
	assert.Equal(t, a.ID, got.ID)

	_, ok = r.At(2)
	assert.False(t, ok)
	_, ok = r.At(-1)
	assert.False(t, ok)
}

func TestRemoveKeepsOrder(t *testing.T) {
	r := New()
	tunnels := []models.Tunnel{
		models.NewTunnel(1001, "h", 1),
		models.NewTunnel(1002, "h", 2),
		models.NewTunnel(1003, "h", 3),
	}
	for _, tn := range tunnels {
		r.Add(tn)
	}

	assert.True(t, r.Remove(tunnels[1].ID))
	assert.False(t, r.Remove(tunnels[1].ID))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, tunnels[0].ID, all[0].ID)
	assert.Equal(t, tunnels[2].ID, all[1].ID)
}

func TestAllReturnsCopy(t *testing.T) {
	r := New()
	tn := models.NewTunnel(8080, "localhost", 80)
	r.Add(tn)

	all := r.All()
	all[0].Enabled = true

	got, _ := r.Get(tn.ID)
	assert.False(t, got.Enabled)
}

func TestSetEnabledUnknownIsNoop(t *testing.T) {
	r := New()
	tn := models.NewTunnel(8080, "localhost", 80)
	r.Add(tn)

	assert.False(t, r.SetEnabled(uuid.New(), true))
	assert.True(t, r.SetEnabled(tn.ID, true))

	got, _ := r.Get(tn.ID)
	assert.True(t, got.Enabled)
}

func TestBusyMarks(t *testing.T) {
	r := New()
	tn := models.NewTunnel(8080, "localhost", 80)
	r.Add(tn)

	assert.True(t, r.MarkBusy(tn.ID))
	assert.False(t, r.MarkBusy(tn.ID))
	assert.True(t, r.Busy(tn.ID))
	assert.False(t, r.MarkBusy(uuid.New()))

	r.ClearBusy(tn.ID)
	assert.False(t, r.Busy(tn.ID))

	r.MarkBusy(tn.ID)
	r.Remove(tn.ID)
	assert.False(t, r.Busy(tn.ID))
}

func TestClearAndPortLookup(t *testing.T) {
	r := New()
	tn := models.NewTunnel(8080, "localhost", 80)
	r.Add(tn)
	r.MarkBusy(tn.ID)

	assert.True(t, r.LocalPortInUse(8080))
	assert.False(t, r.LocalPortInUse(9090))

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.False(t, r.Busy(tn.ID))
	assert.False(t, r.LocalPortInUse(8080))
}

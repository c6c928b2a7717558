package ssh

import (
	"context"
	"net"
	"testing"
	"time"

	apperr "sshTunnelManager/internal/error"
	"sshTunnelManager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableDisableTunnel(t *testing.T) {
	f := setupFakeSSH(t)
	s := newFakeSession(f, models.Host{Name: "prod", User: "deploy"}, 10*time.Millisecond)
	ctx := context.Background()
	require.NoError(t, s.Connect(ctx))
	t.Cleanup(func() { _ = s.Disconnect(ctx) })

	tn := models.NewTunnel(8080, "localhost", 80)

	require.NoError(t, EnableTunnel(ctx, s.Control(), tn))
	assert.True(t, f.called(t, "-O forward -L 8080:localhost:80 deploy@prod"))

	require.NoError(t, DisableTunnel(ctx, s.Control(), tn))
	assert.True(t, f.called(t, "-O cancel -L 8080:localhost:80 deploy@prod"))
}

func TestEnableTunnelFailure(t *testing.T) {
	f := setupFakeSSH(t)
	t.Setenv("FAKE_SSH_FORWARD_FAIL", "mux_client_forward: forwarding request failed: Port forwarding failed")

	ctl := Control{Binary: f.binary, SocketPath: "/nonexistent", Target: "prod"}
	err := EnableTunnel(context.Background(), ctl, models.NewTunnel(8080, "localhost", 80))
	require.Error(t, err)
	assert.True(t, apperr.IsType(err, apperr.SessionError))
	assert.Equal(t, "Failed to add tunnel: mux_client_forward: forwarding request failed: Port forwarding failed", apperr.Reason(err))
}

func TestIsPortAvailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port

	assert.False(t, IsPortAvailable(port))
	require.NoError(t, ln.Close())
	assert.True(t, IsPortAvailable(port))
}

package ssh

import (
	"context"
	"errors"
	"net"
	"strconv"

	apperr "sshTunnelManager/internal/error"
	"sshTunnelManager/internal/models"
)

// EnableTunnel adds the tunnel's forward to the master behind ctl.
func EnableTunnel(ctx context.Context, ctl Control, t models.Tunnel) error {
	if err := ctl.Forward(ctx, t.ForwardSpec()); err != nil {
		return apperr.Session("Failed to add tunnel: "+commandReason(err), err)
	}
	return nil
}

// DisableTunnel removes the tunnel's forward from the master behind ctl.
func DisableTunnel(ctx context.Context, ctl Control, t models.Tunnel) error {
	if err := ctl.Cancel(ctx, t.ForwardSpec()); err != nil {
		return apperr.Session("Failed to remove tunnel: "+commandReason(err), err)
	}
	return nil
}

// IsPortAvailable reports whether port can be bound on the loopback address.
func IsPortAvailable(port int) bool {
	ln, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = ln.Close()
	return true
}

func commandReason(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Stderr != "" {
		return cmdErr.Stderr
	}
	return err.Error()
}
